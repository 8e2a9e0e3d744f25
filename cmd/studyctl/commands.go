package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/yungbote/studyflow-backend/internal/app"
)

var (
	tokenTTL   time.Duration
	nextDayFor string
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply schema migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, false, func(ctx context.Context, a *app.App, _ uuid.UUID) error {
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		})
	},
}

var rebalanceCmd = &cobra.Command{
	Use:   "rebalance",
	Short: "Move the user's overdue tasks forward",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, true, func(ctx context.Context, a *app.App, _ uuid.UUID) error {
			moves, err := a.Services.Planning.AdjustOverdue(ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), moves)
		})
	},
}

var nextDayCmd = &cobra.Command{
	Use:   "next-day",
	Short: "Generate tasks for the next day (or --date)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, true, func(ctx context.Context, a *app.App, _ uuid.UUID) error {
			res, err := a.Services.Planning.GenerateNextDay(ctx, nextDayFor)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		})
	},
}

var readinessCmd = &cobra.Command{
	Use:   "readiness",
	Short: "Print the user's exam readiness report",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, true, func(ctx context.Context, a *app.App, _ uuid.UUID) error {
			rep, err := a.Services.Analytics.Readiness(ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), rep)
		})
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for the user",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, true, func(ctx context.Context, a *app.App, userID uuid.UUID) error {
			tok, err := a.Services.Auth.IssueToken(userID, tokenTTL)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		})
	},
}

func init() {
	nextDayCmd.Flags().StringVar(&nextDayFor, "date", "", "Target date (YYYY-MM-DD); defaults to tomorrow")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", time.Hour, "Token lifetime")
	rootCmd.AddCommand(migrateCmd, rebalanceCmd, nextDayCmd, readinessCmd, tokenCmd)
}
