package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/yungbote/studyflow-backend/internal/app"
	"github.com/yungbote/studyflow-backend/internal/platform/ctxutil"
)

var (
	userFlag string
)

var rootCmd = &cobra.Command{
	Use:           "studyctl",
	Short:         "studyctl - maintenance commands for the studyflow backend",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&userFlag, "user", "", "User id the command acts as")
}

// withApp builds the app without the HTTP layer and runs fn under a user context.
func withApp(cmd *cobra.Command, needUser bool, fn func(ctx context.Context, a *app.App, userID uuid.UUID) error) error {
	userID := uuid.Nil
	if needUser {
		id, err := uuid.Parse(userFlag)
		if err != nil || id == uuid.Nil {
			return fmt.Errorf("--user must be a valid user id")
		}
		userID = id
	}
	ctx := cmd.Context()
	a, err := app.New(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()
	if userID != uuid.Nil {
		ctx = ctxutil.WithRequestData(ctx, &ctxutil.RequestData{UserID: userID})
	}
	return fn(ctx, a, userID)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
