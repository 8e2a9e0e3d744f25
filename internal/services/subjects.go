package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/studyflow-backend/internal/data/repos"
	types "github.com/yungbote/studyflow-backend/internal/domain"
	"github.com/yungbote/studyflow-backend/internal/modules/scheduling"
	"github.com/yungbote/studyflow-backend/internal/platform/apierr"
	"github.com/yungbote/studyflow-backend/internal/platform/dbctx"
	"github.com/yungbote/studyflow-backend/internal/platform/logger"
)

type SubjectService interface {
	// Resolve matches name against the user's subjects (exact key, then substring
	// either way) and creates a new one when nothing matches.
	Resolve(dbc dbctx.Context, name string) (*types.Subject, error)
	Upsert(ctx context.Context, name string) (*types.Subject, error)
	List(ctx context.Context, activeOnly bool) ([]*types.Subject, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (*types.Subject, error)
}

type subjectService struct {
	db          *gorm.DB
	log         *logger.Logger
	subjectRepo repos.SubjectRepo
	palette     []string
}

func NewSubjectService(db *gorm.DB, log *logger.Logger, subjectRepo repos.SubjectRepo, cfg scheduling.Config) SubjectService {
	return &subjectService{
		db:          db,
		log:         log.With("service", "SubjectService"),
		subjectRepo: subjectRepo,
		palette:     cfg.Palette,
	}
}

func (s *subjectService) Resolve(dbc dbctx.Context, name string) (*types.Subject, error) {
	userID, err := requireUser(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	key := types.SubjectKey(name)
	if key == "" {
		return nil, apierr.Invalid("subject name is required")
	}

	existing, err := s.subjectRepo.GetByUserID(dbc, userID, false)
	if err != nil {
		return nil, fmt.Errorf("load subjects: %w", err)
	}
	if match := matchSubject(existing, key); match != nil {
		return match, nil
	}
	return s.create(dbc, userID, name)
}

// matchSubject prefers an exact key, then an existing name containing the query,
// then a query containing an existing name. Order within a tier is list order.
func matchSubject(subjects []*types.Subject, key string) *types.Subject {
	for _, sub := range subjects {
		if sub.NameKey == key {
			return sub
		}
	}
	for _, sub := range subjects {
		if strings.Contains(sub.NameKey, key) {
			return sub
		}
	}
	for _, sub := range subjects {
		if sub.NameKey != "" && strings.Contains(key, sub.NameKey) {
			return sub
		}
	}
	return nil
}

func (s *subjectService) create(dbc dbctx.Context, userID uuid.UUID, name string) (*types.Subject, error) {
	display := strings.Join(strings.Fields(name), " ")
	row, err := s.subjectRepo.Upsert(dbc, &types.Subject{
		UserID: userID,
		Name:   display,
		Color:  scheduling.ColorFor(display, s.palette),
		Active: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create subject: %w", err)
	}
	if row == nil {
		return nil, fmt.Errorf("create subject %q: not persisted", display)
	}
	s.log.Info("Subject upserted", "user_id", userID, "subject", row.Name, "color", row.Color)
	return row, nil
}

func (s *subjectService) Upsert(ctx context.Context, name string) (*types.Subject, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if types.SubjectKey(name) == "" {
		return nil, apierr.Invalid("subject name is required")
	}
	return s.create(dbctx.Context{Ctx: ctx}, userID, name)
}

func (s *subjectService) List(ctx context.Context, activeOnly bool) ([]*types.Subject, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	return s.subjectRepo.GetByUserID(dbctx.Context{Ctx: ctx}, userID, activeOnly)
}

func (s *subjectService) SetActive(ctx context.Context, id uuid.UUID, active bool) (*types.Subject, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	rows, err := s.subjectRepo.GetByIDs(dbc, userID, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("subject %s: %w", id, apierr.ErrNotFound)
	}
	if err := s.subjectRepo.UpdateFields(dbc, userID, id, map[string]any{"active": active}); err != nil {
		return nil, err
	}
	rows[0].Active = active
	return rows[0], nil
}
