package database

import (
	"context"
	"log/slog"
	"time"

	"github.com/protomem/resource-tracker/internal/model"
)

// EntityStore exposes the durable records for users, resources and sessions.
// Every method runs as a single statement, so each call is atomic on its own.
type EntityStore struct {
	users     *UserDAO
	resources *ResourceDAO
	sessions  *SessionDAO
}

func NewEntityStore(logger *slog.Logger, db *DB) *EntityStore {
	return &EntityStore{
		users:     NewUserDAO(logger, db),
		resources: NewResourceDAO(logger, db),
		sessions:  NewSessionDAO(logger, db),
	}
}

func (s *EntityStore) FindUserByExternalID(ctx context.Context, externalID string) (model.User, error) {
	return s.users.GetByExternalID(ctx, externalID)
}

func (s *EntityStore) FindResourceByLabel(ctx context.Context, label string) (model.Resource, error) {
	return s.resources.GetByLabel(ctx, label)
}

func (s *EntityStore) FindOpenSessionForUser(ctx context.Context, userID model.ID) (model.Session, error) {
	return s.sessions.GetOpenByUser(ctx, userID)
}

func (s *EntityStore) CreateSession(ctx context.Context, userID, resourceID model.ID, startedAt time.Time) (model.Session, error) {
	id, err := s.sessions.Insert(ctx, InsertSessionDTO{
		User:     userID,
		Resource: resourceID,
		Begin:    startedAt,
	})
	if err != nil {
		return model.Session{}, err
	}

	return model.Session{
		ID:         id,
		UserID:     userID,
		ResourceID: resourceID,
		StartedAt:  startedAt,
	}, nil
}

func (s *EntityStore) CloseOpenSessionForUser(ctx context.Context, userID model.ID, endedAt time.Time) (int64, error) {
	return s.sessions.CloseOpenByUser(ctx, userID, endedAt)
}

func (s *EntityStore) ListOpenSessions(ctx context.Context) ([]model.ActiveSession, error) {
	return s.sessions.ListOpen(ctx)
}

func (s *EntityStore) ListSessionsForUser(ctx context.Context, userID model.ID) ([]model.Session, error) {
	return s.sessions.ListByUser(ctx, userID)
}

func (s *EntityStore) ListResources(ctx context.Context) ([]model.Resource, error) {
	return s.resources.List(ctx)
}

func (s *EntityStore) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.users.List(ctx)
}

func (s *EntityStore) CreateUser(ctx context.Context, externalID, displayName string) (model.User, error) {
	id, err := s.users.Insert(ctx, InsertUserDTO{ExternalID: externalID, DisplayName: displayName})
	if err != nil {
		return model.User{}, err
	}

	return model.User{ID: id, ExternalID: externalID, DisplayName: displayName}, nil
}

func (s *EntityStore) CreateResource(ctx context.Context, label string, category model.Category) (model.Resource, error) {
	id, err := s.resources.Insert(ctx, InsertResourceDTO{Label: label, Category: category})
	if err != nil {
		return model.Resource{}, err
	}

	return model.Resource{ID: id, Label: label, Category: category}, nil
}
