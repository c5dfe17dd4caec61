package query

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/protomem/resource-tracker/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReader struct {
	sessions  []model.ActiveSession
	resources []model.Resource
	err       error
}

func (r stubReader) ListOpenSessions(context.Context) ([]model.ActiveSession, error) {
	return r.sessions, r.err
}

func (r stubReader) ListResources(context.Context) ([]model.Resource, error) {
	return r.resources, r.err
}

func newService(r Reader) *Service {
	return NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), r)
}

func TestActiveSessions(t *testing.T) {
	startedAt := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	svc := newService(stubReader{sessions: []model.ActiveSession{{
		Session:  model.Session{ID: 9, UserID: 1, ResourceID: 2, StartedAt: startedAt},
		User:     model.User{ID: 1, ExternalID: "alice", DisplayName: "Alice"},
		Resource: model.Resource{ID: 2, Label: "PC-01", Category: model.CategoryWorkstation},
	}}})

	active, err := svc.ActiveSessions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []ActiveSession{{
		SessionID:      9,
		DisplayName:    "Alice",
		ExternalUserID: "alice",
		ResourceLabel:  "PC-01",
		StartedAt:      startedAt,
	}}, active)
}

func TestEmptyProjectionsAreNotNil(t *testing.T) {
	svc := newService(stubReader{})

	active, err := svc.ActiveSessions(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, active)

	catalog, err := svc.Catalog(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, catalog)
}

func TestCatalog(t *testing.T) {
	svc := newService(stubReader{resources: []model.Resource{
		{ID: 2, Label: "DESK-01", Category: model.CategoryDesk},
		{ID: 1, Label: "PC-01", Category: model.CategoryWorkstation},
	}})

	catalog, err := svc.Catalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []CatalogEntry{
		{Label: "DESK-01", Category: model.CategoryDesk},
		{Label: "PC-01", Category: model.CategoryWorkstation},
	}, catalog)
}

func TestStoreUnavailable(t *testing.T) {
	svc := newService(stubReader{err: model.Unavailable(errors.New("connection reset"))})

	_, err := svc.ActiveSessions(context.Background())
	require.ErrorIs(t, err, model.ErrStoreUnavailable)

	_, err = svc.Catalog(context.Background())
	require.ErrorIs(t, err, model.ErrStoreUnavailable)
}
