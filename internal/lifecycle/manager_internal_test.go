package lifecycle

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

// racingStore reports no open session on lookup and then loses the insert,
// the way a concurrent check-in for the same user would look from here.
type racingStore struct {
	createErr error
	closeErr  error
	closed    int64
	created   int
}

func (s *racingStore) FindUserByExternalID(_ context.Context, externalID string) (model.User, error) {
	return model.User{ID: 1, ExternalID: externalID}, nil
}

func (s *racingStore) FindResourceByLabel(_ context.Context, label string) (model.Resource, error) {
	return model.Resource{ID: 2, Label: label}, nil
}

func (s *racingStore) FindOpenSessionForUser(context.Context, model.ID) (model.Session, error) {
	return model.Session{}, model.NewError("session", model.ErrNotFound)
}

func (s *racingStore) CreateSession(_ context.Context, userID, resourceID model.ID, startedAt time.Time) (model.Session, error) {
	s.created++
	if s.createErr != nil {
		return model.Session{}, s.createErr
	}
	return model.Session{ID: 3, UserID: userID, ResourceID: resourceID, StartedAt: startedAt}, nil
}

func (s *racingStore) CloseOpenSessionForUser(context.Context, model.ID, time.Time) (int64, error) {
	return s.closed, s.closeErr
}

func newTestManager(store Store) *Manager {
	fixed := time.Date(2026, 3, 2, 8, 0, 0, 123456789, time.FixedZone("BRT", -3*60*60))
	return NewManager(slog.New(slog.NewTextHandler(io.Discard, nil)), store, WithClock(func() time.Time { return fixed }))
}

func TestCheckInLostRaceIsAlreadyActive(t *testing.T) {
	store := &racingStore{createErr: model.NewError("session", model.ErrConstraintViolation)}

	_, err := newTestManager(store).CheckIn(context.Background(), "alice", "PC-01")
	require.ErrorIs(t, err, model.ErrAlreadyActive)
	assert.NotErrorIs(t, err, model.ErrConstraintViolation)
	assert.Equal(t, 1, store.created)
}

func TestCheckInTimestampIsUTC(t *testing.T) {
	session, err := newTestManager(&racingStore{}).CheckIn(context.Background(), "alice", "PC-01")
	require.NoError(t, err)

	assert.Equal(t, time.UTC, session.StartedAt.Location())
	assert.Equal(t, 11, session.StartedAt.Hour())
	assert.Equal(t, 123456000, session.StartedAt.Nanosecond())
}

func TestStoreUnavailablePropagates(t *testing.T) {
	down := model.Unavailable(errors.New("connection refused"))

	_, err := newTestManager(&racingStore{createErr: down}).CheckIn(context.Background(), "alice", "PC-01")
	require.ErrorIs(t, err, model.ErrStoreUnavailable)

	err = newTestManager(&racingStore{closeErr: down}).CheckOut(context.Background(), "alice")
	require.ErrorIs(t, err, model.ErrStoreUnavailable)
}

func TestCheckOutClosedCount(t *testing.T) {
	require.NoError(t, newTestManager(&racingStore{closed: 1}).CheckOut(context.Background(), "alice"))

	err := newTestManager(&racingStore{closed: 0}).CheckOut(context.Background(), "alice")
	require.ErrorIs(t, err, model.ErrNoActiveSession)
}

func TestCheckOutBeforeStartIsRejected(t *testing.T) {
	store := &racingStore{closeErr: model.NewError("session", model.ErrValidation)}

	err := newTestManager(store).CheckOut(context.Background(), "alice")
	require.ErrorIs(t, err, model.ErrValidation)
	assert.NotErrorIs(t, err, model.ErrStoreUnavailable)
}
