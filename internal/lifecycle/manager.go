// Package lifecycle decides check-in and check-out transitions.
//
// A user is Idle while no open session references them and Active while one
// does. The Manager keeps no state of its own: every decision is taken against
// the store, and the store's unique index over open sessions per user is the
// authority on whether a check-in wins. The lookup for an existing open
// session only shortens the path for the common case.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/protomem/resource-tracker/internal/metrics"
	"github.com/protomem/resource-tracker/internal/model"
	"github.com/protomem/resource-tracker/internal/validator"
)

const (
	OpCheckIn  = "check_in"
	OpCheckOut = "check_out"
)

// Store is the slice of the entity store the Manager relies on.
type Store interface {
	FindUserByExternalID(ctx context.Context, externalID string) (model.User, error)
	FindResourceByLabel(ctx context.Context, label string) (model.Resource, error)
	FindOpenSessionForUser(ctx context.Context, userID model.ID) (model.Session, error)
	CreateSession(ctx context.Context, userID, resourceID model.ID, startedAt time.Time) (model.Session, error)
	CloseOpenSessionForUser(ctx context.Context, userID model.ID, endedAt time.Time) (int64, error)
}

type Option func(*Manager)

func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

func WithMetrics(metrics *metrics.Metrics) Option {
	return func(m *Manager) {
		m.metrics = metrics
	}
}

type Manager struct {
	logger  *slog.Logger
	store   Store
	now     func() time.Time
	metrics *metrics.Metrics
}

func NewManager(logger *slog.Logger, store Store, opts ...Option) *Manager {
	m := &Manager{
		logger: logger.With("module", "lifecycle"),
		store:  store,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CheckIn opens a session binding the user to the resource.
func (m *Manager) CheckIn(ctx context.Context, externalUserID, resourceLabel string) (session model.Session, err error) {
	defer func() { m.observe(OpCheckIn, err, "matricula", externalUserID, "recurso", resourceLabel) }()

	var v validator.Validator
	v.CheckField(validator.NotBlank(externalUserID), "matricula", "is required")
	v.CheckField(validator.NotBlank(resourceLabel), "identificadorRecurso", "is required")
	if v.HasErrors() {
		return model.Session{}, fmt.Errorf("%w: %s", model.ErrValidation, v.Message())
	}

	user, err := m.store.FindUserByExternalID(ctx, externalUserID)
	if err != nil {
		return model.Session{}, err
	}

	resource, err := m.store.FindResourceByLabel(ctx, resourceLabel)
	if err != nil {
		return model.Session{}, err
	}

	_, err = m.store.FindOpenSessionForUser(ctx, user.ID)
	switch {
	case err == nil:
		return model.Session{}, alreadyActive(externalUserID)
	case !errors.Is(err, model.ErrNotFound):
		return model.Session{}, err
	}

	session, err = m.store.CreateSession(ctx, user.ID, resource.ID, m.timestamp())
	if err != nil {
		if errors.Is(err, model.ErrConstraintViolation) {
			return model.Session{}, alreadyActive(externalUserID)
		}
		return model.Session{}, err
	}

	return session, nil
}

// CheckOut closes the user's open session. Repeating it reports
// ErrNoActiveSession without touching the store.
func (m *Manager) CheckOut(ctx context.Context, externalUserID string) (err error) {
	defer func() { m.observe(OpCheckOut, err, "matricula", externalUserID) }()

	if !validator.NotBlank(externalUserID) {
		return fmt.Errorf("%w: matricula is required", model.ErrValidation)
	}

	user, err := m.store.FindUserByExternalID(ctx, externalUserID)
	if err != nil {
		return err
	}

	closed, err := m.store.CloseOpenSessionForUser(ctx, user.ID, m.timestamp())
	if err != nil {
		return err
	}
	if closed == 0 {
		return fmt.Errorf("user %s: %w", externalUserID, model.ErrNoActiveSession)
	}

	return nil
}

// timestamp reads wall time only. A clock stepped back between check-in and
// check-out makes the store reject the end as a validation error.
func (m *Manager) timestamp() time.Time {
	return m.now().UTC().Truncate(time.Microsecond)
}

func (m *Manager) observe(op string, err error, args ...any) {
	m.metrics.ObserveTransition(op, err)

	args = append(args, "operation", op)
	switch outcome := metrics.Outcome(err); outcome {
	case metrics.OutcomeAccepted:
		m.logger.Info("transition accepted", args...)
	case metrics.OutcomeError:
		m.logger.Warn("transition failed", append(args, "error", err)...)
	default:
		m.logger.Debug("transition rejected", append(args, "outcome", outcome, "reason", err)...)
	}
}

func alreadyActive(externalUserID string) error {
	return fmt.Errorf("user %s: %w", externalUserID, model.ErrAlreadyActive)
}
