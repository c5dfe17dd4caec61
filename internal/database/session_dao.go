package database

import (
	"context"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/protomem/resource-tracker/internal/model"
)

var _sessionColumns = []string{"id", "user_id", "resource_id", "started_at", "ended_at"}

type SessionDAO struct {
	Logger *slog.Logger
	*DB
}

func NewSessionDAO(logger *slog.Logger, db *DB) *SessionDAO {
	return &SessionDAO{
		Logger: logger.With("dao", "session"),
		DB:     db,
	}
}

func (dao *SessionDAO) GetOpenByUser(ctx context.Context, user model.ID) (model.Session, error) {
	logger := dao.Logger.With("query", "getOpenByUser")

	query, args, err := dao.Builder.
		Select(_sessionColumns...).
		From("sessions").
		Where(squirrel.Eq{"user_id": user}).
		Where(squirrel.Eq{"ended_at": nil}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Session{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var session model.Session
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.StructScan(&session); err != nil {
		if IsNoRows(err) {
			return model.Session{}, model.NewError("session", model.ErrNotFound)
		}

		logger.Warn("failed query execute", "error", err)

		return model.Session{}, storeError(err)
	}

	return session, nil
}

type InsertSessionDTO struct {
	User     model.ID
	Resource model.ID
	Begin    time.Time
}

// Insert opens a session. A unique violation means another open session for
// the same user was committed first.
func (dao *SessionDAO) Insert(ctx context.Context, dto InsertSessionDTO) (model.ID, error) {
	logger := dao.Logger.With("query", "insert")

	query, args, err := dao.Builder.
		Insert("sessions").
		Columns("user_id", "resource_id", "started_at").
		Values(dto.User, dto.Resource, dto.Begin).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var id model.ID
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.Scan(&id); err != nil {
		switch {
		case IsUniqueViolation(err):
			logger.Debug("open session already exists", "user", dto.User)
			return 0, model.NewError("session", model.ErrConstraintViolation)
		case IsForeignKeyViolation(err):
			return 0, model.NewError("session", model.ErrNotFound)
		}

		logger.Warn("failed query execute", "error", err)

		return 0, storeError(err)
	}

	logger.Debug("success query execute", "insertId", id)

	return id, nil
}

// CloseOpenByUser ends the open session of the user, if any, and reports how
// many rows changed. The partial unique index keeps that number at 0 or 1.
// An end earlier than the recorded start violates sessions_interval_check.
func (dao *SessionDAO) CloseOpenByUser(ctx context.Context, user model.ID, end time.Time) (int64, error) {
	logger := dao.Logger.With("query", "closeOpenByUser")

	query, args, err := dao.Builder.
		Update("sessions").
		Set("ended_at", end).
		Where(squirrel.Eq{"user_id": user}).
		Where(squirrel.Eq{"ended_at": nil}).
		ToSql()
	if err != nil {
		return 0, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	res, err := dao.ExecContext(ctx, query, args...)
	if err != nil {
		if IsCheckViolation(err) {
			logger.Debug("end precedes start", "user", user, "end", end)
			return 0, model.NewError("session", model.ErrValidation)
		}

		logger.Warn("failed query execute", "error", err)

		return 0, storeError(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, storeError(err)
	}

	logger.Debug("success query execute", "user", user, "countUpdated", affected)

	return affected, nil
}

func (dao *SessionDAO) ListByUser(ctx context.Context, user model.ID) ([]model.Session, error) {
	logger := dao.Logger.With("query", "listByUser")

	query, args, err := dao.Builder.
		Select(_sessionColumns...).
		From("sessions").
		Where(squirrel.Eq{"user_id": user}).
		OrderBy("started_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return []model.Session{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	sessions := make([]model.Session, 0)
	if err := dao.SelectContext(ctx, &sessions, query, args...); err != nil {
		logger.Warn("failed query execute", "error", err)

		return []model.Session{}, storeError(err)
	}

	logger.Debug("success query execute", "countSessions", len(sessions))

	return sessions, nil
}

type openSessionRow struct {
	SessionID   model.ID       `db:"session_id"`
	StartedAt   time.Time      `db:"started_at"`
	UserID      model.ID       `db:"user_id"`
	ExternalID  string         `db:"external_id"`
	DisplayName string         `db:"display_name"`
	ResourceID  model.ID       `db:"resource_id"`
	Label       string         `db:"label"`
	Category    model.Category `db:"category"`
}

func (row openSessionRow) toModel() model.ActiveSession {
	return model.ActiveSession{
		Session: model.Session{
			ID:         row.SessionID,
			UserID:     row.UserID,
			ResourceID: row.ResourceID,
			StartedAt:  row.StartedAt,
		},
		User: model.User{
			ID:          row.UserID,
			ExternalID:  row.ExternalID,
			DisplayName: row.DisplayName,
		},
		Resource: model.Resource{
			ID:       row.ResourceID,
			Label:    row.Label,
			Category: row.Category,
		},
	}
}

// ListOpen returns every open session joined with its user and resource in a
// single statement, oldest first.
func (dao *SessionDAO) ListOpen(ctx context.Context) ([]model.ActiveSession, error) {
	logger := dao.Logger.With("query", "listOpen")

	query, args, err := dao.Builder.
		Select(
			"s.id AS session_id",
			"s.started_at AS started_at",
			"u.id AS user_id",
			"u.external_id AS external_id",
			"u.display_name AS display_name",
			"r.id AS resource_id",
			"r.label AS label",
			"r.category AS category",
		).
		From("sessions s").
		Join("users u ON u.id = s.user_id").
		Join("resources r ON r.id = s.resource_id").
		Where(squirrel.Eq{"s.ended_at": nil}).
		OrderBy("s.started_at ASC", "s.id ASC").
		ToSql()
	if err != nil {
		return []model.ActiveSession{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var rows []openSessionRow
	if err := dao.SelectContext(ctx, &rows, query, args...); err != nil {
		logger.Warn("failed query execute", "error", err)

		return []model.ActiveSession{}, storeError(err)
	}

	active := make([]model.ActiveSession, 0, len(rows))
	for _, row := range rows {
		active = append(active, row.toModel())
	}

	logger.Debug("success query execute", "countSessions", len(active))

	return active, nil
}
