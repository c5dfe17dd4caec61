package database

import (
	"context"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/protomem/resource-tracker/internal/model"
)

var _userColumns = []string{"id", "external_id", "display_name"}

type UserDAO struct {
	Logger *slog.Logger
	*DB
}

func NewUserDAO(logger *slog.Logger, db *DB) *UserDAO {
	return &UserDAO{
		Logger: logger.With("dao", "user"),
		DB:     db,
	}
}

func (dao *UserDAO) List(ctx context.Context) ([]model.User, error) {
	logger := dao.Logger.With("query", "list")

	query, args, err := dao.Builder.
		Select(_userColumns...).
		From("users").
		OrderBy("display_name ASC", "id ASC").
		ToSql()
	if err != nil {
		return []model.User{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	users := make([]model.User, 0)
	if err := dao.SelectContext(ctx, &users, query, args...); err != nil {
		logger.Warn("failed query execute", "error", err)

		return []model.User{}, storeError(err)
	}

	logger.Debug("success query execute", "countUsers", len(users))

	return users, nil
}

func (dao *UserDAO) GetByExternalID(ctx context.Context, externalID string) (model.User, error) {
	return dao.getBy(ctx, "getByExternalId", squirrel.Eq{"external_id": externalID})
}

func (dao *UserDAO) getBy(ctx context.Context, name string, pred squirrel.Eq) (model.User, error) {
	logger := dao.Logger.With("query", name)

	query, args, err := dao.Builder.
		Select(_userColumns...).
		From("users").
		Where(pred).
		Limit(1).
		ToSql()
	if err != nil {
		return model.User{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var user model.User
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.StructScan(&user); err != nil {
		if IsNoRows(err) {
			return model.User{}, model.NewError("user", model.ErrNotFound)
		}

		logger.Warn("failed query execute", "error", err)

		return model.User{}, storeError(err)
	}

	logger.Debug("success query execute", "user", user)

	return user, nil
}

type InsertUserDTO struct {
	ExternalID  string
	DisplayName string
}

func (dao *UserDAO) Insert(ctx context.Context, dto InsertUserDTO) (model.ID, error) {
	logger := dao.Logger.With("query", "insert")

	query, args, err := dao.Builder.
		Insert("users").
		Columns("external_id", "display_name").
		Values(dto.ExternalID, dto.DisplayName).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var id model.ID
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.Scan(&id); err != nil {
		logger.Warn("failed query execute", "error", err)

		if IsUniqueViolation(err) {
			return 0, model.NewError("user", model.ErrExists)
		}

		return 0, storeError(err)
	}

	logger.Debug("success query execute", "insertId", id)

	return id, nil
}
