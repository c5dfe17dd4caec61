package database

import (
	"context"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/protomem/resource-tracker/internal/model"
)

var _resourceColumns = []string{"id", "label", "category"}

type ResourceDAO struct {
	Logger *slog.Logger
	*DB
}

func NewResourceDAO(logger *slog.Logger, db *DB) *ResourceDAO {
	return &ResourceDAO{
		Logger: logger.With("dao", "resource"),
		DB:     db,
	}
}

func (dao *ResourceDAO) List(ctx context.Context) ([]model.Resource, error) {
	logger := dao.Logger.With("query", "list")

	query, args, err := dao.Builder.
		Select(_resourceColumns...).
		From("resources").
		OrderBy("label ASC").
		ToSql()
	if err != nil {
		return []model.Resource{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	resources := make([]model.Resource, 0)
	if err := dao.SelectContext(ctx, &resources, query, args...); err != nil {
		logger.Warn("failed query execute", "error", err)

		return []model.Resource{}, storeError(err)
	}

	logger.Debug("success query execute", "countResources", len(resources))

	return resources, nil
}

func (dao *ResourceDAO) GetByLabel(ctx context.Context, label string) (model.Resource, error) {
	logger := dao.Logger.With("query", "getByLabel")

	query, args, err := dao.Builder.
		Select(_resourceColumns...).
		From("resources").
		Where(squirrel.Eq{"label": label}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Resource{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var resource model.Resource
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.StructScan(&resource); err != nil {
		if IsNoRows(err) {
			return model.Resource{}, model.NewError("resource", model.ErrNotFound)
		}

		logger.Warn("failed query execute", "error", err)

		return model.Resource{}, storeError(err)
	}

	logger.Debug("success query execute", "resource", resource)

	return resource, nil
}

type InsertResourceDTO struct {
	Label    string
	Category model.Category
}

func (dao *ResourceDAO) Insert(ctx context.Context, dto InsertResourceDTO) (model.ID, error) {
	logger := dao.Logger.With("query", "insert")

	query, args, err := dao.Builder.
		Insert("resources").
		Columns("label", "category").
		Values(dto.Label, string(dto.Category)).
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

		switch {
		case IsUniqueViolation(err):
			return 0, model.NewError("resource", model.ErrExists)
		case IsCheckViolation(err):
			return 0, model.NewError("resource", model.ErrValidation)
		}

		return 0, storeError(err)
	}

	logger.Debug("success query execute", "insertId", id)

	return id, nil
}
