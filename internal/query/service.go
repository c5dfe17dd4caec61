// Package query serves read-only projections of the entity store.
package query

import (
	"context"
	"log/slog"
	"time"

	"github.com/protomem/resource-tracker/internal/model"
)

type Reader interface {
	ListOpenSessions(ctx context.Context) ([]model.ActiveSession, error)
	ListResources(ctx context.Context) ([]model.Resource, error)
}

type ActiveSession struct {
	SessionID      model.ID  `json:"registro_id"`
	DisplayName    string    `json:"nome"`
	ExternalUserID string    `json:"matricula"`
	ResourceLabel  string    `json:"recurso"`
	StartedAt      time.Time `json:"hora_entrada"`
}

type CatalogEntry struct {
	Label    string         `json:"identificador"`
	Category model.Category `json:"tipo"`
}

type Service struct {
	logger *slog.Logger
	reader Reader
}

func NewService(logger *slog.Logger, reader Reader) *Service {
	return &Service{
		logger: logger.With("module", "query"),
		reader: reader,
	}
}

// ActiveSessions lists who is using what, oldest check-in first.
func (s *Service) ActiveSessions(ctx context.Context) ([]ActiveSession, error) {
	rows, err := s.reader.ListOpenSessions(ctx)
	if err != nil {
		s.logger.Warn("failed to list open sessions", "error", err)
		return nil, err
	}

	active := make([]ActiveSession, 0, len(rows))
	for _, row := range rows {
		active = append(active, ActiveSession{
			SessionID:      row.Session.ID,
			DisplayName:    row.User.DisplayName,
			ExternalUserID: row.User.ExternalID,
			ResourceLabel:  row.Resource.Label,
			StartedAt:      row.Session.StartedAt,
		})
	}

	return active, nil
}

func (s *Service) Catalog(ctx context.Context) ([]CatalogEntry, error) {
	resources, err := s.reader.ListResources(ctx)
	if err != nil {
		s.logger.Warn("failed to list resources", "error", err)
		return nil, err
	}

	catalog := make([]CatalogEntry, 0, len(resources))
	for _, r := range resources {
		catalog = append(catalog, CatalogEntry{Label: r.Label, Category: r.Category})
	}

	return catalog, nil
}
