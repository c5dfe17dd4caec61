package main

import (
	"github.com/protomem/resource-tracker/internal/model"
	"github.com/protomem/resource-tracker/internal/query"
)

type requestAddResource struct {
	Label    string `json:"identificador"`
	Category string `json:"tipo"`
}

type responseAddResource struct {
	Message  string         `json:"message"`
	Resource model.Resource `json:"recurso"`
}

type responseListResources struct {
	Resources []query.CatalogEntry `json:"recursos"`
}

type requestAddUser struct {
	ExternalID  string `json:"matricula"`
	DisplayName string `json:"nome"`
}

type responseAddUser struct {
	Message string     `json:"message"`
	User    model.User `json:"aluno"`
}

type responseListUsers struct {
	Users []model.User `json:"alunos"`
}

type responseUserSessions struct {
	User     model.User      `json:"aluno"`
	Sessions []model.Session `json:"registros"`
}

type responseActiveSessions struct {
	Sessions []query.ActiveSession `json:"registros"`
}

type requestCheckIn struct {
	ExternalID    string `json:"matricula"`
	ResourceLabel string `json:"identificadorRecurso"`
}

type responseCheckIn struct {
	Message   string   `json:"message"`
	SessionID model.ID `json:"registroId"`
}

type requestCheckOut struct {
	ExternalID string `json:"matricula"`
}

type responseMessage struct {
	Message string `json:"message"`
}
