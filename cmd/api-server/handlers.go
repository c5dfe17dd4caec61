package main

import (
	"net/http"
	"strings"

	"github.com/protomem/resource-tracker/internal/model"
	"github.com/protomem/resource-tracker/internal/request"
	"github.com/protomem/resource-tracker/internal/response"
	"github.com/protomem/resource-tracker/internal/validator"
)

func (app *application) handleRoot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Resource tracker is up.\n"))
}

// Handle Status
// @Summary Server Status
// @Description Check if the server is up and running
// @Tags api
// @Produce json
// @Success 200 {object} map[string]string
// @Router /status [get]
func (app *application) handleStatus(w http.ResponseWriter, r *http.Request) {
	if err := response.JSON(w, http.StatusOK, response.JSONObject{"status": "OK"}); err != nil {
		app.serverError(w, r, err)
	}
}

// Handle List Resources
// @Summary List Resources
// @Description Resource catalog ordered by label
// @Tags recursos
// @Produce json
// @Success 200 {object} main.responseListResources
// @Failure 500 {object} any "Internal server error"
// @Router /recursos [get]
func (app *application) handleListResources(w http.ResponseWriter, r *http.Request) {
	catalog, err := app.query.Catalog(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, responseListResources{Resources: catalog}); err != nil {
		app.serverError(w, r, err)
	}
}

// Handle Add Resource
// @Summary Add Resource
// @Tags recursos
// @Accept json
// @Produce json
// @Param input body main.requestAddResource true "Label and category"
// @Success 201 {object} main.responseAddResource
// @Failure 400 {object} any "Missing fields, duplicate label or unknown category"
// @Failure 500 {object} any "Internal server error"
// @Router /recursos [post]
func (app *application) handleAddResource(w http.ResponseWriter, r *http.Request) {
	var input requestAddResource
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	if validateRequestAddResource(&v, input); v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	resource, err := app.store.CreateResource(r.Context(),
		strings.TrimSpace(input.Label),
		model.NormalizeCategory(input.Category),
	)
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusCreated, responseAddResource{
		Message:  "Recurso adicionado com sucesso!",
		Resource: resource,
	}); err != nil {
		app.serverError(w, r, err)
	}
}

// Handle List Users
// @Summary List Users
// @Tags alunos
// @Produce json
// @Success 200 {object} main.responseListUsers
// @Failure 500 {object} any "Internal server error"
// @Router /alunos [get]
func (app *application) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := app.store.ListUsers(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, responseListUsers{Users: users}); err != nil {
		app.serverError(w, r, err)
	}
}

// Handle Add User
// @Summary Add User
// @Tags alunos
// @Accept json
// @Produce json
// @Param input body main.requestAddUser true "Enrollment number and name"
// @Success 201 {object} main.responseAddUser
// @Failure 400 {object} any "Missing fields or duplicate matricula"
// @Failure 500 {object} any "Internal server error"
// @Router /alunos [post]
func (app *application) handleAddUser(w http.ResponseWriter, r *http.Request) {
	var input requestAddUser
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	if validateRequestAddUser(&v, input); v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	user, err := app.store.CreateUser(r.Context(),
		strings.TrimSpace(input.ExternalID),
		strings.TrimSpace(input.DisplayName),
	)
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusCreated, responseAddUser{
		Message: "Aluno adicionado com sucesso!",
		User:    user,
	}); err != nil {
		app.serverError(w, r, err)
	}
}

// Handle User Sessions
// @Summary User session history, newest first
// @Tags alunos
// @Produce json
// @Param matricula path string true "Enrollment number"
// @Success 200 {object} main.responseUserSessions
// @Failure 404 {object} any "Unknown matricula"
// @Failure 500 {object} any "Internal server error"
// @Router /alunos/{matricula}/registros [get]
func (app *application) handleUserSessions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := app.store.FindUserByExternalID(ctx, externalIDFromRequest(r))
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	sessions, err := app.store.ListSessionsForUser(ctx, user.ID)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, responseUserSessions{User: user, Sessions: sessions}); err != nil {
		app.serverError(w, r, err)
	}
}

// Handle Active Sessions
// @Summary Active Sessions
// @Description Open sessions ordered by entry time
// @Tags registros
// @Produce json
// @Success 200 {object} main.responseActiveSessions
// @Failure 500 {object} any "Internal server error"
// @Router /registros/ativos [get]
func (app *application) handleActiveSessions(w http.ResponseWriter, r *http.Request) {
	active, err := app.query.ActiveSessions(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, responseActiveSessions{Sessions: active}); err != nil {
		app.serverError(w, r, err)
	}
}

// Handle Check In
// @Summary Check In
// @Tags registros
// @Accept json
// @Produce json
// @Param input body main.requestCheckIn true "Enrollment number and resource label"
// @Success 201 {object} main.responseCheckIn
// @Failure 400 {object} any "Missing fields or user already has an active session"
// @Failure 404 {object} any "Unknown user or resource"
// @Failure 500 {object} any "Internal server error"
// @Router /registros/entrada [post]
func (app *application) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	var input requestCheckIn
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	if validateRequestCheckIn(&v, input); v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	session, err := app.lifecycle.CheckIn(r.Context(),
		strings.TrimSpace(input.ExternalID),
		strings.TrimSpace(input.ResourceLabel),
	)
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusCreated, responseCheckIn{
		Message:   "Entrada registrada com sucesso!",
		SessionID: session.ID,
	}); err != nil {
		app.serverError(w, r, err)
	}
}

// Handle Check Out
// @Summary Check Out
// @Tags registros
// @Accept json
// @Produce json
// @Param input body main.requestCheckOut true "Enrollment number"
// @Success 200 {object} main.responseMessage
// @Failure 400 {object} any "Missing field"
// @Failure 404 {object} any "No active session"
// @Failure 500 {object} any "Internal server error"
// @Router /registros/saida [post]
func (app *application) handleCheckOut(w http.ResponseWriter, r *http.Request) {
	var input requestCheckOut
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	if validateRequestCheckOut(&v, input); v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	if err := app.lifecycle.CheckOut(r.Context(), strings.TrimSpace(input.ExternalID)); err != nil {
		app.domainError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, responseMessage{Message: "Saída registrada com sucesso!"}); err != nil {
		app.serverError(w, r, err)
	}
}
