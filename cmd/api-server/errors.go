package main

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/protomem/resource-tracker/internal/ctxstore"
	"github.com/protomem/resource-tracker/internal/model"
	"github.com/protomem/resource-tracker/internal/response"
	"github.com/protomem/resource-tracker/internal/validator"
)

func (app *application) reportServerError(r *http.Request, err error) {
	var (
		message = err.Error()
		method  = r.Method
		url     = r.URL.String()
		tid     = ctxstore.FromOr(r.Context(), _traceIDKey, "")
		trace   = string(debug.Stack())
	)

	requestAttrs := slog.Group("request", "method", method, "url", url, _traceIDKey.String(), tid)
	app.serverLogger().Error(message, requestAttrs, "trace", trace)
}

func (app *application) errorMessage(w http.ResponseWriter, r *http.Request, status int, message string, headers http.Header) {
	if message != "" {
		message = strings.ToUpper(message[:1]) + message[1:]
	}

	err := response.JSONWithHeaders(w, status, response.JSONObject{"error": message}, headers)
	if err != nil {
		app.reportServerError(r, err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	app.reportServerError(r, err)

	message := "The server encountered a problem and could not process your request"
	app.errorMessage(w, r, http.StatusInternalServerError, message, nil)
}

func (app *application) notFound(w http.ResponseWriter, r *http.Request) {
	message := "The requested resource could not be found"
	app.errorMessage(w, r, http.StatusNotFound, message, nil)
}

func (app *application) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	message := "The " + r.Method + " method is not supported for this resource"
	app.errorMessage(w, r, http.StatusMethodNotAllowed, message, nil)
}

func (app *application) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	app.errorMessage(w, r, http.StatusBadRequest, err.Error(), nil)
}

func (app *application) rateLimitExceeded(w http.ResponseWriter, r *http.Request) {
	app.errorMessage(w, r, http.StatusTooManyRequests, "rate limit exceeded", http.Header{"Retry-After": {"1"}})
}

func (app *application) failedValidation(w http.ResponseWriter, r *http.Request, v validator.Validator) {
	err := response.JSON(w, http.StatusBadRequest, response.JSONObject{
		"error":       v.Message(),
		"fieldErrors": v.FieldErrors,
	})
	if err != nil {
		app.serverError(w, r, err)
	}
}

// domainError translates store and lifecycle errors into responses.
func (app *application) domainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, model.ErrValidation):
		app.errorMessage(w, r, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, model.ErrAlreadyActive), errors.Is(err, model.ErrExists):
		app.errorMessage(w, r, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, model.ErrNotFound), errors.Is(err, model.ErrNoActiveSession):
		app.errorMessage(w, r, http.StatusNotFound, err.Error(), nil)
	default:
		app.serverError(w, r, err)
	}
}
