package main

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

func externalIDFromRequest(r *http.Request) string {
	return strings.TrimSpace(chi.URLParam(r, "matricula"))
}
