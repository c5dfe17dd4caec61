package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (app *application) routes() http.Handler {
	mux := chi.NewRouter()

	mux.NotFound(app.notFound)
	mux.MethodNotAllowed(app.methodNotAllowed)

	mux.Use(app.traceID)
	mux.Use(app.logAccess)
	mux.Use(app.recoverPanic)
	mux.Use(app.instrument)

	mux.Use(app.CORS)

	mux.Get("/", app.handleRoot)
	mux.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{}))

	mux.Route("/api", func(r chi.Router) {
		r.Use(app.rateLimit)

		r.Get("/status", app.handleStatus)

		r.Get("/recursos", app.handleListResources)
		r.Post("/recursos", app.handleAddResource)

		r.Get("/alunos", app.handleListUsers)
		r.Post("/alunos", app.handleAddUser)
		r.Get("/alunos/{matricula}/registros", app.handleUserSessions)

		r.Get("/registros/ativos", app.handleActiveSessions)
		r.Post("/registros/entrada", app.handleCheckIn)
		r.Post("/registros/saida", app.handleCheckOut)
	})

	app.logger.Debug("routes configured", "routes", chiRoutesToStrings(mux))

	return mux
}

func chiRoutesToStrings(routes chi.Routes) []string {
	parsedRoutes := make([]string, 0)
	_ = chi.Walk(routes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		parsedRoutes = append(parsedRoutes, method+" "+route)
		return nil
	})
	return parsedRoutes
}
