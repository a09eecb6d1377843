package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/kakeibo/internal/http/analytics"
	"github.com/MrJamesThe3rd/kakeibo/internal/http/auth"
	"github.com/MrJamesThe3rd/kakeibo/internal/http/expense"
	"github.com/MrJamesThe3rd/kakeibo/internal/http/settings"
	"github.com/MrJamesThe3rd/kakeibo/internal/http/sheetsync"
	"github.com/MrJamesThe3rd/kakeibo/internal/http/transfer"
)

// Options configure the cross-cutting middleware.
type Options struct {
	CORSOrigins []string
	// AuthSecret enables bearer token auth when non-empty.
	AuthSecret string
}

func New(
	opts Options,
	expensesV1 *expense.Handler,
	analyticsV1 *analytics.Handler,
	settingsV1 *settings.Handler,
	transferV1 *transfer.Handler,
	syncV1 *sheetsync.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Middleware([]byte(opts.AuthSecret)))

		r.Route("/expenses", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			expensesV1.Routes(r)
		})

		r.With(middleware.AllowContentType("application/json")).Post("/clear", expensesV1.Clear)
		r.Get("/categories", expensesV1.Categories)

		r.Route("/analytics", analyticsV1.Routes)

		r.Route("/settings", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			settingsV1.Routes(r)
		})

		r.Get("/sync-config", settingsV1.SyncConfig)

		r.Route("/export", transferV1.ExportRoutes)
		r.Route("/import", transferV1.ImportRoutes)

		r.Route("/sync", syncV1.Routes)
	})

	return router
}
