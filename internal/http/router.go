package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/banksync/internal/http/journal"
	"github.com/MrJamesThe3rd/banksync/internal/http/origin"
)

func New(allowedOrigins []string, originsV1 *origin.Handler, journalsV1 *journal.Handler) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/origins", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			originsV1.Routes(r)
		})

		journalsV1.Routes(r)
	})

	return router
}
