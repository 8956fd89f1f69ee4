package main

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"chefdraft/internal/auth"
)

func setupServer(services *Services) *http.Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
		},
		AllowedOrigins: []string{"*"},
		AllowedHeaders: []string{"*"},
	})

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(services.Auth.Authenticate)

		r.Route("/chefs", services.Chefs.Routes)
		r.Route("/teams", services.Teams.Routes)
		r.Route("/episodes", services.Episodes.Routes)
		r.Route("/draft", services.Draft.Routes)
		services.Users.Routes(r)

		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.RequireAdmin)

			r.Route("/chefs", services.Chefs.AdminRoutes)
			r.Route("/episodes", services.Episodes.AdminRoutes)
			r.Route("/draft", services.Draft.AdminRoutes)
		})
	})

	handler := c.Handler(r)

	return &http.Server{
		Addr:    fmt.Sprintf(":%s", getEnv("PORT", "8080")),
		Handler: h2c.NewHandler(handler, &http2.Server{}),
	}
}
