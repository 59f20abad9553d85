package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"dashboard/internal/credentials"
	"dashboard/internal/handlers"
	"dashboard/internal/handlers/auth"
	"dashboard/internal/handlers/user"
	"dashboard/internal/middleware"
	"dashboard/internal/ws"
)

type Server struct {
	Addr        string
	DB          *sql.DB // nil on the in-memory store
	Service     *credentials.Service
	Hub         *ws.Hub
	JWTSecret   string
	CORSOrigins []string
	Log         logrus.FieldLogger
	Started     time.Time
}

func NewServer(addr string, db *sql.DB, svc *credentials.Service, hub *ws.Hub, jwtSecret string, origins []string, log logrus.FieldLogger) *Server {
	return &Server{
		Addr:        addr,
		DB:          db,
		Service:     svc,
		Hub:         hub,
		JWTSecret:   jwtSecret,
		CORSOrigins: origins,
		Log:         log,
		Started:     time.Now(),
	}
}

func HandlerFunc(h http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.ServeHTTP(w, r)
	}
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	// middlewares
	r.Use(middleware.Logger(s.Log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprintln(w, "Personal Dashboard API is running")
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", HandlerFunc(&handlers.HealthHandler{DB: s.DB, Started: s.Started}))

		r.Route("/auth", func(r chi.Router) {
			// public
			r.Post("/register", HandlerFunc(&auth.RegisterHandler{Service: s.Service}))
			r.Post("/login", HandlerFunc(&auth.LoginHandler{Service: s.Service}))
			r.Get("/events", HandlerFunc(&handlers.EventsHandler{
				Hub:       s.Hub,
				JWTSecret: s.JWTSecret,
				Origins:   s.CORSOrigins,
				Log:       s.Log,
			}))

			// bearer token required
			r.Group(func(r chi.Router) {
				r.Use(middleware.AuthJWT(s.JWTSecret))
				r.Get("/profile", HandlerFunc(&user.ProfileHandler{Service: s.Service}))
				r.Put("/profile", HandlerFunc(&user.UpdateProfileHandler{Service: s.Service}))
				r.Patch("/profile", HandlerFunc(&user.UpdateProfileHandler{Service: s.Service}))
				r.Post("/change-password", HandlerFunc(&user.ChangePasswordHandler{Service: s.Service}))
				r.Post("/logout", HandlerFunc(&auth.LogoutHandler{Service: s.Service}))
			})
		})
	})

	return r
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.Log.WithField("addr", s.Addr).Info("server running")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.Log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
