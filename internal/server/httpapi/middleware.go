package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/ddanilov/daybook/internal/common"
	"github.com/ddanilov/daybook/internal/logging"
	"github.com/ddanilov/daybook/internal/server/auth"
)

type ctxKey int

const userIDKey ctxKey = iota

// UserID returns the authenticated user id stored by the authenticate
// middleware, or "" outside a protected route.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// authenticate verifies the bearer token and stores the user id in the
// request context. Requests without a valid token get 401.
func authenticate(secretKey []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get(common.AuthorizationHeaderName)
			if !strings.HasPrefix(header, common.BearerPrefix) {
				writeError(w, common.ErrUnauthorized)
				return
			}

			userID, err := auth.GetUserIDFromToken(strings.TrimPrefix(header, common.BearerPrefix), secretKey)
			if err != nil {
				writeError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, userID)))
		})
	}
}

// statusWriter captures the status code and bytes written.
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// accessLog logs one line per request.
func accessLog(logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &statusWriter{ResponseWriter: w}

			next.ServeHTTP(ww, r)

			logger.Info(r.Context(), "http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.status,
				"bytes", ww.bytes,
				"duration", time.Since(start).String(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
