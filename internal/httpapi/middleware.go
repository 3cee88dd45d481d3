package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"taskboard/internal/apperrors"
	"taskboard/internal/model"
	"taskboard/internal/utilities"
)

type contextKey string

const actorKey contextKey = "actor"

// actorFrom returns the authenticated user stored by requireAuth.
func actorFrom(r *http.Request) model.User {
	user, _ := r.Context().Value(actorKey).(model.User)
	return user
}

// requireAuth resolves the access credential to a user before the
// handler runs. The credential comes from the Authorization header or,
// failing that, from the "access" cookie.
func (a *API) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, apperrors.New(apperrors.CodeUnauthenticated, "missing credentials"))
			return
		}
		user, err := a.auth.Authenticate(r.Context(), token)
		if err != nil {
			writeError(w, err)
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), actorKey, *user)))
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if cookie, err := r.Cookie("access"); err == nil {
		return cookie.Value
	}
	return ""
}

// loggingMiddleware records every request with its status and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)
		utilities.LogRequest(r.Method, r.URL.Path, r.RemoteAddr, rw.status, time.Since(start))
	})
}

// statusWriter captures the status code written by the handler.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
