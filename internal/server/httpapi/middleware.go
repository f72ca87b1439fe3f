package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/jobtracker/internal/common"
)

type ctxKey string

const userIDKey ctxKey = "userID"

// userIDFrom returns the authenticated user id stored by requireUser.
func userIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// requireUser resolves the bearer token to a user id. An X-User-Id header or
// userId parameter naming someone else is rejected with 403.
func (s *Server) requireUser(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(common.AuthorizationHeaderName)
		token, ok := strings.CutPrefix(header, common.BearerPrefix)
		if !ok || strings.TrimSpace(token) == "" {
			writeError(w, common.ErrorUnauthorized, "missing token")
			return
		}

		userID, err := s.users.Authenticate(strings.TrimSpace(token))
		if err != nil {
			writeError(w, common.ErrorUnauthorized, err.Error())
			return
		}

		for _, claimed := range []string{
			r.Header.Get(common.UserIDHeaderName),
			r.URL.Query().Get(common.UserIDParamName),
		} {
			if claimed != "" && claimed != userID {
				writeError(w, common.ErrorForbidden, "user id does not match token")
				return
			}
		}

		next(w, r.WithContext(context.WithValue(r.Context(), userIDKey, userID)))
	})
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", strings.Join([]string{
			"Content-Type", common.AuthorizationHeaderName, common.UserIDHeaderName,
		}, ", "))
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// accessLog logs every request under an id taken from X-Request-Id, or a
// fresh one echoed back in the response.
func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		reqID := r.Header.Get(common.RequestIDHeaderName)
		if reqID == "" {
			reqID, _ = common.MakeRandHexString(8)
		}
		w.Header().Set(common.RequestIDHeaderName, reqID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info(r.Context(), "request",
			"request_id", reqID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}
