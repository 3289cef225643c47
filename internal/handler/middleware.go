package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/GoArmGo/PasteApp/internal/apperr"
	"github.com/GoArmGo/PasteApp/internal/session"
)

// RequestLogger — middleware для логирования HTTP-запросов.
func RequestLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(ww, r)

			logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.statusCode,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

// responseWriter нужен, чтобы перехватывать код ответа
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Session создаёт состояние сессии на запрос и восстанавливает пользователя
// по cookie. Восстановление идёт через тот же SIGNED_IN, что и логин.
func (h *Handler) Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		st := session.New(h.uc.Profiles, h.logger)

		if token := sessionToken(r); token != "" {
			user, err := h.uc.Auth.Authenticate(ctx, token)
			switch {
			case err == nil:
				st.Apply(ctx, session.Event{Type: session.SignedIn, User: user})
			case apperr.KindOf(err) == apperr.KindUnauthorized:
				h.logger.Info("session token rejected", "error", err)
				h.clearSessionCookie(w)
			default:
				h.logger.Error("failed to restore session", "error", err)
			}
		}

		next.ServeHTTP(w, r.WithContext(session.WithState(ctx, st)))
	})
}
