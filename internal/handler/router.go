package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter собирает маршруты приложения. Статические пути объявлены
// рядом с /{slug}: chi сначала сверяет точные совпадения.
func NewRouter(h *Handler, requestTimeout time.Duration) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(h.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(h.Session)

	r.Get("/", h.Index)
	r.Get("/index.html", h.Index)
	r.Get("/search", h.Index)
	r.Get("/users.html", h.Users)
	r.Get("/user/{id}", h.ShowProfile)
	r.Get("/login", h.LoginPage)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", h.SignUp)
		r.Post("/login", h.LogIn)
		r.Post("/logout", h.LogOut)
	})

	r.Post("/pastes", h.UploadPaste)
	r.Post("/pastes/{id}/comments", h.AddComment)
	r.Post("/profile", h.SaveProfile)
	r.Post("/profile/avatar", h.UploadAvatar)

	r.Get("/api/stats", h.Stats)
	r.Get("/api/online", h.Online)
	r.Get("/components/{file}", h.Component)

	r.Get("/{slug}", h.ShowPaste)

	return r
}
