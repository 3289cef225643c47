package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/GoArmGo/PasteApp/internal/render"
	"github.com/GoArmGo/PasteApp/internal/session"
	"github.com/GoArmGo/PasteApp/internal/usecase"
)

// SessionCookie — имя cookie с токеном сессии.
const SessionCookie = "pasteapp_session"

// UseCases — бизнес-логика, которую вызывают обработчики.
type UseCases struct {
	Auth     usecase.AuthUseCase
	Profiles usecase.ProfileUseCase
	Listing  usecase.ListingUseCase
	Pastes   usecase.PasteUseCase
	Comments usecase.CommentUseCase
	Presence usecase.PresenceUseCase
}

// CookieOptions — параметры cookie сессии.
type CookieOptions struct {
	Secure bool
	TTL    time.Duration
}

// Handler связывает HTTP-запросы с use case'ами и рендером.
// Сам ничего не решает: только разбирает ввод, вызывает use case и выбирает,
// как показать результат.
type Handler struct {
	uc       UseCases
	renderer *render.Renderer
	cookie   CookieOptions
	baseURL  string
	logger   *slog.Logger
}

// NewHandler создаёт новый экземпляр Handler.
func NewHandler(uc UseCases, renderer *render.Renderer, cookie CookieOptions, baseURL string, logger *slog.Logger) *Handler {
	return &Handler{
		uc:       uc,
		renderer: renderer,
		cookie:   cookie,
		baseURL:  baseURL,
		logger:   logger,
	}
}

// respondWithJSON — отправляет JSON-ответ клиенту.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}, logger *slog.Logger) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		logger.Error("failed to marshal JSON response", "error", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err = w.Write(response); err != nil {
		logger.Error("failed to write HTTP response", "error", err)
	}
}

// respondWithError — отправляет JSON-ответ с ошибкой.
func respondWithError(w http.ResponseWriter, code int, message string, logger *slog.Logger) {
	respondWithJSON(w, code, map[string]string{"error": message}, logger)
}

// navState собирает navbar и тикер. Счетчики не критичны: при ошибке
// страница рисуется с нулями.
func (h *Handler) navState(ctx context.Context, snap session.Snapshot) render.NavState {
	stats, err := h.uc.Listing.Stats(ctx)
	if err != nil {
		h.logger.Error("failed to load stats", "error", err)
	}
	online, err := h.uc.Presence.Online(ctx)
	if err != nil {
		h.logger.Error("failed to load online snapshot", "error", err)
	}
	return render.NewNavState(snap, stats, len(online))
}

// renderPage рисует страницу в буфер, чтобы ошибка шаблона не оставила
// полуотправленный ответ.
func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, status int, name, title string, refresh *render.Refresh, data any) {
	snap := session.FromContext(r.Context()).Snapshot()
	page := render.Page{
		Title:   title,
		Nav:     h.navState(r.Context(), snap),
		Refresh: refresh,
		Data:    data,
	}

	var buf bytes.Buffer
	if err := h.renderer.Page(&buf, name, page); err != nil {
		h.logger.Error("failed to render page", "page", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Error("failed to write HTTP response", "error", err)
	}
}

func (h *Handler) renderLogin(w http.ResponseWriter, r *http.Request, status int, msg *render.Message, email string) {
	h.renderPage(w, r, status, render.PageLogin, "Login", nil, render.LoginView{Message: msg, Email: email})
}

func (h *Handler) renderMessage(w http.ResponseWriter, r *http.Request, status int, msg *render.Message, refresh *render.Refresh) {
	h.renderPage(w, r, status, render.PageMessage, "PasteApp", refresh, msg)
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cookie.TTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func sessionToken(r *http.Request) string {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return ""
	}
	return c.Value
}
