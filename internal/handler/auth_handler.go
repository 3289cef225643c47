package handler

import (
	"net/http"

	"github.com/GoArmGo/PasteApp/internal/apperr"
	"github.com/GoArmGo/PasteApp/internal/render"
	"github.com/GoArmGo/PasteApp/internal/session"
)

const (
	msgSignupSuccess = "Signup successful! You can now log in."
	msgLoginSuccess  = "Login successful!"
)

// LoginPage — GET /login.
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.renderLogin(w, r, http.StatusOK, nil, "")
}

// SignUp — POST /auth/signup. Сессию не открывает.
func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	email := r.PostFormValue("email")

	if _, err := h.uc.Auth.SignUp(r.Context(), email, r.PostFormValue("password")); err != nil {
		h.logger.Warn("signup failed", "error", err)
		h.renderLogin(w, r, apperr.HTTPStatus(err), render.Failure(apperr.Message(err)), email)
		return
	}

	h.renderLogin(w, r, http.StatusOK, render.Success(msgSignupSuccess), email)
}

// LogIn — POST /auth/login. После успеха страница через секунду уходит на главную.
func (h *Handler) LogIn(w http.ResponseWriter, r *http.Request) {
	st := session.FromContext(r.Context())
	email := r.PostFormValue("email")

	token, err := h.uc.Auth.LogIn(r.Context(), st, email, r.PostFormValue("password"))
	if err != nil {
		h.renderLogin(w, r, apperr.HTTPStatus(err), render.Failure(apperr.Message(err)), email)
		return
	}

	h.setSessionCookie(w, token)
	h.renderMessage(w, r, http.StatusOK, render.Success(msgLoginSuccess), &render.Refresh{URL: "/", Seconds: 1})
}

// LogOut — POST /auth/logout.
func (h *Handler) LogOut(w http.ResponseWriter, r *http.Request) {
	st := session.FromContext(r.Context())
	if err := h.uc.Auth.LogOut(r.Context(), st, sessionToken(r)); err != nil {
		h.logger.Error("logout failed", "error", err)
	}

	h.clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
