package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/GoArmGo/PasteApp/internal/apperr"
	"github.com/GoArmGo/PasteApp/internal/domain"
	"github.com/GoArmGo/PasteApp/internal/render"
	"github.com/GoArmGo/PasteApp/internal/session"
)

// MaxAvatarBytes ограничивает размер multipart-запроса с аватаром.
const MaxAvatarBytes = 5 << 20

// Users — GET /users.html.
func (h *Handler) Users(w http.ResponseWriter, r *http.Request) {
	cards, err := h.uc.Listing.LoadUsers(r.Context())
	if err != nil {
		h.logger.Error("failed to load users", "error", err)
	}
	h.renderPage(w, r, http.StatusOK, render.PageUsers, "Users", nil, render.UsersView{Cards: cards})
}

// ShowProfile — GET /user/{id}. При ошибке тело страницы остаётся пустым.
func (h *Handler) ShowProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.logger.Warn("invalid user id", "id", chi.URLParam(r, "id"), "error", err)
		h.renderPage(w, r, http.StatusNotFound, render.PageProfile, "Profile", nil, nil)
		return
	}

	page, err := h.uc.Profiles.LoadProfile(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to load profile", "user_id", userID, "error", err)
		h.renderPage(w, r, apperr.HTTPStatus(err), render.PageProfile, "Profile", nil, nil)
		return
	}

	snap := session.FromContext(r.Context()).Snapshot()
	view := render.NewProfileView(*page, snap, h.baseURL)
	h.renderPage(w, r, http.StatusOK, render.PageProfile, page.Profile.DisplayName(), nil, view)
}

// SaveProfile — POST /profile. Правит только профиль текущего пользователя.
func (h *Handler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	snap := session.FromContext(r.Context()).Snapshot()

	err := h.uc.Profiles.SaveProfileChanges(r.Context(), snap, r.PostFormValue("username"), r.PostFormValue("bio"))
	if err != nil {
		h.profileFailure(w, r, err)
		return
	}

	http.Redirect(w, r, "/user/"+snap.User.ID.String(), http.StatusSeeOther)
}

// UploadAvatar — POST /profile/avatar, файл в поле "avatar".
func (h *Handler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	snap := session.FromContext(r.Context()).Snapshot()
	r.Body = http.MaxBytesReader(w, r.Body, MaxAvatarBytes)

	var file domain.AvatarFile
	if err := r.ParseMultipartForm(MaxAvatarBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		h.logger.Warn("failed to parse avatar form", "error", err)
	}
	if f, header, err := r.FormFile("avatar"); err == nil {
		defer f.Close()
		file = domain.AvatarFile{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Body:        f,
		}
	}

	if _, err := h.uc.Profiles.UploadAvatar(r.Context(), snap, file); err != nil {
		h.profileFailure(w, r, err)
		return
	}

	http.Redirect(w, r, "/user/"+snap.User.ID.String(), http.StatusSeeOther)
}

func (h *Handler) profileFailure(w http.ResponseWriter, r *http.Request, err error) {
	if apperr.KindOf(err) == apperr.KindUnauthorized {
		h.renderLogin(w, r, http.StatusUnauthorized, render.Failure(apperr.Message(err)), "")
		return
	}
	h.logger.Warn("profile update failed", "error", err)
	h.renderMessage(w, r, apperr.HTTPStatus(err), render.Failure(apperr.Message(err)), nil)
}
