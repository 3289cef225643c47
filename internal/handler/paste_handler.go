package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/GoArmGo/PasteApp/internal/apperr"
	"github.com/GoArmGo/PasteApp/internal/domain"
	"github.com/GoArmGo/PasteApp/internal/render"
	"github.com/GoArmGo/PasteApp/internal/session"
)

const msgPasteUploaded = "Paste uploaded successfully!"

// Index — главная и поиск: GET /, /index.html, /search.
// Ошибка чтения только логируется, таблица рисуется пустой.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	searchTitle := r.URL.Query().Get("field") != "content"

	view := h.indexView(r, query, searchTitle)
	h.renderPage(w, r, http.StatusOK, render.PageIndex, "PasteApp", nil, view)
}

func (h *Handler) indexView(r *http.Request, query string, searchTitle bool) render.IndexView {
	pastes, err := h.uc.Listing.SearchPastes(r.Context(), query, searchTitle)
	if err != nil {
		h.logger.Error("failed to load pastes", "query", query, "error", err)
	}
	return render.NewIndexView(pastes, query, searchTitle)
}

// ShowPaste — GET /{slug}. Не найдено или ошибка: редирект на главную.
func (h *Handler) ShowPaste(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	detail, err := h.uc.Pastes.LoadPasteByTitle(r.Context(), slug)
	if err != nil {
		h.logger.Warn("paste lookup failed", "slug", slug, "error", err)
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	snap := session.FromContext(r.Context()).Snapshot()
	h.renderPage(w, r, http.StatusOK, render.PagePaste, detail.Paste.Title, nil, render.NewPasteView(*detail, snap))
}

// UploadPaste — POST /pastes. Без сессии показывается логин,
// остальные ошибки выводятся над формой загрузки.
func (h *Handler) UploadPaste(w http.ResponseWriter, r *http.Request) {
	snap := session.FromContext(r.Context()).Snapshot()

	paste, err := h.uc.Pastes.UploadPaste(r.Context(), snap,
		r.PostFormValue("title"),
		r.PostFormValue("content"),
		r.PostFormValue("is_private") == "true",
	)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindUnauthorized {
			h.renderLogin(w, r, http.StatusUnauthorized, render.Failure(apperr.Message(err)), "")
			return
		}
		h.logger.Warn("paste upload failed", "error", err)
		view := h.indexView(r, "", true)
		view.Upload = render.Failure(apperr.Message(err))
		h.renderPage(w, r, apperr.HTTPStatus(err), render.PageIndex, "PasteApp", nil, view)
		return
	}

	h.renderMessage(w, r, http.StatusCreated, render.Success(msgPasteUploaded),
		&render.Refresh{URL: "/" + paste.Slug(), Seconds: 1})
}

// AddComment — POST /pastes/{id}/comments. После успеха полная перезагрузка пасты.
// Адрес возврата пересобирается через Slugify, поэтому остается на этом хосте.
func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	back := "/" + domain.Slugify(r.PostFormValue("slug"))

	pasteID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.logger.Warn("invalid paste id", "id", chi.URLParam(r, "id"), "error", err)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	snap := session.FromContext(r.Context()).Snapshot()
	if _, err := h.uc.Comments.AddComment(r.Context(), snap, pasteID, r.PostFormValue("content")); err != nil {
		if apperr.KindOf(err) == apperr.KindUnauthorized {
			h.renderLogin(w, r, http.StatusUnauthorized, render.Failure(apperr.Message(err)), "")
			return
		}
		h.renderMessage(w, r, apperr.HTTPStatus(err), render.Failure(apperr.Message(err)), nil)
		return
	}

	http.Redirect(w, r, back, http.StatusSeeOther)
}
