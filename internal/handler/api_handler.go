package handler

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/GoArmGo/PasteApp/internal/session"
)

// Stats — GET /api/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.uc.Listing.Stats(r.Context())
	if err != nil {
		h.logger.Error("failed to load stats", "error", err)
		respondWithError(w, http.StatusBadGateway, "failed to load stats", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]int64{
		"total_users":  stats.TotalUsers,
		"total_pastes": stats.TotalPastes,
	}, h.logger)
}

// Online — GET /api/online. Пустой снимок отдаётся как ноль.
func (h *Handler) Online(w http.ResponseWriter, r *http.Request) {
	ids, err := h.uc.Presence.Online(r.Context())
	if err != nil {
		h.logger.Error("failed to load online snapshot", "error", err)
	}
	respondWithJSON(w, http.StatusOK, map[string]int{"online": len(ids)}, h.logger)
}

// Component — GET /components/{file}: navbar, ticker или footer для текущей сессии.
func (h *Handler) Component(w http.ResponseWriter, r *http.Request) {
	file := chi.URLParam(r, "file")
	name, ok := strings.CutSuffix(file, ".html")
	if !ok {
		http.NotFound(w, r)
		return
	}

	snap := session.FromContext(r.Context()).Snapshot()
	var buf bytes.Buffer
	if err := h.renderer.Component(&buf, name, h.navState(r.Context(), snap)); err != nil {
		h.logger.Warn("component not rendered", "component", name, "error", err)
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Error("failed to write HTTP response", "error", err)
	}
}
