package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"memodeck-client/internal/api"
)

// DeckHandler proxies deck management to the remote API so the UI only
// ever talks to the local surface.
type DeckHandler struct {
	api *api.Client
}

func NewDeckHandler(apiClient *api.Client) *DeckHandler {
	return &DeckHandler{api: apiClient}
}

func (h *DeckHandler) List(w http.ResponseWriter, r *http.Request) {
	decks, err := h.api.ListDecks(r.Context())
	if err != nil {
		writeRemoteError(w, r, err, "Failed to fetch decks")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"decks": decks})
}

func (h *DeckHandler) Get(w http.ResponseWriter, r *http.Request) {
	deck, err := h.api.GetDeck(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeRemoteError(w, r, err, "Failed to fetch deck")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"deck": deck})
}

func (h *DeckHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.api.GetDeckStats(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeRemoteError(w, r, err, "Failed to fetch deck stats")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"stats": stats})
}

func (h *DeckHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	if err := h.api.ToggleDeckFavorite(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeRemoteError(w, r, err, "Failed to update deck")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Deck updated"})
}

func (h *DeckHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.api.DeleteDeck(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeRemoteError(w, r, err, "Failed to delete deck")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Deck deleted"})
}
