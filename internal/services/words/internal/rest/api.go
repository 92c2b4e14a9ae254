package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gamma-omg/lexi-cards/internal/pkg/httpx"
	"github.com/gamma-omg/lexi-cards/internal/pkg/middleware"
	"github.com/gamma-omg/lexi-cards/internal/pkg/router"
	"github.com/gamma-omg/lexi-cards/internal/pkg/serr"
	"github.com/gamma-omg/lexi-cards/internal/services/words/internal/fn"
	"github.com/gamma-omg/lexi-cards/internal/services/words/internal/model"
	"github.com/gamma-omg/lexi-cards/internal/services/words/internal/service"
)

type flashcardService interface {
	ListUnresolved(ctx context.Context, ownerID string) ([]service.Flashcard, error)
	MarkResolved(ctx context.Context, ownerID string, id service.CardID) error
	AddRow(ctx context.Context, ownerID string, r service.AddRowRequest) (int64, error)
	GetRow(ctx context.Context, ownerID string, rowID int64) (model.VocabularyRow, error)
	DeleteRow(ctx context.Context, ownerID string, rowID int64) error
}

// API serves the flashcard routes. Every route requires an authenticated caller.
type API struct {
	srv     flashcardService
	mux     *http.ServeMux
	handler http.Handler
}

func NewAPI(srv flashcardService, verify middleware.TokenVerifier) *API {
	api := &API{
		srv: srv,
		mux: http.NewServeMux(),
	}

	api.mount()
	api.handler = router.With(api.mux, middleware.Auth(verify))
	return api
}

func (api *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	api.handler.ServeHTTP(w, r)
}

func (api *API) mount() {
	api.mux.HandleFunc("GET /flashcards", api.handleListFlashcards)
	api.mux.HandleFunc("POST /flashcards/{card_id}/resolve", api.handleResolve)
	api.mux.HandleFunc("PUT /vocabulary", api.handleAddRow)
	api.mux.HandleFunc("GET /vocabulary/{row_id}", api.handleGetRow)
	api.mux.HandleFunc("DELETE /vocabulary/{row_id}", api.handleDeleteRow)
}

type flashcardResponse struct {
	ID      string `json:"id"`
	Word    string `json:"word"`
	Context string `json:"context"`
	Note    string `json:"note"`
}

func (api *API) handleListFlashcards(w http.ResponseWriter, r *http.Request) {
	cards, err := api.srv.ListUnresolved(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	resp := fn.Map(cards, func(c service.Flashcard) flashcardResponse {
		return flashcardResponse{
			ID:      c.ID.String(),
			Word:    c.Word,
			Context: c.Context,
			Note:    c.Note,
		}
	})

	if err := httpx.WriteJSON(w, http.StatusOK, resp); err != nil {
		httpx.HandleErr(w, r, err)
	}
}

func (api *API) handleResolve(w http.ResponseWriter, r *http.Request) {
	id, err := service.ParseCardID(r.PathValue("card_id"))
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	if err := api.srv.MarkResolved(r.Context(), middleware.UserIDFromContext(r.Context()), id); err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type addRowRequest struct {
	Context string   `json:"context"`
	Note    string   `json:"note"`
	Words   []string `json:"words"`
}

type addRowResponse struct {
	ID int64 `json:"id"`
}

func (api *API) handleAddRow(w http.ResponseWriter, r *http.Request) {
	var req addRowRequest
	if err := httpx.ReadJSON(w, r, &req); err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	id, err := api.srv.AddRow(r.Context(), middleware.UserIDFromContext(r.Context()), service.AddRowRequest{
		Context: req.Context,
		Note:    req.Note,
		Words:   req.Words,
	})
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	if err := httpx.WriteJSON(w, http.StatusCreated, addRowResponse{ID: id}); err != nil {
		httpx.HandleErr(w, r, err)
	}
}

type wordResponse struct {
	Index    int    `json:"index"`
	CardID   string `json:"card_id"`
	Text     string `json:"text"`
	Resolved bool   `json:"resolved"`
}

type rowResponse struct {
	ID        int64          `json:"id"`
	Context   string         `json:"context"`
	Note      string         `json:"note"`
	Words     []wordResponse `json:"words"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (api *API) handleGetRow(w http.ResponseWriter, r *http.Request) {
	rowID, err := idFromRequest(r, "row_id")
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	row, err := api.srv.GetRow(r.Context(), middleware.UserIDFromContext(r.Context()), rowID)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	words := make([]wordResponse, len(row.Words))
	for i, wd := range row.Words {
		words[i] = wordResponse{
			Index:    i,
			CardID:   service.CardID{RowID: row.ID, WordIndex: i}.String(),
			Text:     wd.Text,
			Resolved: wd.Resolved,
		}
	}

	if err := httpx.WriteJSON(w, http.StatusOK, rowResponse{
		ID:        row.ID,
		Context:   row.Context,
		Note:      row.Note,
		Words:     words,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}); err != nil {
		httpx.HandleErr(w, r, err)
	}
}

func (api *API) handleDeleteRow(w http.ResponseWriter, r *http.Request) {
	rowID, err := idFromRequest(r, "row_id")
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	if err := api.srv.DeleteRow(r.Context(), middleware.UserIDFromContext(r.Context()), rowID); err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func idFromRequest(r *http.Request, param string) (int64, error) {
	idStr := r.PathValue(param)
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, serr.NewServiceError(err, serr.MalformedIdentifier, "invalid %s parameter", param).With(param, idStr)
	}

	return id, nil
}
