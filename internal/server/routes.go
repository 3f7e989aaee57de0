package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ckuhn/cardbox/internal/store"
)

type deckJSON struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ParentID   string `json:"parent_id,omitempty"`
	LastReview *int64 `json:"last_review,omitempty"`
	CreatedAt  int64  `json:"created_at"`
	UpdatedAt  int64  `json:"updated_at"`
	New        int    `json:"new"`
	Learning   int    `json:"learning"`
	Reviewing  int    `json:"reviewing"`
	CardCount  int    `json:"card_count"`
}

func toDeckJSON(d store.DeckCounts) deckJSON {
	return deckJSON{
		ID:         d.ID,
		Name:       d.Name,
		ParentID:   d.ParentID,
		LastReview: d.LastReview,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
		New:        d.New,
		Learning:   d.Learning,
		Reviewing:  d.Reviewing,
		CardCount:  d.CardCount,
	}
}

type cardJSON struct {
	ID         string `json:"id"`
	DeckID     string `json:"deck_id"`
	Front      string `json:"front"`
	Back       string `json:"back"`
	Status     string `json:"status"`
	N          int    `json:"n"`
	Interval   int    `json:"interval"`
	DueDate    int64  `json:"due_date"`
	LastReview *int64 `json:"last_review,omitempty"`
	CreatedAt  int64  `json:"created_at"`
	UpdatedAt  int64  `json:"updated_at"`
}

func toCardJSON(c store.Card) cardJSON {
	return cardJSON{
		ID:         c.ID,
		DeckID:     c.DeckID,
		Front:      c.Front,
		Back:       c.Back,
		Status:     c.Status,
		N:          c.N,
		Interval:   c.Interval,
		DueDate:    c.DueDate,
		LastReview: c.LastReview,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

func toCardsJSON(cards []store.Card) []cardJSON {
	out := make([]cardJSON, len(cards))
	for i, c := range cards {
		out[i] = toCardJSON(c)
	}
	return out
}

func (s *Server) handleCreateDeck(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name" validate:"required"`
		ParentID string `json:"parent_id"`
	}
	if err := s.decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	deck, err := s.engine.CreateDeck(req.Name, req.ParentID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": deck.ID})
}

func (s *Server) handleListDecks(w http.ResponseWriter, r *http.Request) {
	decks, err := s.engine.ListChildren(r.URL.Query().Get("parent_id"))
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]deckJSON, len(decks))
	for i, d := range decks {
		out[i] = toDeckJSON(d)
	}
	writeJSON(w, http.StatusOK, map[string]any{"decks": out})
}

func (s *Server) handleGetDeck(w http.ResponseWriter, r *http.Request) {
	deck, err := s.engine.GetDeck(chi.URLParam(r, "deckID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDeckJSON(*deck))
}

func (s *Server) handleRenameDeck(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name" validate:"required"`
	}
	if err := s.decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if err := s.engine.RenameDeck(chi.URLParam(r, "deckID"), req.Name); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "renamed"})
}

func (s *Server) handleMoveDeck(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ParentID string `json:"parent_id"`
	}
	if err := s.decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if err := s.engine.MoveDeck(chi.URLParam(r, "deckID"), req.ParentID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "moved"})
}

func (s *Server) handleDeleteDeck(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.DeleteDeck(chi.URLParam(r, "deckID")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleDeckPath(w http.ResponseWriter, r *http.Request) {
	path, err := s.engine.PathToRoot(chi.URLParam(r, "deckID"))
	if err != nil {
		writeError(w, err)
		return
	}

	type pathJSON struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	out := make([]pathJSON, len(path))
	for i, d := range path {
		out[i] = pathJSON{ID: d.ID, Name: d.Name}
	}
	writeJSON(w, http.StatusOK, map[string]any{"path": out})
}

func (s *Server) handleDeckSubtree(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "deckID")
	if _, err := s.engine.GetDeck(id); err != nil {
		writeError(w, err)
		return
	}

	decks, err := s.engine.ListSubtree(id)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]deckJSON, len(decks))
	for i, d := range decks {
		out[i] = toDeckJSON(d)
	}
	writeJSON(w, http.StatusOK, map[string]any{"decks": out})
}

func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	expanded := map[string]bool{}
	if raw := r.URL.Query().Get("expanded"); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			expanded[id] = true
		}
	}

	outline, err := s.engine.BuildOutline(expanded)
	if err != nil {
		writeError(w, err)
		return
	}

	type outlineJSON struct {
		deckJSON
		Depth      int `json:"depth"`
		ChildCount int `json:"child_count"`
	}
	out := make([]outlineJSON, len(outline))
	for i, entry := range outline {
		out[i] = outlineJSON{
			deckJSON:   toDeckJSON(entry.DeckCounts),
			Depth:      entry.Depth,
			ChildCount: entry.ChildCount,
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"outline": out})
}

func (s *Server) handleResetDeck(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.ResetDeckHistory(chi.URLParam(r, "deckID")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (s *Server) handleDeckReviewed(w http.ResponseWriter, r *http.Request) {
	at := time.Now().UnixMilli()
	if err := s.engine.SetDeckLastReviewed(chi.URLParam(r, "deckID"), at); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"last_review": at})
}

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DeckID string `json:"deck_id" validate:"required"`
		Front  string `json:"front"`
		Back   string `json:"back"`
	}
	if err := s.decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	card, err := s.engine.CreateCard(req.DeckID, req.Front, req.Back)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCardJSON(*card))
}

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	cards, err := s.engine.ListCards(r.URL.Query().Get("deck_id"), r.URL.Query().Get("filter"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cards": toCardsJSON(cards)})
}

func (s *Server) handleDueCards(w http.ResponseWriter, r *http.Request) {
	cards, err := s.engine.DueCards(r.URL.Query().Get("deck_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cards": toCardsJSON(cards)})
}

func (s *Server) handleGetCard(w http.ResponseWriter, r *http.Request) {
	card, err := s.engine.GetCard(chi.URLParam(r, "cardID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCardJSON(*card))
}

func (s *Server) handleUpdateCard(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Front string `json:"front"`
		Back  string `json:"back"`
	}
	if err := s.decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if err := s.engine.UpdateCard(chi.URLParam(r, "cardID"), req.Front, req.Back); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.DeleteCard(chi.URLParam(r, "cardID")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleMoveCard(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DeckID string `json:"deck_id" validate:"required"`
	}
	if err := s.decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if err := s.engine.MoveCard(chi.URLParam(r, "cardID"), req.DeckID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "moved"})
}

func (s *Server) handleDuplicateCard(w http.ResponseWriter, r *http.Request) {
	card, err := s.engine.DuplicateCard(chi.URLParam(r, "cardID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCardJSON(*card))
}

func (s *Server) handleResetCard(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.ResetHistory(chi.URLParam(r, "cardID")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (s *Server) handleListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := s.engine.ListReviews(r.URL.Query().Get("deck_id"), r.URL.Query().Get("card_id"))
	if err != nil {
		writeError(w, err)
		return
	}

	type reviewJSON struct {
		ID        string `json:"id"`
		DeckID    string `json:"deck_id"`
		CardID    string `json:"card_id"`
		Rating    string `json:"rating"`
		CreatedAt int64  `json:"created_at"`
	}
	out := make([]reviewJSON, len(reviews))
	for i, rv := range reviews {
		out[i] = reviewJSON{
			ID:        rv.ID,
			DeckID:    rv.DeckID,
			CardID:    rv.CardID,
			Rating:    rv.Rating,
			CreatedAt: rv.CreatedAt,
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"reviews": out})
}

func (s *Server) handleSubmitReview(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CardID string `json:"card_id" validate:"required"`
		Rating string `json:"rating" validate:"required,oneof=forgot hard good easy"`
	}
	if err := s.decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	card, err := s.engine.SubmitReview(req.CardID, req.Rating)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCardJSON(*card))
}
