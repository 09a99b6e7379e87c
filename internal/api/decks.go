package api

import (
	"context"
	"net/http"

	"memodeck-client/internal/models"
)

func (c *Client) ListDecks(ctx context.Context) ([]models.Deck, error) {
	var resp struct {
		Decks []models.Deck `json:"decks"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/flashcards/decks", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Decks, nil
}

// GetDeck fetches a deck together with its cards.
func (c *Client) GetDeck(ctx context.Context, deckID string) (*models.Deck, error) {
	var resp struct {
		Deck  models.Deck   `json:"deck"`
		Cards []models.Card `json:"cards"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/flashcards/decks/"+deckID, nil, &resp); err != nil {
		return nil, err
	}
	resp.Deck.Cards = resp.Cards
	return &resp.Deck, nil
}

func (c *Client) GetDeckStats(ctx context.Context, deckID string) (*models.DeckStats, error) {
	var resp struct {
		Stats models.DeckStats `json:"stats"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/flashcards/decks/"+deckID+"/stats", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Stats, nil
}

func (c *Client) ToggleDeckFavorite(ctx context.Context, deckID string) error {
	return c.do(ctx, http.MethodPut, "/api/v1/flashcards/decks/"+deckID+"/favorite", nil, nil)
}

func (c *Client) DeleteDeck(ctx context.Context, deckID string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/flashcards/decks/"+deckID, nil, nil)
}

// RateCard records one flashcard review for spaced repetition.
func (c *Client) RateCard(ctx context.Context, cardID string, req models.CardRatingRequest) error {
	return c.do(ctx, http.MethodPost, "/api/v1/flashcards/cards/"+cardID+"/rating", req, nil)
}
