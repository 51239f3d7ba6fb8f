package session

import (
	"context"

	"tabletop/internal/scene"
	"tabletop/internal/storage"
)

// SetCardPools sets the image and word references cards are drawn from.
func (s *Session) SetCardPools(images, words []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.images = append([]string(nil), images...)
	s.words = append([]string(nil), words...)
}

func (s *Session) AutoAssign() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.autoAssign
}

// SetAutoAssign toggles drawing a card for every newly placed entity and
// persists the preference.
func (s *Session) SetAutoAssign(ctx context.Context, on bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.autoAssign = on
	return s.gateway.Write(ctx, storage.KeyCardAutoAssign, on)
}

// NextCard returns the first image and word not yet used on the table.
func (s *Session) NextCard() (scene.Card, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextCardLocked()
}

func (s *Session) nextCardLocked() (scene.Card, bool) {
	usedImages := make(map[string]struct{})
	usedWords := make(map[string]struct{})
	for _, e := range s.scene.Entities() {
		card := e.CardOrZero()
		if card.Image != "" {
			usedImages[card.Image] = struct{}{}
		}
		if card.Word != "" {
			usedWords[card.Word] = struct{}{}
		}
	}
	card := scene.Card{Image: firstUnused(s.images, usedImages), Word: firstUnused(s.words, usedWords)}
	return card, card.Complete()
}

func firstUnused(pool []string, used map[string]struct{}) string {
	for _, ref := range pool {
		if _, taken := used[ref]; !taken {
			return ref
		}
	}
	return ""
}
