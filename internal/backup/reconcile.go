package backup

import "github.com/junhaoh/cashcount/internal/model"

// CardMatcher re-links imported transaction rows to existing cards.
type CardMatcher struct {
	cards []*model.Card
}

// NewCardMatcher returns a matcher over the given cards. Match order follows
// slice order; callers pass cards in storage order (oldest first).
func NewCardMatcher(cards []*model.Card) *CardMatcher {
	return &CardMatcher{cards: cards}
}

// Match finds the best existing card for a parsed card-name/suffix pair.
//
// It tries an exact match on display name and suffix first, then relaxes to
// suffix only, and returns nil when neither succeeds — the transaction is
// imported card-less. The sentinels written for card-less exports
// short-circuit straight to nil. When several cards share a suffix the first
// in slice order wins; that choice is not guaranteed to be stable.
func (m *CardMatcher) Match(name, suffix string) *model.Card {
	if suffix == NoCardSuffix || name == DeletedCardName {
		return nil
	}

	for _, card := range m.cards {
		if card.Suffix == suffix && card.DisplayName() == name {
			return card
		}
	}
	for _, card := range m.cards {
		if card.Suffix == suffix {
			return card
		}
	}

	return nil
}
