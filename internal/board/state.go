package board

import (
	"slices"

	"github.com/agnel18/DevCollab/internal/model"
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoaded
)

func (p Phase) String() string {
	if p == PhaseLoaded {
		return "loaded"
	}
	return "idle"
}

// State is the coordinator's view of one board. Transitions return a new State and leave the
// receiver untouched, so a snapshot handed out earlier never changes underneath its reader.
type State struct {
	Phase         Phase
	BoardID       int64
	Board         model.Board
	Cards         []model.Card
	ActiveTimerID int64
	Pending       map[string]bool
	LastError     string
}

// Loaded replaces the cards wholesale and derives the active timer from them.
func (s State) Loaded(board model.Board, cards []model.Card) State {
	s.Phase = PhaseLoaded
	s.BoardID = board.ID
	s.Board = board
	s.Board.Columns = slices.Clone(board.Columns)
	s.Cards = slices.Clone(cards)
	s.ActiveTimerID = ActiveTimer(s.Cards)
	s.LastError = ""
	return s
}

// ReplaceCard swaps in the server's copy of a card, appending it when it is new to the board.
func (s State) ReplaceCard(card model.Card) State {
	cards := slices.Clone(s.Cards)
	if i := indexOf(cards, card.ID); i >= 0 {
		cards[i] = card
	} else {
		cards = append(cards, card)
	}
	s.Cards = cards
	if card.IsRunning() {
		s.ActiveTimerID = card.ID
	} else if s.ActiveTimerID == card.ID {
		s.ActiveTimerID = 0
	}
	return s
}

// MoveCard relocates a card locally. A zero columnID moves it into a status bucket.
func (s State) MoveCard(id, columnID int64, status model.Status) State {
	cards := slices.Clone(s.Cards)
	i := indexOf(cards, id)
	if i < 0 {
		return s
	}
	card := cards[i]
	if columnID != 0 {
		card.ColumnID = &columnID
		if matched, ok := statusOfColumn(s.Board.Columns, columnID); ok {
			card.Status = matched
		}
	} else {
		card.Status = status
	}
	cards[i] = card
	s.Cards = cards
	return s
}

func (s State) RemoveCard(id int64) State {
	s.Cards = slices.DeleteFunc(slices.Clone(s.Cards), func(c model.Card) bool { return c.ID == id })
	if s.ActiveTimerID == id {
		s.ActiveTimerID = 0
	}
	return s
}

// RemoveColumn drops the column and every card that still references it.
func (s State) RemoveColumn(columnID int64) State {
	s.Board.Columns = slices.DeleteFunc(slices.Clone(s.Board.Columns), func(c model.Column) bool { return c.ID == columnID })
	s.Cards = slices.DeleteFunc(slices.Clone(s.Cards), func(c model.Card) bool { return c.InColumn(columnID) })
	s.ActiveTimerID = ActiveTimer(s.Cards)
	return s
}

func (s State) Card(id int64) (model.Card, bool) {
	if i := indexOf(s.Cards, id); i >= 0 {
		return s.Cards[i], true
	}
	return model.Card{}, false
}

// CardsIn returns the cards of a column, or of a status bucket when columnID is zero.
func (s State) CardsIn(columnID int64, status model.Status) []model.Card {
	var out []model.Card
	for _, card := range s.Cards {
		if columnID != 0 {
			if card.InColumn(columnID) {
				out = append(out, card)
			}
			continue
		}
		if card.ColumnID == nil && card.Status == status {
			out = append(out, card)
		}
	}
	return out
}

// ActiveTimer returns the id of the running card, zero when none runs.
func ActiveTimer(cards []model.Card) int64 {
	for _, card := range cards {
		if card.IsRunning() {
			return card.ID
		}
	}
	return 0
}

func (s State) clone() State {
	out := s
	out.Cards = slices.Clone(s.Cards)
	out.Board.Columns = slices.Clone(s.Board.Columns)
	out.Pending = make(map[string]bool, len(s.Pending))
	for k, v := range s.Pending {
		out.Pending[k] = v
	}
	return out
}

func indexOf(cards []model.Card, id int64) int {
	return slices.IndexFunc(cards, func(c model.Card) bool { return c.ID == id })
}

func statusOfColumn(columns []model.Column, columnID int64) (model.Status, bool) {
	for _, column := range columns {
		if column.ID != columnID {
			continue
		}
		status, err := model.ParseStatus(column.Name)
		if err != nil {
			return "", false
		}
		return status, true
	}
	return "", false
}
