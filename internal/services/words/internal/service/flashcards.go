package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gamma-omg/lexi-cards/internal/pkg/serr"
	"github.com/gamma-omg/lexi-cards/internal/services/words/internal/fn"
	"github.com/gamma-omg/lexi-cards/internal/services/words/internal/model"
	"github.com/gamma-omg/lexi-cards/internal/services/words/internal/store"
)

// Flashcard is one unresolved word of a vocabulary row.
type Flashcard struct {
	ID      CardID
	Word    string
	Context string
	Note    string
}

// Flashcards tracks which words of a user's vocabulary are still being learned.
type Flashcards struct {
	store store.DataStore
}

func NewFlashcards(st store.DataStore) *Flashcards {
	return &Flashcards{store: st}
}

// ListUnresolved returns a card for every unresolved word the owner has,
// ordered by row id and then by word position.
func (s *Flashcards) ListUnresolved(ctx context.Context, ownerID string) ([]Flashcard, error) {
	rows, err := s.store.ListRows(ctx, store.ListRowsRequest{OwnerID: ownerID})
	if err != nil {
		return nil, fmt.Errorf("list rows: %w", err)
	}

	cards := []Flashcard{}
	for _, row := range rows {
		for i, w := range row.Words {
			if w.Resolved {
				continue
			}

			cards = append(cards, Flashcard{
				ID:      CardID{RowID: row.ID, WordIndex: i},
				Word:    w.Text,
				Context: row.Context,
				Note:    row.Note,
			})
		}
	}

	return cards, nil
}

// MarkResolved flags the addressed word as learned. Resolving a word twice is not an error.
func (s *Flashcards) MarkResolved(ctx context.Context, ownerID string, id CardID) error {
	return s.store.WithinTx(ctx, func(tx store.DataStore) error {
		row, err := tx.GetRow(ctx, store.GetRowRequest{ID: id.RowID, OwnerID: ownerID, ForUpdate: true})
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return cardNotFound(err, id)
			}

			return fmt.Errorf("get row: %w", err)
		}

		if id.WordIndex < 0 || id.WordIndex >= len(row.Words) {
			return cardNotFound(nil, id)
		}

		row.Words[id.WordIndex].Resolved = true
		if err := tx.UpdateWords(ctx, store.UpdateWordsRequest{ID: row.ID, Words: row.Words}); err != nil {
			return fmt.Errorf("update words: %w", err)
		}

		return nil
	})
}

type AddRowRequest struct {
	Context string
	Note    string
	Words   []string
}

// AddRow stores a new vocabulary row with every word unresolved. Blank words are dropped.
func (s *Flashcards) AddRow(ctx context.Context, ownerID string, r AddRowRequest) (int64, error) {
	texts := fn.Filter(fn.Map(r.Words, strings.TrimSpace), func(w string) bool { return w != "" })
	if len(texts) == 0 {
		return 0, serr.NewServiceError(nil, serr.Invalid, "at least one word is required")
	}

	id, err := s.store.InsertRow(ctx, store.InsertRowRequest{
		OwnerID: ownerID,
		Context: r.Context,
		Note:    r.Note,
		Words:   fn.Map(texts, func(w string) model.Word { return model.Word{Text: w} }),
	})
	if err != nil {
		return 0, fmt.Errorf("insert row: %w", err)
	}

	return id, nil
}

func (s *Flashcards) GetRow(ctx context.Context, ownerID string, rowID int64) (model.VocabularyRow, error) {
	row, err := s.store.GetRow(ctx, store.GetRowRequest{ID: rowID, OwnerID: ownerID})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.VocabularyRow{}, rowNotFound(err, rowID)
		}

		return model.VocabularyRow{}, fmt.Errorf("get row: %w", err)
	}

	return row, nil
}

func (s *Flashcards) DeleteRow(ctx context.Context, ownerID string, rowID int64) error {
	if err := s.store.DeleteRow(ctx, store.DeleteRowRequest{ID: rowID, OwnerID: ownerID}); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return rowNotFound(err, rowID)
		}

		return fmt.Errorf("delete row: %w", err)
	}

	return nil
}

// cardNotFound does not say whether the row is missing or owned by someone else.
func cardNotFound(err error, id CardID) *serr.ServiceError {
	return serr.NewServiceError(err, serr.NotFound, "flashcard not found").With("card_id", id.String())
}

func rowNotFound(err error, rowID int64) *serr.ServiceError {
	return serr.NewServiceError(err, serr.NotFound, "vocabulary row not found").With("row_id", strconv.FormatInt(rowID, 10))
}
