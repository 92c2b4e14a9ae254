package store

import (
	"context"
	"errors"

	"github.com/gamma-omg/lexi-cards/internal/services/words/internal/model"
)

var (
	ErrNotFound = errors.New("not found")
)

type DataStore interface {
	InsertRow(ctx context.Context, r InsertRowRequest) (int64, error)
	GetRow(ctx context.Context, r GetRowRequest) (model.VocabularyRow, error)
	ListRows(ctx context.Context, r ListRowsRequest) ([]model.VocabularyRow, error)
	UpdateWords(ctx context.Context, r UpdateWordsRequest) error
	DeleteRow(ctx context.Context, r DeleteRowRequest) error
	WithinTx(ctx context.Context, fn func(tx DataStore) error) error
}
