package store

import "github.com/gamma-omg/lexi-cards/internal/services/words/internal/model"

type InsertRowRequest struct {
	OwnerID string
	Context string
	Note    string
	Words   []model.Word
}

type GetRowRequest struct {
	ID      int64
	OwnerID string
	// ForUpdate locks the row until the surrounding transaction ends.
	ForUpdate bool
}

type ListRowsRequest struct {
	OwnerID string
}

type UpdateWordsRequest struct {
	ID    int64
	Words []model.Word
}

type DeleteRowRequest struct {
	ID      int64
	OwnerID string
}
