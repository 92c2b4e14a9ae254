package model

import "time"

type Model struct {
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Word is one entry of a vocabulary row. Its position in the row is its identity.
type Word struct {
	Text     string `json:"text"`
	Resolved bool   `json:"resolved"`
}

// VocabularyRow groups words that came from the same context.
type VocabularyRow struct {
	Model
	ID      int64
	OwnerID string
	Context string
	Note    string
	Words   []Word
}
