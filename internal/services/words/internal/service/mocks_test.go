package service

import (
	"context"
	"slices"
	"sort"

	"github.com/gamma-omg/lexi-cards/internal/services/words/internal/model"
	"github.com/gamma-omg/lexi-cards/internal/services/words/internal/store"
)

type mockStore struct {
	InsertRowFunc   func(ctx context.Context, r store.InsertRowRequest) (int64, error)
	GetRowFunc      func(ctx context.Context, r store.GetRowRequest) (model.VocabularyRow, error)
	ListRowsFunc    func(ctx context.Context, r store.ListRowsRequest) ([]model.VocabularyRow, error)
	UpdateWordsFunc func(ctx context.Context, r store.UpdateWordsRequest) error
	DeleteRowFunc   func(ctx context.Context, r store.DeleteRowRequest) error
}

func (m *mockStore) InsertRow(ctx context.Context, r store.InsertRowRequest) (int64, error) {
	return m.InsertRowFunc(ctx, r)
}

func (m *mockStore) GetRow(ctx context.Context, r store.GetRowRequest) (model.VocabularyRow, error) {
	return m.GetRowFunc(ctx, r)
}

func (m *mockStore) ListRows(ctx context.Context, r store.ListRowsRequest) ([]model.VocabularyRow, error) {
	return m.ListRowsFunc(ctx, r)
}

func (m *mockStore) UpdateWords(ctx context.Context, r store.UpdateWordsRequest) error {
	return m.UpdateWordsFunc(ctx, r)
}

func (m *mockStore) DeleteRow(ctx context.Context, r store.DeleteRowRequest) error {
	return m.DeleteRowFunc(ctx, r)
}

func (m *mockStore) WithinTx(ctx context.Context, fn func(tx store.DataStore) error) error {
	return fn(m)
}

// memStore keeps rows in memory and hands out copies, like a database would.
type memStore struct {
	rows   map[int64]model.VocabularyRow
	nextID int64
}

func newMemStore(rows ...model.VocabularyRow) *memStore {
	m := &memStore{rows: make(map[int64]model.VocabularyRow), nextID: 1}
	for _, r := range rows {
		m.rows[r.ID] = r
		if r.ID >= m.nextID {
			m.nextID = r.ID + 1
		}
	}
	return m
}

func (m *memStore) InsertRow(_ context.Context, r store.InsertRowRequest) (int64, error) {
	id := m.nextID
	m.nextID++
	m.rows[id] = model.VocabularyRow{
		ID:      id,
		OwnerID: r.OwnerID,
		Context: r.Context,
		Note:    r.Note,
		Words:   slices.Clone(r.Words),
	}
	return id, nil
}

func (m *memStore) GetRow(_ context.Context, r store.GetRowRequest) (model.VocabularyRow, error) {
	row, ok := m.rows[r.ID]
	if !ok || row.OwnerID != r.OwnerID {
		return model.VocabularyRow{}, store.ErrNotFound
	}
	row.Words = slices.Clone(row.Words)
	return row, nil
}

func (m *memStore) ListRows(_ context.Context, r store.ListRowsRequest) ([]model.VocabularyRow, error) {
	var res []model.VocabularyRow
	for _, row := range m.rows {
		if row.OwnerID == r.OwnerID {
			row.Words = slices.Clone(row.Words)
			res = append(res, row)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (m *memStore) UpdateWords(_ context.Context, r store.UpdateWordsRequest) error {
	row, ok := m.rows[r.ID]
	if !ok {
		return store.ErrNotFound
	}
	row.Words = slices.Clone(r.Words)
	m.rows[r.ID] = row
	return nil
}

func (m *memStore) DeleteRow(_ context.Context, r store.DeleteRowRequest) error {
	row, ok := m.rows[r.ID]
	if !ok || row.OwnerID != r.OwnerID {
		return store.ErrNotFound
	}
	delete(m.rows, r.ID)
	return nil
}

func (m *memStore) WithinTx(ctx context.Context, fn func(tx store.DataStore) error) error {
	return fn(m)
}
