package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/gamma-omg/lexi-cards/internal/services/words/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const rowColumns = `id, owner_id, context, note, words, created_at, updated_at`

// dbtx is satisfied by both *pgxpool.Pool and pgx.Tx
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore implements DataStore on top of a pgx connection pool.
type PostgresStore struct {
	db dbtx
}

type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DB       string
	MaxConns int32
}

func (c PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", c.User, c.Password, c.Host, c.Port, c.DB)
}

func NewPostgresPool(ctx context.Context, cfg PostgresConfig) (*pgxpool.Pool, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return pool, nil
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: pool}
}

func (s *PostgresStore) InsertRow(ctx context.Context, r InsertRowRequest) (int64, error) {
	words := r.Words
	if words == nil {
		words = []model.Word{}
	}

	var id int64
	err := s.db.QueryRow(ctx,
		`INSERT INTO vocabulary (owner_id, context, note, words) VALUES ($1, $2, $3, $4) RETURNING id`,
		r.OwnerID, r.Context, r.Note, words).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert row: %w", err)
	}

	return id, nil
}

// GetRow returns the row only when it belongs to r.OwnerID.
func (s *PostgresStore) GetRow(ctx context.Context, r GetRowRequest) (model.VocabularyRow, error) {
	q := `SELECT ` + rowColumns + ` FROM vocabulary WHERE id = $1 AND owner_id = $2`
	if r.ForUpdate {
		q += ` FOR UPDATE`
	}

	row, err := scanRow(s.db.QueryRow(ctx, q, r.ID, r.OwnerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.VocabularyRow{}, ErrNotFound
		}

		return model.VocabularyRow{}, fmt.Errorf("get row: %w", err)
	}

	return row, nil
}

// ListRows returns all rows of an owner in ascending id order.
func (s *PostgresStore) ListRows(ctx context.Context, r ListRowsRequest) ([]model.VocabularyRow, error) {
	rows, err := s.db.Query(ctx, `SELECT `+rowColumns+` FROM vocabulary WHERE owner_id = $1 ORDER BY id`, r.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("query rows: %w", err)
	}
	defer rows.Close()

	var res []model.VocabularyRow
	for rows.Next() {
		row, err := scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		res = append(res, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return res, nil
}

func (s *PostgresStore) UpdateWords(ctx context.Context, r UpdateWordsRequest) error {
	tag, err := s.db.Exec(ctx, `UPDATE vocabulary SET words = $2, updated_at = now() WHERE id = $1`, r.ID, r.Words)
	if err != nil {
		return fmt.Errorf("update words: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *PostgresStore) DeleteRow(ctx context.Context, r DeleteRowRequest) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM vocabulary WHERE id = $1 AND owner_id = $2`, r.ID, r.OwnerID)
	if err != nil {
		return fmt.Errorf("delete row: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *PostgresStore) WithinTx(ctx context.Context, fn func(tx DataStore) error) error {
	pool, ok := s.db.(*pgxpool.Pool)
	if !ok {
		return errors.New("already in transaction")
	}

	tx, err := pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&PostgresStore{db: tx}); err != nil {
		return fmt.Errorf("transaction: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}

func scanRow(row pgx.Row) (model.VocabularyRow, error) {
	var r model.VocabularyRow
	err := row.Scan(
		&r.ID,
		&r.OwnerID,
		&r.Context,
		&r.Note,
		&r.Words,
		&r.CreatedAt,
		&r.UpdatedAt)
	return r, err
}
