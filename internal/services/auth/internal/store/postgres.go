package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

const errUniqueViolation pq.ErrorCode = "23505"

const userColumns = `id, uid, username, email, hashed_password, invitation_code, role, created_at, updated_at`

// dbtx defines the interface for database and transactions
type dbtx interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// PostgresConfig holds the configuration for connecting to a Postgres database
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DB       string
}

// DSN returns the connection string in URL form, as expected by the migrator.
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", c.User, c.Password, c.Host, c.Port, c.DB)
}

// PostgresStore implements the Store interface using a Postgres database
type PostgresStore struct {
	db dbtx
}

// NewPostgresDB creates a new Postgres database connection
func NewPostgresDB(ctx context.Context, cfg PostgresConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.DB))
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return db, nil
}

// NewPostgresStore creates a new PostgresStore instance
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) GetUserByUID(ctx context.Context, uid string) (User, error) {
	return s.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE uid::text = $1`, uid)
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return s.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

// GetUserByLogin looks the user up by username first, then by email.
func (s *PostgresStore) GetUserByLogin(ctx context.Context, login string) (User, error) {
	return s.getUser(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1 OR email = $1
		 ORDER BY (username = $1) DESC LIMIT 1`, login)
}

func (s *PostgresStore) UsernameTaken(ctx context.Context, r TakenRequest) (bool, error) {
	return s.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 AND ($2 = '' OR uid::text <> $2))`, r)
}

func (s *PostgresStore) EmailTaken(ctx context.Context, r TakenRequest) (bool, error) {
	return s.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 AND ($2 = '' OR uid::text <> $2))`, r)
}

func (s *PostgresStore) CreateUser(ctx context.Context, r CreateUserRequest) (User, error) {
	row := s.db.QueryRowContext(ctx,
		`INSERT INTO users (username, email, hashed_password, invitation_code, role)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+userColumns,
		r.Username,
		r.Email,
		r.HashedPassword,
		r.InvitationCode,
		r.Role)

	usr, err := scanUser(row)
	if err != nil {
		if isPqErr(err, errUniqueViolation) {
			return User{}, ErrExists
		}

		return User{}, fmt.Errorf("insert user: %w", err)
	}

	return usr, nil
}

func (s *PostgresStore) UpdateUsername(ctx context.Context, r UpdateUsernameRequest) error {
	return s.update(ctx, `UPDATE users SET username = $2, updated_at = now() WHERE uid::text = $1`, r.UID, r.Username)
}

func (s *PostgresStore) UpdateEmail(ctx context.Context, r UpdateEmailRequest) error {
	return s.update(ctx, `UPDATE users SET email = $2, updated_at = now() WHERE uid::text = $1`, r.UID, r.Email)
}

func (s *PostgresStore) UpdatePasswordHash(ctx context.Context, r UpdatePasswordHashRequest) error {
	return s.update(ctx, `UPDATE users SET hashed_password = $2, updated_at = now() WHERE uid::text = $1`, r.UID, r.HashedPassword)
}

func (s *PostgresStore) UpdateInvitationCode(ctx context.Context, r UpdateInvitationCodeRequest) error {
	return s.update(ctx, `UPDATE users SET invitation_code = $2, updated_at = now() WHERE uid::text = $1`, r.UID, r.InvitationCode)
}

// WithTx executes the given function within a database transaction
func (s *PostgresStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	db, ok := s.db.(*sql.DB)
	if !ok {
		return errors.New("already in transaction")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	sx := &PostgresStore{db: tx}
	if err = fn(sx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback: %v after: %w", rbErr, err)
		}

		return fmt.Errorf("transaction: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}

func (s *PostgresStore) getUser(ctx context.Context, query string, arg string) (User, error) {
	usr, err := scanUser(s.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}

		return User{}, fmt.Errorf("scan: %w", err)
	}

	return usr, nil
}

func (s *PostgresStore) exists(ctx context.Context, query string, r TakenRequest) (bool, error) {
	var found bool
	if err := s.db.QueryRowContext(ctx, query, r.Value, r.ExceptUID).Scan(&found); err != nil {
		return false, fmt.Errorf("scan: %w", err)
	}

	return found, nil
}

func (s *PostgresStore) update(ctx context.Context, query string, uid, val string) error {
	res, err := s.db.ExecContext(ctx, query, uid, val)
	if err != nil {
		if isPqErr(err, errUniqueViolation) {
			return ErrExists
		}

		return fmt.Errorf("update user: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	return nil
}

func scanUser(row *sql.Row) (User, error) {
	var usr User
	err := row.Scan(
		&usr.ID,
		&usr.UID,
		&usr.Username,
		&usr.Email,
		&usr.HashedPassword,
		&usr.InvitationCode,
		&usr.Role,
		&usr.CreatedAt,
		&usr.UpdatedAt)
	return usr, err
}

func isPqErr(err error, code pq.ErrorCode) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}

	return pqErr.Code == code
}
