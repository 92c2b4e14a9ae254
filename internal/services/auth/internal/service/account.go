package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gamma-omg/lexi-cards/internal/pkg/serr"
	"github.com/gamma-omg/lexi-cards/internal/services/auth/internal/store"
	"github.com/google/uuid"
)

const maxCodeAttempts = 8

// Account changes the profile of an authenticated user. Every operation runs in a single transaction.
type Account struct {
	store  store.Store
	hasher hasher
	newID  func() string
}

type AccountConfig struct {
	Hasher hasher
	// NewID generates invitation codes. Defaults to random UUIDv4 strings.
	NewID func() string
}

func NewAccount(st store.Store, cfg AccountConfig) *Account {
	if cfg.Hasher == nil {
		panic("password hasher is required")
	}

	if cfg.NewID == nil {
		cfg.NewID = uuid.NewString
	}

	return &Account{
		store:  st,
		hasher: cfg.Hasher,
		newID:  cfg.NewID,
	}
}

// UpdateUsername gives the user a new username. Conflict if another user already holds it.
func (s *Account) UpdateUsername(ctx context.Context, uid, username string) (usr store.User, err error) {
	err = s.store.WithTx(ctx, func(tx store.Store) error {
		if err := ensureUsernameFree(ctx, tx, username, uid); err != nil {
			return err
		}

		err := tx.UpdateUsername(ctx, store.UpdateUsernameRequest{UID: uid, Username: username})
		if err != nil {
			if errors.Is(err, store.ErrExists) {
				return usernameTaken(err, username)
			}

			return updateErr(err, uid, "username")
		}

		usr, err = refetch(ctx, tx, uid)
		return err
	})

	return usr, err
}

// UpdateEmail gives the user a new email. Conflict if another user already holds it.
func (s *Account) UpdateEmail(ctx context.Context, uid, email string) (usr store.User, err error) {
	err = s.store.WithTx(ctx, func(tx store.Store) error {
		if err := ensureEmailFree(ctx, tx, email, uid); err != nil {
			return err
		}

		err := tx.UpdateEmail(ctx, store.UpdateEmailRequest{UID: uid, Email: email})
		if err != nil {
			if errors.Is(err, store.ErrExists) {
				return emailTaken(err, email)
			}

			return updateErr(err, uid, "email")
		}

		usr, err = refetch(ctx, tx, uid)
		return err
	})

	return usr, err
}

// UpdatePassword replaces the password after checking the current one.
func (s *Account) UpdatePassword(ctx context.Context, uid, current, next string) error {
	return s.store.WithTx(ctx, func(tx store.Store) error {
		usr, err := refetch(ctx, tx, uid)
		if err != nil {
			return err
		}

		if !s.hasher.Verify(usr.HashedPassword, current) {
			return serr.NewServiceError(errors.New("password mismatch"), serr.InvalidCredentials, "current password is incorrect").
				With("uid", uid)
		}

		hash, err := s.hasher.Hash(next)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}

		err = tx.UpdatePasswordHash(ctx, store.UpdatePasswordHashRequest{UID: uid, HashedPassword: hash})
		if err != nil {
			return updateErr(err, uid, "password")
		}

		return nil
	})
}

// RegenerateInvitationCode assigns a new invitation code that always differs from the previous one.
func (s *Account) RegenerateInvitationCode(ctx context.Context, uid string) (usr store.User, err error) {
	err = s.store.WithTx(ctx, func(tx store.Store) error {
		cur, err := refetch(ctx, tx, uid)
		if err != nil {
			return err
		}

		code, err := s.freshCode(cur.InvitationCode)
		if err != nil {
			return err
		}

		err = tx.UpdateInvitationCode(ctx, store.UpdateInvitationCodeRequest{UID: uid, InvitationCode: code})
		if err != nil {
			return updateErr(err, uid, "invitation code")
		}

		usr, err = refetch(ctx, tx, uid)
		return err
	})

	return usr, err
}

func (s *Account) freshCode(old string) (string, error) {
	for range maxCodeAttempts {
		if code := s.newID(); code != old {
			return code, nil
		}
	}

	return "", errors.New("id generator keeps returning the current invitation code")
}

func ensureUsernameFree(ctx context.Context, tx store.Store, username, exceptUID string) error {
	taken, err := tx.UsernameTaken(ctx, store.TakenRequest{Value: username, ExceptUID: exceptUID})
	if err != nil {
		return fmt.Errorf("check username: %w", err)
	}
	if taken {
		return usernameTaken(store.ErrExists, username)
	}

	return nil
}

func ensureEmailFree(ctx context.Context, tx store.Store, email, exceptUID string) error {
	taken, err := tx.EmailTaken(ctx, store.TakenRequest{Value: email, ExceptUID: exceptUID})
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if taken {
		return emailTaken(store.ErrExists, email)
	}

	return nil
}

func usernameTaken(err error, username string) error {
	return serr.NewServiceError(err, serr.Conflict, "username already taken").With("username", username)
}

func emailTaken(err error, email string) error {
	return serr.NewServiceError(err, serr.Conflict, "email already taken").With("email", email)
}

func refetch(ctx context.Context, tx store.Store, uid string) (store.User, error) {
	usr, err := tx.GetUserByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.User{}, userNotFound(err, uid)
		}

		return store.User{}, fmt.Errorf("get user: %w", err)
	}

	return usr, nil
}

func updateErr(err error, uid, field string) error {
	if errors.Is(err, store.ErrNotFound) {
		return userNotFound(err, uid)
	}

	return fmt.Errorf("update %s: %w", field, err)
}
