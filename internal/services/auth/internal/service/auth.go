package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/gamma-omg/lexi-cards/internal/pkg/serr"
	"github.com/gamma-omg/lexi-cards/internal/services/auth/internal/reset"
	"github.com/gamma-omg/lexi-cards/internal/services/auth/internal/store"
	"github.com/gamma-omg/lexi-cards/internal/services/auth/internal/token"
	"github.com/google/uuid"
)

// hasher hashes and verifies passwords
type hasher interface {
	Hash(plain string) (string, error)
	Verify(hash, plain string) bool
}

// tokenIssuer signs access tokens
type tokenIssuer interface {
	Issue(claims token.UserClaims) (token.Token, error)
}

// resetTokens stores single-use password reset tokens
type resetTokens interface {
	CreateToken(ctx context.Context, uid string) (string, error)
	Redeem(ctx context.Context, tok string) (string, error)
}

type mailer interface {
	SendResetLink(ctx context.Context, to, link string) error
}

// Auth handles registration, login and password reset
type Auth struct {
	store    store.Store
	hasher   hasher
	tokens   tokenIssuer
	resets   resetTokens
	mail     mailer
	resetURL string
	newID    func() string
}

// AuthOption defines a functional option for configuring the Auth service
type AuthOption func(*Auth) *Auth

func WithStore(st store.Store) AuthOption {
	return func(s *Auth) *Auth {
		s.store = st
		return s
	}
}

func WithHasher(h hasher) AuthOption {
	return func(s *Auth) *Auth {
		s.hasher = h
		return s
	}
}

func WithTokenIssuer(iss tokenIssuer) AuthOption {
	return func(s *Auth) *Auth {
		s.tokens = iss
		return s
	}
}

func WithResetTokens(r resetTokens) AuthOption {
	return func(s *Auth) *Auth {
		s.resets = r
		return s
	}
}

func WithMailer(m mailer) AuthOption {
	return func(s *Auth) *Auth {
		s.mail = m
		return s
	}
}

// WithResetURL sets the page the reset link points to. The token is appended as the "token" query parameter.
func WithResetURL(u string) AuthOption {
	return func(s *Auth) *Auth {
		s.resetURL = u
		return s
	}
}

func WithIDGenerator(gen func() string) AuthOption {
	return func(s *Auth) *Auth {
		s.newID = gen
		return s
	}
}

// NewAuth creates a new Auth service with the provided options
func NewAuth(opts ...AuthOption) *Auth {
	s := &Auth{newID: uuid.NewString}
	for _, opt := range opts {
		s = opt(s)
	}

	if s.store == nil {
		panic("store is required")
	}

	if s.hasher == nil {
		panic("password hasher is required")
	}

	if s.tokens == nil {
		panic("token issuer is required")
	}

	if s.resets == nil {
		panic("reset token store is required")
	}

	if s.mail == nil {
		panic("mailer is required")
	}

	if s.resetURL == "" {
		panic("reset url is required")
	}

	return s
}

type RegisterRequest struct {
	Username string
	Email    string
	Password string
	Role     store.Role
}

// Register creates a new user. Duplicate usernames or emails are reported as Conflict.
func (s *Auth) Register(ctx context.Context, r RegisterRequest) (store.User, error) {
	hash, err := s.hasher.Hash(r.Password)
	if err != nil {
		return store.User{}, fmt.Errorf("hash password: %w", err)
	}

	var usr store.User
	err = s.store.WithTx(ctx, func(tx store.Store) error {
		if err := ensureUsernameFree(ctx, tx, r.Username, ""); err != nil {
			return err
		}

		if err := ensureEmailFree(ctx, tx, r.Email, ""); err != nil {
			return err
		}

		usr, err = tx.CreateUser(ctx, store.CreateUserRequest{
			Username:       r.Username,
			Email:          r.Email,
			HashedPassword: hash,
			InvitationCode: s.newID(),
			Role:           r.Role,
		})
		if err != nil {
			if errors.Is(err, store.ErrExists) {
				return serr.NewServiceError(err, serr.Conflict, "username or email already taken").
					With("username", r.Username).
					With("email", r.Email)
			}

			return fmt.Errorf("create user: %w", err)
		}

		return nil
	})
	if err != nil {
		return store.User{}, err
	}

	slog.InfoContext(ctx, "user registered", "uid", usr.UID, "role", string(usr.Role))
	return usr, nil
}

type LoginRequest struct {
	Login    string
	Password string
}

type LoginResponse struct {
	User        store.User
	AccessToken string
	ExpiresAt   time.Time
}

// Login checks the credentials and issues an access token. Login may be a username or an email.
func (s *Auth) Login(ctx context.Context, r LoginRequest) (LoginResponse, error) {
	usr, err := s.store.GetUserByLogin(ctx, r.Login)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return LoginResponse{}, invalidLogin(err, r.Login)
		}

		return LoginResponse{}, fmt.Errorf("get user: %w", err)
	}

	if !s.hasher.Verify(usr.HashedPassword, r.Password) {
		return LoginResponse{}, invalidLogin(errors.New("password mismatch"), r.Login)
	}

	tok, err := s.tokens.Issue(token.UserClaims{
		UID:      usr.UID,
		Username: usr.Username,
		Role:     string(usr.Role),
	})
	if err != nil {
		return LoginResponse{}, fmt.Errorf("issue access token: %w", err)
	}

	return LoginResponse{
		User:        usr,
		AccessToken: tok.Raw,
		ExpiresAt:   tok.ExpiresAt,
	}, nil
}

// Me returns the user with the given uid.
func (s *Auth) Me(ctx context.Context, uid string) (store.User, error) {
	usr, err := s.store.GetUserByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.User{}, userNotFound(err, uid)
		}

		return store.User{}, fmt.Errorf("get user: %w", err)
	}

	return usr, nil
}

// ForgotPassword mails a reset link to the owner of email. Unknown addresses are accepted silently.
func (s *Auth) ForgotPassword(ctx context.Context, email string) error {
	usr, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			slog.DebugContext(ctx, "password reset for unknown email", "email", email)
			return nil
		}

		return fmt.Errorf("get user: %w", err)
	}

	tok, err := s.resets.CreateToken(ctx, usr.UID)
	if err != nil {
		return fmt.Errorf("create reset token: %w", err)
	}

	link, err := s.resetLink(tok)
	if err != nil {
		return err
	}

	if err := s.mail.SendResetLink(ctx, usr.Email, link); err != nil {
		return fmt.Errorf("send reset link: %w", err)
	}

	return nil
}

type ResetPasswordRequest struct {
	Token       string
	NewPassword string
}

// ResetPassword redeems a reset token and replaces the user's password. A token can be used once.
func (s *Auth) ResetPassword(ctx context.Context, r ResetPasswordRequest) error {
	uid, err := s.resets.Redeem(ctx, r.Token)
	if err != nil {
		if errors.Is(err, reset.ErrTokenNotFound) {
			return serr.NewServiceError(err, serr.InvalidCredentials, "invalid or expired reset token")
		}

		return fmt.Errorf("redeem reset token: %w", err)
	}

	hash, err := s.hasher.Hash(r.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	err = s.store.UpdatePasswordHash(ctx, store.UpdatePasswordHashRequest{
		UID:            uid,
		HashedPassword: hash,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return userNotFound(err, uid)
		}

		return fmt.Errorf("update password: %w", err)
	}

	slog.InfoContext(ctx, "password reset", "uid", uid)
	return nil
}

func (s *Auth) resetLink(tok string) (string, error) {
	u, err := url.Parse(s.resetURL)
	if err != nil {
		return "", fmt.Errorf("parse reset url: %w", err)
	}

	q := u.Query()
	q.Set("token", tok)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func invalidLogin(err error, login string) error {
	return serr.NewServiceError(err, serr.InvalidCredentials, "invalid login or password").With("login", login)
}

func userNotFound(err error, uid string) error {
	return serr.NewServiceError(err, serr.NotFound, "user not found").With("uid", uid)
}
