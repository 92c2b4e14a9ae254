package store

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("not found")
	ErrExists   = errors.New("already exists")
)

type Store interface {
	GetUserByUID(ctx context.Context, uid string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUserByLogin(ctx context.Context, login string) (User, error)
	UsernameTaken(ctx context.Context, r TakenRequest) (bool, error)
	EmailTaken(ctx context.Context, r TakenRequest) (bool, error)
	CreateUser(ctx context.Context, r CreateUserRequest) (User, error)
	UpdateUsername(ctx context.Context, r UpdateUsernameRequest) error
	UpdateEmail(ctx context.Context, r UpdateEmailRequest) error
	UpdatePasswordHash(ctx context.Context, r UpdatePasswordHashRequest) error
	UpdateInvitationCode(ctx context.Context, r UpdateInvitationCodeRequest) error
	WithTx(ctx context.Context, fn func(tx Store) error) error
}

// TakenRequest asks whether Value is held by a user other than ExceptUID.
// An empty ExceptUID matches every user.
type TakenRequest struct {
	Value     string
	ExceptUID string
}

type CreateUserRequest struct {
	Username       string
	Email          string
	HashedPassword string
	InvitationCode string
	Role           Role
}

type UpdateUsernameRequest struct {
	UID      string
	Username string
}

type UpdateEmailRequest struct {
	UID   string
	Email string
}

type UpdatePasswordHashRequest struct {
	UID            string
	HashedPassword string
}

type UpdateInvitationCodeRequest struct {
	UID            string
	InvitationCode string
}
