package service

import (
	"context"
	"strings"
	"sync"

	"github.com/gamma-omg/lexi-cards/internal/services/auth/internal/store"
	"github.com/gamma-omg/lexi-cards/internal/services/auth/internal/token"
)

type mockStore struct {
	getUserByUIDFunc         func(ctx context.Context, uid string) (store.User, error)
	getUserByEmailFunc       func(ctx context.Context, email string) (store.User, error)
	getUserByLoginFunc       func(ctx context.Context, login string) (store.User, error)
	usernameTakenFunc        func(ctx context.Context, r store.TakenRequest) (bool, error)
	emailTakenFunc           func(ctx context.Context, r store.TakenRequest) (bool, error)
	createUserFunc           func(ctx context.Context, r store.CreateUserRequest) (store.User, error)
	updateUsernameFunc       func(ctx context.Context, r store.UpdateUsernameRequest) error
	updateEmailFunc          func(ctx context.Context, r store.UpdateEmailRequest) error
	updatePasswordHashFunc   func(ctx context.Context, r store.UpdatePasswordHashRequest) error
	updateInvitationCodeFunc func(ctx context.Context, r store.UpdateInvitationCodeRequest) error
}

func (m *mockStore) GetUserByUID(ctx context.Context, uid string) (store.User, error) {
	return m.getUserByUIDFunc(ctx, uid)
}

func (m *mockStore) GetUserByEmail(ctx context.Context, email string) (store.User, error) {
	return m.getUserByEmailFunc(ctx, email)
}

func (m *mockStore) GetUserByLogin(ctx context.Context, login string) (store.User, error) {
	return m.getUserByLoginFunc(ctx, login)
}

func (m *mockStore) UsernameTaken(ctx context.Context, r store.TakenRequest) (bool, error) {
	return m.usernameTakenFunc(ctx, r)
}

func (m *mockStore) EmailTaken(ctx context.Context, r store.TakenRequest) (bool, error) {
	return m.emailTakenFunc(ctx, r)
}

func (m *mockStore) CreateUser(ctx context.Context, r store.CreateUserRequest) (store.User, error) {
	return m.createUserFunc(ctx, r)
}

func (m *mockStore) UpdateUsername(ctx context.Context, r store.UpdateUsernameRequest) error {
	return m.updateUsernameFunc(ctx, r)
}

func (m *mockStore) UpdateEmail(ctx context.Context, r store.UpdateEmailRequest) error {
	return m.updateEmailFunc(ctx, r)
}

func (m *mockStore) UpdatePasswordHash(ctx context.Context, r store.UpdatePasswordHashRequest) error {
	return m.updatePasswordHashFunc(ctx, r)
}

func (m *mockStore) UpdateInvitationCode(ctx context.Context, r store.UpdateInvitationCodeRequest) error {
	return m.updateInvitationCodeFunc(ctx, r)
}

func (m *mockStore) WithTx(ctx context.Context, fn func(store.Store) error) error {
	return fn(m)
}

// memStore is an in-memory store.Store keyed by uid.
type memStore struct {
	mu    sync.Mutex
	users map[string]store.User
	next  int64
}

func newMemStore(users ...store.User) *memStore {
	s := &memStore{users: make(map[string]store.User)}
	for _, u := range users {
		s.next++
		u.ID = s.next
		s.users[u.UID] = u
	}
	return s
}

func (s *memStore) find(match func(store.User) bool) (store.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if match(u) {
			return u, nil
		}
	}
	return store.User{}, store.ErrNotFound
}

func (s *memStore) GetUserByUID(_ context.Context, uid string) (store.User, error) {
	return s.find(func(u store.User) bool { return u.UID == uid })
}

func (s *memStore) GetUserByEmail(_ context.Context, email string) (store.User, error) {
	return s.find(func(u store.User) bool { return u.Email == email })
}

func (s *memStore) GetUserByLogin(_ context.Context, login string) (store.User, error) {
	return s.find(func(u store.User) bool { return u.Username == login || u.Email == login })
}

func (s *memStore) UsernameTaken(_ context.Context, r store.TakenRequest) (bool, error) {
	_, err := s.find(func(u store.User) bool { return u.Username == r.Value && u.UID != r.ExceptUID })
	return err == nil, nil
}

func (s *memStore) EmailTaken(_ context.Context, r store.TakenRequest) (bool, error) {
	_, err := s.find(func(u store.User) bool { return u.Email == r.Value && u.UID != r.ExceptUID })
	return err == nil, nil
}

func (s *memStore) CreateUser(_ context.Context, r store.CreateUserRequest) (store.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == r.Username || u.Email == r.Email {
			return store.User{}, store.ErrExists
		}
	}

	s.next++
	u := store.User{
		ID:             s.next,
		UID:            "uid-" + strings.ToLower(r.Username),
		Username:       r.Username,
		Email:          r.Email,
		HashedPassword: r.HashedPassword,
		InvitationCode: r.InvitationCode,
		Role:           r.Role,
	}
	s.users[u.UID] = u
	return u, nil
}

func (s *memStore) update(uid string, fn func(*store.User)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[uid]
	if !ok {
		return store.ErrNotFound
	}
	fn(&u)
	s.users[uid] = u
	return nil
}

func (s *memStore) UpdateUsername(_ context.Context, r store.UpdateUsernameRequest) error {
	return s.update(r.UID, func(u *store.User) { u.Username = r.Username })
}

func (s *memStore) UpdateEmail(_ context.Context, r store.UpdateEmailRequest) error {
	return s.update(r.UID, func(u *store.User) { u.Email = r.Email })
}

func (s *memStore) UpdatePasswordHash(_ context.Context, r store.UpdatePasswordHashRequest) error {
	return s.update(r.UID, func(u *store.User) { u.HashedPassword = r.HashedPassword })
}

func (s *memStore) UpdateInvitationCode(_ context.Context, r store.UpdateInvitationCodeRequest) error {
	return s.update(r.UID, func(u *store.User) { u.InvitationCode = r.InvitationCode })
}

func (s *memStore) WithTx(_ context.Context, fn func(store.Store) error) error {
	return fn(s)
}

// plainHasher "hashes" by prefixing, so tests can read stored hashes.
type plainHasher struct{}

func (plainHasher) Hash(plain string) (string, error) {
	return "hashed:" + plain, nil
}

func (plainHasher) Verify(hash, plain string) bool {
	return hash == "hashed:"+plain
}

type mockTokenIssuer struct {
	issueFunc func(claims token.UserClaims) (token.Token, error)
}

func (m *mockTokenIssuer) Issue(claims token.UserClaims) (token.Token, error) {
	return m.issueFunc(claims)
}

type mockResetTokens struct {
	createTokenFunc func(ctx context.Context, uid string) (string, error)
	redeemFunc      func(ctx context.Context, tok string) (string, error)
}

func (m *mockResetTokens) CreateToken(ctx context.Context, uid string) (string, error) {
	return m.createTokenFunc(ctx, uid)
}

func (m *mockResetTokens) Redeem(ctx context.Context, tok string) (string, error) {
	return m.redeemFunc(ctx, tok)
}

type mockMailer struct {
	sendResetLinkFunc func(ctx context.Context, to, link string) error
}

func (m *mockMailer) SendResetLink(ctx context.Context, to, link string) error {
	return m.sendResetLinkFunc(ctx, to, link)
}
