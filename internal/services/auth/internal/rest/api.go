package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/gamma-omg/lexi-cards/internal/pkg/httpx"
	"github.com/gamma-omg/lexi-cards/internal/pkg/middleware"
	"github.com/gamma-omg/lexi-cards/internal/pkg/router"
	"github.com/gamma-omg/lexi-cards/internal/services/auth/internal/service"
	"github.com/gamma-omg/lexi-cards/internal/services/auth/internal/store"
)

type authService interface {
	Register(ctx context.Context, r service.RegisterRequest) (store.User, error)
	Login(ctx context.Context, r service.LoginRequest) (service.LoginResponse, error)
	Me(ctx context.Context, uid string) (store.User, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, r service.ResetPasswordRequest) error
}

type accountService interface {
	UpdateUsername(ctx context.Context, uid, username string) (store.User, error)
	UpdateEmail(ctx context.Context, uid, email string) (store.User, error)
	UpdatePassword(ctx context.Context, uid, current, next string) error
	RegenerateInvitationCode(ctx context.Context, uid string) (store.User, error)
}

type API struct {
	auth         authService
	account      accountService
	authenticate router.Middleware
	secureCookie bool
	mux          *http.ServeMux
}

type APIConfig struct {
	// Verify resolves the caller of protected routes.
	Verify middleware.TokenVerifier
	// SecureCookie marks the access token cookie as HTTPS only.
	SecureCookie bool
}

func NewAPI(auth authService, account accountService, cfg APIConfig) *API {
	api := &API{
		auth:         auth,
		account:      account,
		authenticate: middleware.Auth(cfg.Verify),
		secureCookie: cfg.SecureCookie,
		mux:          http.NewServeMux(),
	}
	api.mount()
	return api
}

func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mux.ServeHTTP(w, r)
}

func (a *API) mount() {
	a.mux.HandleFunc("POST /register/student", a.handleRegister(store.RoleStudent))
	a.mux.HandleFunc("POST /register/teacher", a.handleRegister(store.RoleTeacher))
	a.mux.HandleFunc("POST /login", a.handleLogin)
	a.mux.HandleFunc("GET /logout", a.handleLogout)
	a.mux.HandleFunc("POST /forgot-password", a.handleForgotPassword)
	a.mux.HandleFunc("POST /reset-password", a.handleResetPassword)

	a.mux.Handle("GET /users/me", a.protected(a.handleMe))
	a.mux.Handle("PUT /users/me/username", a.protected(a.handleUpdateUsername))
	a.mux.Handle("PUT /users/me/email", a.protected(a.handleUpdateEmail))
	a.mux.Handle("PUT /users/me/password", a.protected(a.handleUpdatePassword))
	a.mux.Handle("POST /users/me/invitation-code", a.protected(a.handleRegenerateInvitationCode))
}

func (a *API) protected(h http.HandlerFunc) http.Handler {
	return router.With(h, a.authenticate)
}

type userResponse struct {
	UID            string    `json:"uid"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	InvitationCode string    `json:"invitation_code"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func toUserResponse(u store.User) userResponse {
	return userResponse{
		UID:            u.UID,
		Username:       u.Username,
		Email:          u.Email,
		Role:           string(u.Role),
		InvitationCode: u.InvitationCode,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func writeUser(w http.ResponseWriter, r *http.Request, status int, u store.User) {
	if err := httpx.WriteJSON(w, status, toUserResponse(u)); err != nil {
		httpx.HandleErr(w, r, err)
	}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *API) handleRegister(role store.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := httpx.ReadJSON(w, r, &req); err != nil {
			httpx.HandleErr(w, r, err)
			return
		}

		if err := firstErr(
			validateUsername(req.Username),
			validateEmail(req.Email),
			validatePassword(req.Password),
		); err != nil {
			httpx.HandleErr(w, r, err)
			return
		}

		usr, err := a.auth.Register(r.Context(), service.RegisterRequest{
			Username: req.Username,
			Email:    req.Email,
			Password: req.Password,
			Role:     role,
		})
		if err != nil {
			httpx.HandleErr(w, r, err)
			return
		}

		writeUser(w, r, http.StatusCreated, usr)
	}
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.ReadJSON(w, r, &req); err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	if req.Login == "" || req.Password == "" {
		httpx.HandleErr(w, r, invalid("login and password are required"))
		return
	}

	resp, err := a.auth.Login(r.Context(), service.LoginRequest{
		Login:    req.Login,
		Password: req.Password,
	})
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    resp.AccessToken,
		Path:     "/",
		Expires:  resp.ExpiresAt,
		HttpOnly: true,
		Secure:   a.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	if err := httpx.WriteJSON(w, http.StatusOK, loginResponse{
		AccessToken: resp.AccessToken,
		TokenType:   "bearer",
	}); err != nil {
		httpx.HandleErr(w, r, err)
	}
}

type messageResponse struct {
	Message string `json:"message"`
}

func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	if err := httpx.WriteJSON(w, http.StatusOK, messageResponse{Message: "logged out"}); err != nil {
		httpx.HandleErr(w, r, err)
	}
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

func (a *API) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := httpx.ReadJSON(w, r, &req); err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	if err := validateEmail(req.Email); err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	if err := a.auth.ForgotPassword(r.Context(), req.Email); err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

type resetPasswordRequest struct {
	NewPassword string `json:"new_password"`
}

func (a *API) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	tok := r.URL.Query().Get("token")
	if tok == "" {
		httpx.HandleErr(w, r, invalid("reset token is required"))
		return
	}

	var req resetPasswordRequest
	if err := httpx.ReadJSON(w, r, &req); err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	if err := validatePassword(req.NewPassword); err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	err := a.auth.ResetPassword(r.Context(), service.ResetPasswordRequest{
		Token:       tok,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	usr, err := a.auth.Me(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	writeUser(w, r, http.StatusOK, usr)
}

type updateUsernameRequest struct {
	NewUsername string `json:"new_username"`
}

func (a *API) handleUpdateUsername(w http.ResponseWriter, r *http.Request) {
	var req updateUsernameRequest
	if err := httpx.ReadJSON(w, r, &req); err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	if err := validateUsername(req.NewUsername); err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	usr, err := a.account.UpdateUsername(r.Context(), middleware.UserIDFromContext(r.Context()), req.NewUsername)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	writeUser(w, r, http.StatusOK, usr)
}

type updateEmailRequest struct {
	NewEmail string `json:"new_email"`
}

func (a *API) handleUpdateEmail(w http.ResponseWriter, r *http.Request) {
	var req updateEmailRequest
	if err := httpx.ReadJSON(w, r, &req); err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	if err := validateEmail(req.NewEmail); err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	usr, err := a.account.UpdateEmail(r.Context(), middleware.UserIDFromContext(r.Context()), req.NewEmail)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	writeUser(w, r, http.StatusOK, usr)
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (a *API) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	var req updatePasswordRequest
	if err := httpx.ReadJSON(w, r, &req); err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	if req.CurrentPassword == "" {
		httpx.HandleErr(w, r, invalid("current password is required"))
		return
	}

	if err := validatePassword(req.NewPassword); err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	err := a.account.UpdatePassword(r.Context(), middleware.UserIDFromContext(r.Context()), req.CurrentPassword, req.NewPassword)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleRegenerateInvitationCode(w http.ResponseWriter, r *http.Request) {
	usr, err := a.account.RegenerateInvitationCode(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	writeUser(w, r, http.StatusOK, usr)
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	return nil
}
