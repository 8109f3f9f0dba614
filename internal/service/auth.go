package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/elcriollo/station-frontend/internal/apiclient"
	"github.com/elcriollo/station-frontend/internal/config"
	"github.com/elcriollo/station-frontend/internal/models"
	"github.com/elcriollo/station-frontend/internal/session"
)

// SessionWriter is the write side of the session store.
type SessionWriter interface {
	Commit(ctx context.Context, sess session.Session) error
	Clear(ctx context.Context) error
}

// Registration is the outcome of a successful registration.
type Registration struct {
	EmailSent bool `json:"emailSent"`
}

// AuthService handles login, registration and logout
type AuthService struct {
	api      API
	sessions SessionWriter
	log      zerolog.Logger

	quickLogin bool
	accounts   map[models.Role]config.Credentials
}

type AuthOption func(*AuthService)

// WithQuickLogin enables the development shortcut that logs in with a
// configured account per role.
func WithQuickLogin(enabled bool, accounts map[string]config.Credentials) AuthOption {
	return func(s *AuthService) {
		s.quickLogin = enabled
		for name, creds := range accounts {
			if role, err := models.ParseRole(name); err == nil {
				s.accounts[role] = creds
			}
		}
	}
}

// NewAuthService creates a new authentication service
func NewAuthService(api API, sessions SessionWriter, log zerolog.Logger, opts ...AuthOption) *AuthService {
	s := &AuthService{
		api:      api,
		sessions: sessions,
		log:      log.With().Str("component", "auth").Logger(),
		accounts: make(map[models.Role]config.Credentials),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login authenticates against the API and commits the session on success.
// On failure the session store is left untouched.
func (s *AuthService) Login(ctx context.Context, email, password string) Result[models.User] {
	req := models.LoginRequest{Email: normalizeEmail(email), Password: password}

	var resp models.LoginResponse
	if err := s.api.Post(ctx, "/Auth/login", req, &resp); err != nil {
		return Result[models.User]{Message: loginMessage(err), Kind: apiclient.KindOf(err)}
	}

	if !resp.Success || resp.Token == "" || resp.User == nil {
		msg := resp.Message
		if msg == "" {
			msg = MsgLoginFailed
		}
		return Result[models.User]{Message: msg, Kind: apiclient.KindAuthentication}
	}

	if err := s.sessions.Commit(ctx, session.Session{Token: resp.Token, User: *resp.User}); err != nil {
		if errors.Is(err, session.ErrUnknownRole) {
			s.log.Warn().Str("role", string(resp.User.Role)).Msg("Login returned a role the station does not know")
			return Result[models.User]{Message: MsgUnknownRole, Kind: apiclient.KindAuthentication}
		}
		s.log.Error().Err(err).Msg("Failed to commit session")
		return Result[models.User]{Message: MsgSessionSaveFailed}
	}

	return ok(*resp.User, "¡Bienvenido "+resp.User.FullName+"!")
}

func loginMessage(err error) string {
	switch apiclient.KindOf(err) {
	case apiclient.KindAuthentication, apiclient.KindSessionExpired:
		return MsgInvalidCredentials
	case apiclient.KindNotFound:
		return MsgUserNotFound
	case apiclient.KindBadRequest:
		if msg := apiclient.MessageOf(err); msg != "" {
			return "Datos inválidos: " + msg
		}
		return "Datos inválidos: " + MsgInvalidLogin
	case apiclient.KindTimeout:
		return MsgTimeout
	case apiclient.KindNetwork:
		return MsgNetwork
	default:
		return MsgLoginFailed
	}
}

// Register creates an account. It never authenticates the caller.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) Result[Registration] {
	return register(ctx, s.api, req)
}

func register(ctx context.Context, api API, req models.RegisterRequest) Result[Registration] {
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = normalizeEmail(req.Email)

	var resp models.RegisterResponse
	if err := api.Post(ctx, "/Auth/register", req, &resp); err != nil {
		res := Result[Registration]{Kind: apiclient.KindOf(err)}
		switch res.Kind {
		case apiclient.KindBadRequest, apiclient.KindConflict:
			res.Message = apiclient.MessageOf(err)
			if res.Message == "" {
				res.Message = MsgRegisterInvalid
			}
		case apiclient.KindTimeout:
			res.Message = MsgTimeout
		case apiclient.KindNetwork:
			res.Message = MsgNetwork
		default:
			res.Message = MsgRegisterFailed + ": " + Describe(err)
		}
		return res
	}

	if !resp.Success {
		msg := resp.Message
		if msg == "" {
			msg = MsgRegisterFailed
		}
		return Result[Registration]{Message: msg}
	}

	reg := Registration{EmailSent: resp.EmailNotification != nil && resp.EmailNotification.Sent}
	return ok(reg, "¡Registro exitoso! Bienvenido a El Criollo "+req.FullName)
}

// Logout clears the session and sends the UI to the login route.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.sessions.Clear(ctx)
}

// QuickLogin logs in with the configured development account for role.
func (s *AuthService) QuickLogin(ctx context.Context, role models.Role) Result[models.User] {
	if !s.quickLogin {
		return Result[models.User]{Message: MsgQuickLoginDisabled}
	}
	creds, found := s.accounts[role]
	if !found {
		return Result[models.User]{Message: MsgQuickLoginDisabled + " para " + string(role)}
	}
	return s.Login(ctx, creds.Email, creds.Password)
}

// QuickLoginRoles lists the roles with a configured development account.
func (s *AuthService) QuickLoginRoles() []models.Role {
	if !s.quickLogin {
		return nil
	}
	var out []models.Role
	for _, r := range models.Roles {
		if _, found := s.accounts[r]; found {
			out = append(out, r)
		}
	}
	return out
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
