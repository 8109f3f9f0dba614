package service

import (
	"context"

	"github.com/elcriollo/station-frontend/internal/models"
)

// AccountService is user administration on behalf of an administrator.
type AccountService struct {
	api API
}

func NewAccountService(api API) *AccountService {
	return &AccountService{api: api}
}

func (s *AccountService) List(ctx context.Context) Result[[]models.User] {
	var users []models.User
	if err := s.api.Get(ctx, "/users", nil, &users); err != nil {
		return fail[[]models.User](err, "Error cargando usuarios")
	}
	return ok(users, "")
}

// Create registers a new account. The administrator's own session is not
// affected.
func (s *AccountService) Create(ctx context.Context, req models.RegisterRequest) Result[Registration] {
	res := register(ctx, s.api, req)
	if res.Success {
		res.Message = "Usuario " + normalizeEmail(req.Email) + " creado exitosamente"
	}
	return res
}

// FilterUsers returns the users with role; an empty role keeps all.
func FilterUsers(users []models.User, role models.Role) []models.User {
	if role == "" {
		return users
	}
	var out []models.User
	for _, u := range users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out
}

// CountByRole tallies users per role. Every known role is present.
func CountByRole(users []models.User) map[models.Role]int {
	counts := make(map[models.Role]int, len(models.Roles))
	for _, r := range models.Roles {
		counts[r] = 0
	}
	for _, u := range users {
		counts[u.Role]++
	}
	return counts
}
