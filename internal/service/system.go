package service

import (
	"context"
	"time"

	"github.com/elcriollo/station-frontend/internal/gate"
	"github.com/elcriollo/station-frontend/internal/models"
)

// SystemInfo describes the station and its link to the API.
type SystemInfo struct {
	Online    bool         `json:"online"`
	Message   string       `json:"message"`
	BaseURL   string       `json:"baseUrl"`
	State     string       `json:"state"`
	User      *models.User `json:"user,omitempty"`
	CheckedAt time.Time    `json:"checkedAt"`
}

// SystemService probes API reachability.
type SystemService struct {
	api      API
	sessions gate.SessionReader
	now      func() time.Time
}

func NewSystemService(api API, sessions gate.SessionReader) *SystemService {
	return &SystemService{api: api, sessions: sessions, now: time.Now}
}

// Info lists the products as a reachability probe.
func (s *SystemService) Info(ctx context.Context) SystemInfo {
	info := SystemInfo{
		BaseURL:   s.api.BaseURL(),
		State:     s.sessions.State().String(),
		CheckedAt: s.now().UTC(),
	}
	if cur, ok := s.sessions.Current(); ok {
		u := cur.User
		info.User = &u
	}

	var list models.MenuList
	if err := s.api.Get(ctx, "/products", nil, &list); err != nil {
		info.Message = "Sin conexión con El Criollo: " + Describe(err)
		return info
	}
	info.Online = true
	info.Message = "Conectado con El Criollo"
	return info
}
