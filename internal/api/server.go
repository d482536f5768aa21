package api

import (
	"fmt"
	"time"

	"barrage-board/internal/auth"
	"barrage-board/internal/config"
	"barrage-board/internal/dashboard"
	"barrage-board/internal/database"
)

type Server struct {
	config   *config.Config
	store    *database.Store
	tokens   *auth.TokenService
	reports  *dashboard.Engine
	location *time.Location
}

func NewServer(cfg *config.Config, store *database.Store, tokens *auth.TokenService) (*Server, error) {
	loc, err := cfg.Barrage.Location()
	if err != nil {
		return nil, fmt.Errorf("loading report timezone: %w", err)
	}

	return &Server{
		config:   cfg,
		store:    store,
		tokens:   tokens,
		reports:  dashboard.NewEngine(cfg.Barrage.Timezone, cfg.Barrage.RoomID),
		location: loc,
	}, nil
}
