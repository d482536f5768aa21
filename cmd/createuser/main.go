// Command createuser seeds a dashboard account, typically the first one.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"time"

	"barrage-board/internal/auth"
	"barrage-board/internal/config"
	"barrage-board/internal/database"
	"barrage-board/internal/logging"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	username := flag.String("username", "", "account name")
	password := flag.String("password", os.Getenv("CREATEUSER_PASSWORD"), "account password (or CREATEUSER_PASSWORD)")
	inactive := flag.Bool("inactive", false, "create the account disabled")
	flag.Parse()

	logging.Init(logging.Config{Level: "info", Format: "console", Output: os.Stderr})

	if *username == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("cannot load configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(ctx, cfg.DB.ConnString(), cfg.Barrage.Table); err != nil {
			logging.Fatal().Err(err).Msg("cannot migrate database")
		}
	}

	pool, err := pgxpool.New(ctx, cfg.DB.ConnString())
	if err != nil {
		logging.Fatal().Err(err).Msg("cannot connect to database")
	}
	defer pool.Close()

	hash, err := auth.HashPassword(*password)
	if err != nil {
		logging.Fatal().Err(err).Msg("cannot hash password")
	}

	store := database.NewStore(pool, cfg.Barrage.Table)
	user, err := store.CreateUser(ctx, database.CreateUserParams{
		Username:       *username,
		HashedPassword: hash,
		IsActive:       !*inactive,
	})
	if errors.Is(err, database.ErrUsernameTaken) {
		logging.Fatal().Str("username", *username).Msg("username already exists")
	}
	if err != nil {
		logging.Fatal().Err(err).Msg("cannot create user")
	}

	logging.Info().
		Str("id", user.ID.String()).
		Str("username", user.Username).
		Bool("active", user.IsActive).
		Msg("user created")
}
