package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/MarcoGiova99/tutor/internal/config"
	"github.com/MarcoGiova99/tutor/internal/database"
	"github.com/MarcoGiova99/tutor/internal/logger"
	"github.com/MarcoGiova99/tutor/internal/questions"
)

var rootCmd = &cobra.Command{
	Use:   "tutorctl",
	Short: "Administration tool for the practice backend",
	Long: `tutorctl manages the practice database: schema migrations,
course roadmaps and the question bank of each level.`,
	SilenceUsage: true,
}

// env is what every database-backed command needs.
type env struct {
	cfg     *config.Config
	log     *zap.Logger
	cleanup func()
}

func loadEnv() (*env, error) {
	cfg, err := config.LoadForCLI()
	if err != nil {
		return nil, err
	}
	zlog, err := logger.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return &env{cfg: cfg, log: zlog, cleanup: func() { _ = zlog.Sync() }}, nil
}

// questionService connects to the database and wires the question service.
func questionService(ctx context.Context) (*questions.Service, func(), error) {
	e, err := loadEnv()
	if err != nil {
		return nil, nil, err
	}

	pool, err := database.Connect(ctx, e.cfg.DB.DSN, database.PoolConfig{MaxConns: 4})
	if err != nil {
		e.cleanup()
		return nil, nil, err
	}

	store := questions.NewStore(pool, database.NewTransactor(pool))
	cleanup := func() {
		pool.Close()
		e.cleanup()
	}
	return questions.NewService(store, e.log), cleanup, nil
}
