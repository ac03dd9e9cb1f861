package logger

import (
	"go.uber.org/zap"

	"github.com/MarcoGiova99/tutor/internal/config"
)

func New(cfg *config.Config) (*zap.Logger, error) {
	if cfg.App.Env == "production" {
		return zap.NewProduction()
	}

	return zap.NewDevelopment()
}
