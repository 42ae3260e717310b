package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/example/room-tracker/internal/application"
)

type accountSeed struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func loadSeeds(path string) ([]application.AccountSeed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var rows []accountSeed
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}

	seeds := make([]application.AccountSeed, 0, len(rows))
	for _, row := range rows {
		seeds = append(seeds, application.AccountSeed{
			Username: row.Username,
			Email:    row.Email,
			Password: row.Password,
			Role:     row.Role,
		})
	}
	return seeds, nil
}

func provisionFromFile(ctx context.Context, service *application.ProvisionService, path string, logger *slog.Logger) error {
	seeds, err := loadSeeds(path)
	if err != nil {
		return err
	}

	report, err := service.ProvisionAccounts(ctx, seeds)
	if err != nil {
		return err
	}

	logger.Info("seed accounts provisioned",
		"file", path,
		"created", report.Created,
		"updated", report.Updated,
	)
	return nil
}
