package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"helpdesk/internal/shared/logger"
)

// Generator handles creation of new migration files
type Generator struct {
	scriptsPath string
	logger      logger.Interface
}

// NewGenerator creates a new migration generator
func NewGenerator(scriptsPath string) *Generator {
	return &Generator{
		scriptsPath: scriptsPath,
		logger:      logger.NewLogger().With("component", "migration.generator"),
	}
}

// CreateMigration creates a new goose migration file with empty Up and
// Down sections.
func (g *Generator) CreateMigration(name string) error {
	g.logger.Infow("creating new migration", "name", name)

	timestamp := time.Now().Format("20060102150405")
	fileName := fmt.Sprintf("%s_%s.sql", timestamp, name)
	filePath := filepath.Join(g.scriptsPath, fileName)

	if err := os.MkdirAll(g.scriptsPath, 0755); err != nil {
		return fmt.Errorf("failed to create scripts directory: %w", err)
	}

	content := g.generateTemplate(name)
	if err := os.WriteFile(filePath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to create migration file: %w", err)
	}

	g.logger.Infow("migration file created successfully", "file", filePath)
	return nil
}

func (g *Generator) generateTemplate(name string) string {
	return fmt.Sprintf(`-- Migration: %s
-- Created: %s

-- +goose Up
-- +goose StatementBegin
-- Add your up migration SQL here
-- +goose StatementEnd

-- +goose Down
-- +goose StatementBegin
-- Add your down migration SQL here
-- +goose StatementEnd
`, name, time.Now().Format(time.RFC3339))
}
