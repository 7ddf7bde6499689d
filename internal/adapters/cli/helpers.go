package cli

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/colony-go/internal/infrastructure/config"
	"github.com/andrescamacho/colony-go/internal/infrastructure/database"
)

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// openDatabase connects and makes sure the colony tables exist
func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

// resolveRoom picks the explicit room, falling back to the user default
func resolveRoom(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	handler, err := config.NewUserConfigHandler()
	if err != nil {
		return "", err
	}
	userCfg, err := handler.Load()
	if err != nil {
		return "", err
	}
	return userCfg.DefaultRoom, nil
}
