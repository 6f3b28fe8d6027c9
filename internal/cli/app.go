package cli

import (
	"fmt"

	"gorm.io/gorm"

	"roster/internal/config"
	"roster/internal/database"
	"roster/internal/service"
	"roster/internal/storage"
)

// App is the wired roster: storage, record store and controller.
type App struct {
	Config     *config.Config
	Controller *service.Controller

	db *gorm.DB
}

// OpenApp builds an App on the storage backend named by cfg.
func OpenApp(cfg *config.Config) (*App, error) {
	app := &App{Config: cfg}

	var kv storage.KV
	if cfg.Database.Driver == config.DriverMemory {
		kv = storage.NewMemory()
	} else {
		db, err := database.Open(cfg.Database)
		if err != nil {
			return nil, err
		}
		app.db = db
		kv = storage.NewGormKV(db)
	}

	app.Controller = service.NewController(service.NewRecordStore(kv, cfg.StorageKey))
	return app, nil
}

// Close releases the database connection, if any.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return sqlDB.Close()
}
