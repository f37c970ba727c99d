package migrations

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/vladimiradmaev/footprint-helper/internal/logger"
	"gorm.io/gorm"
)

//go:embed *.sql
var sqlFiles embed.FS

// Migration represents a forward-only database migration
type Migration struct {
	ID string
	Up func(*gorm.DB) error
}

// Registry holds migrations keyed by ID; IDs sort in execution order
type Registry struct {
	migrations map[string]Migration
}

// NewRegistry returns a registry preloaded with the embedded SQL migrations
func NewRegistry() (*Registry, error) {
	r := &Registry{migrations: make(map[string]Migration)}
	if err := r.LoadSQL(sqlFiles); err != nil {
		return nil, err
	}
	return r, nil
}

// Register adds a new migration to the registry
func (r *Registry) Register(id string, up func(*gorm.DB) error) {
	r.migrations[id] = Migration{ID: id, Up: up}
}

// IDs returns the registered migration IDs in execution order
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.migrations))
	for id := range r.migrations {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// LoadSQL registers every *.sql file at the root of fsys as an up-only migration
func (r *Registry) LoadSQL(fsys fs.FS) error {
	files, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}
		content, err := fs.ReadFile(fsys, file.Name())
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file.Name(), err)
		}
		statement := string(content)
		r.Register(strings.TrimSuffix(file.Name(), ".sql"), func(db *gorm.DB) error {
			return db.Exec(statement).Error
		})
	}
	return nil
}

// MigrationRecord represents a record of executed migrations
type MigrationRecord struct {
	ID        string `gorm:"primaryKey"`
	CreatedAt int64  `gorm:"autoCreateTime"`
}

// Run executes all pending migrations
func (r *Registry) Run(db *gorm.DB) error {
	if err := db.AutoMigrate(&MigrationRecord{}); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	var executed []MigrationRecord
	if err := db.Find(&executed).Error; err != nil {
		return fmt.Errorf("failed to get executed migrations: %w", err)
	}
	done := make(map[string]bool, len(executed))
	for _, m := range executed {
		done[m.ID] = true
	}

	for _, id := range r.IDs() {
		if done[id] {
			continue
		}
		logger.Info("Running migration", "id", id)
		if err := r.migrations[id].Up(db); err != nil {
			return fmt.Errorf("failed to run migration %s: %w", id, err)
		}
		if err := db.Create(&MigrationRecord{ID: id}).Error; err != nil {
			return fmt.Errorf("failed to record migration %s: %w", id, err)
		}
		logger.Info("Completed migration", "id", id)
	}
	return nil
}
