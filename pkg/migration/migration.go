// Package migration runs versioned gorm migrations and records them in the
// schema_migrations table.
//
//	func init() {
//	    migration.Register(migration.GroupStore, "20260101000000_create_catalog_tables", &CreateCatalogTables{})
//	}
//
// Migrations belong to a group so a deployment can run only the tables it
// owns: with STORE_DRIVER=mongo only GroupQueue (failed_jobs) lives in SQL.
package migration

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/galeria/pkg/logger"
)

const (
	GroupStore = "store"
	GroupQueue = "queue"
)

// Migration is implemented by every migration.
type Migration interface {
	Up(tx *gorm.DB) error
	Down(tx *gorm.DB) error
}

type record struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"not null"`
}

func (record) TableName() string { return "schema_migrations" }

type registered struct {
	group string
	name  string
	m     Migration
}

var (
	regMu    sync.Mutex
	registry []registered
)

// Register adds a migration. Names must sort chronologically.
func Register(group, name string, m Migration) {
	regMu.Lock()
	defer regMu.Unlock()
	registry = append(registry, registered{group: group, name: name, m: m})
}

// Status is one row of `galeria migrate:status`.
type Status struct {
	Name  string
	Group string
	Ran   bool
	Batch int
}

// Runner applies the migrations of the selected groups.
type Runner struct {
	db     *gorm.DB
	groups map[string]bool
}

func New(db *gorm.DB, groups ...string) *Runner {
	set := make(map[string]bool, len(groups))
	for _, g := range groups {
		set[g] = true
	}
	return &Runner{db: db, groups: set}
}

func (r *Runner) selected() []registered {
	regMu.Lock()
	defer regMu.Unlock()
	var out []registered
	for _, reg := range registry {
		if r.groups[reg.group] {
			out = append(out, reg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

func (r *Runner) ensureTable(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&record{}); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}
	return nil
}

func (r *Runner) ran(ctx context.Context) (map[string]record, error) {
	var rows []record
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("migration: load history: %w", err)
	}
	out := make(map[string]record, len(rows))
	for _, row := range rows {
		out[row.Name] = row
	}
	return out, nil
}

// Run applies pending migrations as one batch and returns their names.
// Each migration and its history row commit in one transaction.
func (r *Runner) Run(ctx context.Context) ([]string, error) {
	if err := r.ensureTable(ctx); err != nil {
		return nil, err
	}
	done, err := r.ran(ctx)
	if err != nil {
		return nil, err
	}

	batch, err := r.lastBatch(ctx)
	if err != nil {
		return nil, err
	}
	batch++

	var applied []string
	for _, reg := range r.selected() {
		if _, ok := done[reg.name]; ok {
			continue
		}
		logger.Info("migration: running", "name", reg.name)
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := reg.m.Up(tx); err != nil {
				return err
			}
			return tx.Create(&record{Name: reg.name, Batch: batch, RunAt: time.Now().UTC()}).Error
		})
		if err != nil {
			return applied, fmt.Errorf("migration: %s up: %w", reg.name, err)
		}
		applied = append(applied, reg.name)
	}

	logger.Info("migration: done", "ran", len(applied), "batch", batch)
	return applied, nil
}

// Rollback reverts the most recent batch and returns the reverted names.
func (r *Runner) Rollback(ctx context.Context) ([]string, error) {
	if err := r.ensureTable(ctx); err != nil {
		return nil, err
	}
	batch, err := r.lastBatch(ctx)
	if err != nil || batch == 0 {
		return nil, err
	}

	var rows []record
	if err := r.db.WithContext(ctx).Where("batch = ?", batch).Order("name desc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("migration: load batch %d: %w", batch, err)
	}

	known := make(map[string]Migration)
	for _, reg := range r.selected() {
		known[reg.name] = reg.m
	}

	var reverted []string
	for _, row := range rows {
		m, ok := known[row.Name]
		if !ok {
			return reverted, fmt.Errorf("migration: cannot roll back %s: not registered", row.Name)
		}
		logger.Info("migration: rolling back", "name", row.Name)
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := m.Down(tx); err != nil {
				return err
			}
			return tx.Delete(&record{}, row.ID).Error
		})
		if err != nil {
			return reverted, fmt.Errorf("migration: %s down: %w", row.Name, err)
		}
		reverted = append(reverted, row.Name)
	}
	return reverted, nil
}

// Status lists every selected migration and whether it has run.
func (r *Runner) Status(ctx context.Context) ([]Status, error) {
	if err := r.ensureTable(ctx); err != nil {
		return nil, err
	}
	done, err := r.ran(ctx)
	if err != nil {
		return nil, err
	}

	var out []Status
	for _, reg := range r.selected() {
		row, ok := done[reg.name]
		out = append(out, Status{Name: reg.name, Group: reg.group, Ran: ok, Batch: row.Batch})
	}
	return out, nil
}

func (r *Runner) lastBatch(ctx context.Context) (int, error) {
	var last sql.NullInt64
	row := r.db.WithContext(ctx).Model(&record{}).Select("MAX(batch)").Row()
	if err := row.Scan(&last); err != nil {
		return 0, fmt.Errorf("migration: last batch: %w", err)
	}
	return int(last.Int64), nil
}
