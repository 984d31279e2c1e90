package queue

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/galeria/pkg/logger"
)

// FailedJobRecord is the row written for every job that exhausts its
// retries. The table is created by `galeria migrate`.
type FailedJobRecord struct {
	ID       uint      `gorm:"primaryKey;autoIncrement"`
	JobType  string    `gorm:"size:255;not null;index"`
	Payload  string    `gorm:"type:text;not null"`
	Error    string    `gorm:"type:text"`
	Attempts int       `gorm:"not null;default:0"`
	FailedAt time.Time `gorm:"not null;index"`
}

func (FailedJobRecord) TableName() string { return "failed_jobs" }

type failedStore interface {
	save(ctx context.Context, rec *FailedJobRecord) error
}

type gormFailedStore struct{ db *gorm.DB }

func (s gormFailedStore) save(ctx context.Context, rec *FailedJobRecord) error {
	return s.db.WithContext(ctx).Create(rec).Error
}

// UseDB persists failures to the failed_jobs table in addition to the
// in-memory list. Pass nil to stop persisting.
func (m *Manager) UseDB(db *gorm.DB) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if db == nil {
		m.store = nil
		return
	}
	m.store = gormFailedStore{db: db}
}

func UseDB(db *gorm.DB) { std.UseDB(db) }

func (m *Manager) persistFailed(ctx context.Context, f FailedJob) {
	m.mu.Lock()
	m.failed = append(m.failed, f)
	store := m.store
	m.mu.Unlock()

	if store == nil {
		return
	}

	msg := ""
	if f.Err != nil {
		msg = f.Err.Error()
	}
	rec := &FailedJobRecord{
		JobType:  f.Type,
		Payload:  string(f.Payload),
		Error:    msg,
		Attempts: f.Attempts,
		FailedAt: f.FailedAt,
	}
	if err := store.save(context.WithoutCancel(ctx), rec); err != nil {
		logger.Error("queue: persist failed job", "type", f.Type, "error", err)
	}
}
