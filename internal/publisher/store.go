package publisher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ivoronin/certexpiry/internal/certificate"
)

// StateRecord is one published snapshot in the state history.
type StateRecord struct {
	ID          uint      `gorm:"primaryKey"`
	Entity      string    `gorm:"index;not null"`
	State       string    `gorm:"not null"`
	Kind        string    `gorm:"not null"`
	Path        string
	Subject     string
	Issuer      string
	Fingerprint string
	NotBefore   *time.Time
	NotAfter    *time.Time
	Alert       bool
	Trigger     string
	Error       string
	RefreshedAt time.Time `gorm:"index;not null"`
	CreatedAt   time.Time
}

// TableName returns the history table name.
func (StateRecord) TableName() string {
	return "state_records"
}

// ParsedState returns the recorded state.
func (r StateRecord) ParsedState() (certificate.State, error) {
	return certificate.ParseState(r.State)
}

// ErrNoRecord is returned when an entity has no recorded state.
var ErrNoRecord = errors.New("no state recorded")

// StorePublisher keeps a history of snapshots in a database.
// Records older than retention are pruned on publish; 0 keeps everything.
type StorePublisher struct {
	db        *gorm.DB
	retention time.Duration
}

// OpenSQLite opens (creating if needed) the SQLite database at path.
func OpenSQLite(path string) (*gorm.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	return db, nil
}

// NewStorePublisher creates a StorePublisher and migrates its table.
func NewStorePublisher(db *gorm.DB, retention time.Duration) (*StorePublisher, error) {
	if db == nil {
		return nil, errors.New("database is required")
	}
	if err := db.AutoMigrate(&StateRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate state_records table: %w", err)
	}
	return &StorePublisher{db: db, retention: retention}, nil
}

// Publish appends the snapshot to the history.
func (p *StorePublisher) Publish(ctx context.Context, s Snapshot) error {
	record := StateRecord{
		Entity:      s.Entity,
		State:       s.State.String(),
		Kind:        s.State.Kind.String(),
		Path:        s.Path,
		Subject:     s.Attributes.Subject.String(),
		Issuer:      s.Attributes.Issuer.String(),
		NotBefore:   s.Attributes.StartDate,
		NotAfter:    s.Attributes.EndDate,
		Alert:       s.Alert,
		Trigger:     s.Trigger,
		Error:       s.Error,
		RefreshedAt: s.RefreshedAt,
	}
	if s.Attributes.Fingerprint != nil {
		record.Fingerprint = *s.Attributes.Fingerprint
	}

	if err := p.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("failed to store state: %w", err)
	}

	if p.retention > 0 {
		if _, err := p.Prune(ctx, s.Entity, s.RefreshedAt.Add(-p.retention)); err != nil {
			return err
		}
	}
	return nil
}

// Latest returns the most recent record of entity.
func (p *StorePublisher) Latest(ctx context.Context, entity string) (*StateRecord, error) {
	var record StateRecord
	err := p.db.WithContext(ctx).
		Where("entity = ?", entity).
		Order("refreshed_at DESC, id DESC").
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w for %s", ErrNoRecord, entity)
		}
		return nil, fmt.Errorf("failed to query state: %w", err)
	}
	return &record, nil
}

// History returns up to limit records of entity, newest first.
func (p *StorePublisher) History(ctx context.Context, entity string, limit int) ([]StateRecord, error) {
	var records []StateRecord
	q := p.db.WithContext(ctx).
		Where("entity = ?", entity).
		Order("refreshed_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to query state history: %w", err)
	}
	return records, nil
}

// Prune deletes records of entity refreshed before cutoff.
func (p *StorePublisher) Prune(ctx context.Context, entity string, cutoff time.Time) (int64, error) {
	res := p.db.WithContext(ctx).
		Where("entity = ? AND refreshed_at < ?", entity, cutoff).
		Delete(&StateRecord{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to prune state history: %w", res.Error)
	}
	return res.RowsAffected, nil
}
