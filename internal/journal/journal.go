package journal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var ErrUnsupportedDriver = errors.New("unsupported journal driver")

// Entry is one line the extractor wrote to its error stream.
type Entry struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Line       string    `gorm:"type:text;not null" json:"line"`
	ReceivedAt time.Time `gorm:"index;not null" json:"received_at"`
}

func (Entry) TableName() string { return "diagnostic_lines" }

// Journal persists extractor diagnostics so operators can see relay-side
// failures after the fact. Player snapshots are never stored.
type Journal struct {
	db  *gorm.DB
	now func() time.Time
}

// Open connects with driver "postgres" or "sqlite" and migrates the schema.
func Open(driver, dsn string) (*Journal, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("migrate journal: %w", err)
	}
	return &Journal{db: db, now: time.Now}, nil
}

func (j *Journal) Record(ctx context.Context, line string) error {
	e := Entry{Line: line, ReceivedAt: j.now().UTC()}
	if err := j.db.WithContext(ctx).Create(&e).Error; err != nil {
		return fmt.Errorf("record diagnostic: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	var out []Entry
	err := j.db.WithContext(ctx).
		Order("received_at desc").Order("id desc").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("recent diagnostics: %w", err)
	}
	return out, nil
}

func (j *Journal) Close() error {
	sqlDB, err := j.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
