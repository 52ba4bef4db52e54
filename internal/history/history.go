package history

import (
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Render is one finished render.
type Render struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time

	Scene        string `gorm:"size:64"`
	Key          string `gorm:"size:16;index"`
	Width        int
	Height       int
	SamplesPerPx int
	MaxDepth     int
	// Seed holds the uint64 render seed bit for bit; sqlite has no unsigned integers.
	Seed     int64
	Shading  string `gorm:"size:16"`
	Duration time.Duration
	Output   string
	Cached   bool
}

// Store is a sqlite-backed log of renders.
type Store struct {
	db *gorm.DB
}

func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open history %s: %w", path, err)
	}
	if err := db.AutoMigrate(&Render{}); err != nil {
		return nil, fmt.Errorf("migrate history: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Record(r *Render) error {
	if err := s.db.Create(r).Error; err != nil {
		return fmt.Errorf("record render: %w", err)
	}
	return nil
}

// Recent returns up to limit renders, newest first.
func (s *Store) Recent(limit int) ([]Render, error) {
	var out []Render
	if err := s.db.Order("id desc").Limit(limit).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list renders: %w", err)
	}
	return out, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
