// Package sqlstore implements object.Backend on an embedded SQLite database,
// keeping every object of a repository in a single file.
package sqlstore

import (
	"errors"
	"fmt"

	"github.com/odvcencio/bgit/pkg/object"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// objectRow is one stored object: its hash and compressed envelope.
type objectRow struct {
	Hash string `gorm:"primaryKey;type:char(40)"`
	Data []byte `gorm:"not null"`
}

func (objectRow) TableName() string {
	return "objects"
}

// Backend stores objects in an SQLite table keyed by hash.
type Backend struct {
	db *gorm.DB
}

var _ object.Backend = (*Backend)(nil)

// Open opens (creating if needed) the database file at path and migrates the
// objects table.
func Open(path string) (*Backend, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("sqlstore open %s: %w", path, err)
	}
	b, err := NewWithConn(db)
	if err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			sqlDB.Close()
		}
		return nil, err
	}
	return b, nil
}

// NewWithConn wraps an existing gorm connection.
func NewWithConn(db *gorm.DB) (*Backend, error) {
	if err := db.AutoMigrate(&objectRow{}); err != nil {
		return nil, fmt.Errorf("sqlstore migrate: %w", err)
	}
	return &Backend{db: db}, nil
}

func (b *Backend) Has(h object.Hash) (bool, error) {
	var n int64
	if err := b.db.Model(&objectRow{}).Where("hash = ?", string(h)).Count(&n).Error; err != nil {
		return false, fmt.Errorf("sqlstore has %s: %w", h, err)
	}
	return n > 0, nil
}

func (b *Backend) ReadRaw(h object.Hash) ([]byte, error) {
	var row objectRow
	err := b.db.Where("hash = ?", string(h)).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("object read %s: %w", h, object.ErrObjectNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("object read %s: %w", h, err)
	}
	return row.Data, nil
}

// WriteRaw inserts the object; an existing row with the same hash is kept
// as is.
func (b *Backend) WriteRaw(h object.Hash, data []byte) error {
	row := objectRow{Hash: string(h), Data: data}
	err := b.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("object write %s: %w", h, err)
	}
	return nil
}

// Count returns the number of stored objects.
func (b *Backend) Count() (int64, error) {
	var n int64
	if err := b.db.Model(&objectRow{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("sqlstore count: %w", err)
	}
	return n, nil
}

func (b *Backend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
