// Package store keeps the registry of uploaded datasets.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/saqibullah/diagnosify/config"
)

var ErrNotFound = errors.New("dataset not found")

// Dataset is the record kept for every accepted upload.
type Dataset struct {
	ID          string    `json:"id" gorm:"type:uuid;primaryKey"`
	Name        string    `json:"name" gorm:"type:varchar(255)"`
	Description string    `json:"description" gorm:"type:text"`
	Filename    string    `json:"filename" gorm:"type:varchar(255);not null"`
	Rows        int       `json:"rows" gorm:"not null"`
	Columns     []string  `json:"columns" gorm:"serializer:json;type:jsonb"`
	UploadedAt  time.Time `json:"uploaded_at" gorm:"not null;index"`
}

type Store interface {
	// Save assigns an ID and upload time when they are unset.
	Save(ctx context.Context, d *Dataset) error
	Get(ctx context.Context, id string) (*Dataset, error)
	// List returns datasets oldest first.
	List(ctx context.Context) ([]Dataset, error)
	Close() error
}

// Open returns the store selected by cfg.Store.Driver.
func Open(cfg *config.Config) (Store, error) {
	switch cfg.Store.Driver {
	case "bolt", "":
		return OpenBolt(cfg.Store.BoltPath)
	case "postgres":
		return OpenPostgres(cfg.Database)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
