package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
)

// kvEntry is one row of the moderator_kv table
type kvEntry struct {
	Path  string `gorm:"primary_key"`
	Value []byte `gorm:"type:blob"`
}

// TableName pins the table name so it does not depend on gorm's pluralization
func (kvEntry) TableName() string {
	return "moderator_kv"
}

// SQLite is a Store kept in a local sqlite file
type SQLite struct {
	db *gorm.DB
}

var _ Store = (*SQLite)(nil)

// OpenSQLite opens (or creates) the sqlite database at path and migrates the kv table
func OpenSQLite(path string) (*SQLite, error) {
	db, err := gorm.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("store: opening sqlite %q: %w", path, err)
	}
	// sqlite only supports one writer
	db.DB().SetMaxOpenConns(1)

	if err := db.AutoMigrate(&kvEntry{}).Error; err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: migrating sqlite: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Get(_ context.Context, key string) ([]byte, error) {
	var entry kvEntry
	err := s.db.Where(&kvEntry{Path: key}).First(&entry).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return entry.Value, nil
}

func (s *SQLite) Set(_ context.Context, key string, value []byte) error {
	return s.db.Save(&kvEntry{Path: key, Value: value}).Error
}

func (s *SQLite) Delete(_ context.Context, key string) (bool, error) {
	res := s.db.Where("path = ? OR path LIKE ? ESCAPE '\\'", key, escapeLike(key)+".%").Delete(&kvEntry{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *SQLite) Keys(_ context.Context, prefix string) ([]string, error) {
	var keys []string
	q := s.db.Model(&kvEntry{}).Order("path")
	if prefix != "" {
		q = q.Where("path = ? OR path LIKE ? ESCAPE '\\'", prefix, escapeLike(prefix)+".%")
	}
	if err := q.Pluck("path", &keys).Error; err != nil {
		return nil, err
	}
	return keys, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
