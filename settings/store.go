// Package settings persists the one durable piece of session state:
// the dark-mode preference.
package settings

import (
	"context"
	"database/sql"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

const themeKey = "dark_mode"

type settingModel struct {
	bun.BaseModel `bun:"table:settings"`

	Key       string    `bun:"key,pk"`
	Value     bool      `bun:"value,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// Store reads and writes the theme preference. Absence of the row is
// not an error: the caller falls back to the ambient default.
type Store struct {
	db  *bun.DB
	now func() time.Time
}

// Open opens (creating if needed) the settings database at path. Use
// ":memory:" for tests.
func Open(ctx context.Context, path string) (*Store, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to open settings database").
			WithTextCode("SETTINGS_OPEN")
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())

	if _, err := db.NewCreateTable().Model((*settingModel)(nil)).IfNotExists().Exec(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to create settings table").
			WithTextCode("SETTINGS_MIGRATE")
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DarkMode returns the stored preference. ok is false when nothing has
// been persisted yet.
func (s *Store) DarkMode(ctx context.Context) (value, ok bool, err error) {
	if s == nil || s.db == nil {
		return false, false, errors.New("settings store is not configured", errors.CategoryInternal).
			WithTextCode("SETTINGS_NIL")
	}

	model := settingModel{}
	err = s.db.NewSelect().Model(&model).Where("key = ?", themeKey).Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, false, nil
		}
		return false, false, errors.Wrap(err, errors.CategoryInternal, "failed to read theme preference").
			WithTextCode("SETTINGS_READ")
	}
	return model.Value, true, nil
}

// SetDarkMode writes through on every toggle.
func (s *Store) SetDarkMode(ctx context.Context, value bool) error {
	if s == nil || s.db == nil {
		return errors.New("settings store is not configured", errors.CategoryInternal).
			WithTextCode("SETTINGS_NIL")
	}

	model := settingModel{Key: themeKey, Value: value, UpdatedAt: s.now()}
	_, err := s.db.NewInsert().
		Model(&model).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to write theme preference").
			WithTextCode("SETTINGS_WRITE")
	}
	return nil
}
