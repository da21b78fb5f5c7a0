package storage

import (
	"database/sql"
	"errors"
	"fmt"
)

// Preference keys.
const (
	PrefDataDir = "data_dir"
)

// Pref returns a stored preference and whether it exists.
func (s *Store) Pref(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM prefs WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("storage: cannot read pref %q: %w", key, err)
	}
	return value, true, nil
}

// SetPref stores a preference, replacing any previous value.
func (s *Store) SetPref(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO prefs (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save pref %q: %w", key, err)
	}
	return nil
}

// DeletePref removes a preference. Removing a missing key is not an error.
func (s *Store) DeletePref(key string) error {
	if _, err := s.db.Exec("DELETE FROM prefs WHERE key = ?", key); err != nil {
		return fmt.Errorf("storage: cannot delete pref %q: %w", key, err)
	}
	return nil
}

// Prefs returns all preferences.
func (s *Store) Prefs() (map[string]string, error) {
	rows, err := s.db.Query("SELECT key, value FROM prefs ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query prefs: %w", err)
	}
	defer rows.Close()

	prefs := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		prefs[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return prefs, nil
}

// ClearPrefs deletes all preferences.
func (s *Store) ClearPrefs() error {
	if _, err := s.db.Exec("DELETE FROM prefs"); err != nil {
		return fmt.Errorf("storage: cannot clear prefs: %w", err)
	}
	return nil
}

// DataDir returns the remembered game data directory, or empty.
func (s *Store) DataDir() (string, error) {
	dir, _, err := s.Pref(PrefDataDir)
	return dir, err
}

// SaveDataDir remembers the game data directory.
func (s *Store) SaveDataDir(dir string) error {
	return s.SetPref(PrefDataDir, dir)
}
