package store

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/toshiba-abbus/acprocessor/internal/logging"
)

// Store is a SQLite-backed sink for packet and status rows. The zero value is
// not usable; construct one with Open.
type Store struct {
	db *sql.DB
}

// Open creates (if needed) and opens the SQLite database at path and ensures
// its schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// WritePacket appends a logged frame.
func (s *Store) WritePacket(row PacketRow) error {
	_, err := s.db.Exec(
		`INSERT INTO packet (recorded_at, direction, status, payload) VALUES (?, ?, ?, ?)`,
		row.RecordedAt, row.Direction, row.Status, row.Payload,
	)
	if err != nil {
		logging.Warn("failed to write packet row", zap.Error(err))
		return fmt.Errorf("store: write packet: %w", err)
	}
	return nil
}

// WriteStatus appends a status snapshot.
func (s *Store) WriteStatus(row StatusRow) error {
	_, err := s.db.Exec(
		`INSERT INTO status (
			recorded_at, power, mode, fan, setpoint, temp, save, humid,
			clean, filter, vent, pwr_lv1, pwr_lv2, filter_time
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		row.RecordedAt, row.Power, row.Mode, row.Fan, row.Setpoint, row.Temp,
		row.Save, row.Humid, row.Clean, row.Filter, row.Vent,
		row.PwrLv1, row.PwrLv2, row.FilterTime,
	)
	if err != nil {
		logging.Warn("failed to write status row", zap.Error(err))
		return fmt.Errorf("store: write status: %w", err)
	}
	return nil
}
