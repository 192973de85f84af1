package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/reviewnag/internal/models"
	"github.com/julianstephens/reviewnag/internal/storage"
)

const entryColumns = `id, tag, title, body, item_id, scheduled_time, acknowledged, acknowledged_at, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (models.ScheduleEntry, error) {
	var entry models.ScheduleEntry
	var ackAt sql.NullTime

	if err := row.Scan(
		&entry.ID, &entry.Tag, &entry.Title, &entry.Body, &entry.ItemID,
		&entry.ScheduledTime, &entry.Acknowledged, &ackAt, &entry.CreatedAt,
	); err != nil {
		return models.ScheduleEntry{}, err
	}
	if ackAt.Valid {
		t := ackAt.Time
		entry.AcknowledgedAt = &t
	}
	return entry, nil
}

func (s *Store) AddEntry(entry models.ScheduleEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	_, err := s.db.Exec(`
		INSERT INTO schedule_entries (`+entryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		entry.ID, entry.Tag, entry.Title, entry.Body, entry.ItemID,
		entry.ScheduledTime.UTC(), entry.Acknowledged, entry.AcknowledgedAt, entry.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert entry: %w", err)
	}
	return nil
}

func (s *Store) GetEntry(tag string) (models.ScheduleEntry, error) {
	row := s.db.QueryRow(`
		SELECT `+entryColumns+`
		FROM schedule_entries
		WHERE tag = $1
		ORDER BY scheduled_time DESC, seq DESC
		LIMIT 1
	`, tag)

	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ScheduleEntry{}, storage.ErrNotFound
	}
	if err != nil {
		return models.ScheduleEntry{}, fmt.Errorf("failed to get entry: %w", err)
	}
	return entry, nil
}

func (s *Store) GetAllEntries() ([]models.ScheduleEntry, error) {
	rows, err := s.db.Query(`
		SELECT ` + entryColumns + `
		FROM schedule_entries
		ORDER BY scheduled_time ASC, seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []models.ScheduleEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entries: %w", err)
	}
	return entries, nil
}

func (s *Store) AcknowledgeEntry(tag string, at time.Time) error {
	result, err := s.db.Exec(`
		UPDATE schedule_entries
		SET acknowledged = TRUE, acknowledged_at = COALESCE(acknowledged_at, $1)
		WHERE seq = (
			SELECT seq FROM schedule_entries
			WHERE tag = $2
			ORDER BY scheduled_time DESC, seq DESC
			LIMIT 1
		)
	`, at.UTC(), tag)
	if err != nil {
		return fmt.Errorf("failed to acknowledge entry: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}
