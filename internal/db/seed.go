package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SeedDemo populates the database with a demo history for userID: a streak
// of days consecutive victories ending on the day of now, one daily record
// per day and a handful of trigger events.
func SeedDemo(database *sql.DB, userID string, days int, now time.Time) error {
	if days < 1 {
		return fmt.Errorf("seed needs at least one day (got %d)", days)
	}
	const layout = "2006-01-02"
	today := now.Format(layout)
	start := now.AddDate(0, 0, -(days - 1))

	tx, err := database.Begin()
	if err != nil {
		return fmt.Errorf("seed: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO streak_states (user_id, current_streak, longest_streak, last_check_in_date, streak_started_at)
		 VALUES (?, ?, ?, ?, ?)`,
		userID, days, days, today, start.Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("seed streak state: %w", err)
	}

	for _, threshold := range []int{3, 7, 15, 30, 60, 90, 180, 365} {
		if threshold > days {
			break
		}
		if _, err := tx.Exec(
			"INSERT INTO achievements (user_id, achievement_id) VALUES (?, ?)",
			userID, fmt.Sprintf("streak_%dd", threshold),
		); err != nil {
			return fmt.Errorf("seed achievements: %w", err)
		}
	}

	// Habits rotate so the series shows a mix of partial and perfect days.
	habits := []string{"meditar", "exercicio", "leitura"}
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i)
		done := habits[:1+i%len(habits)]
		ids, _ := json.Marshal(done)
		pct := (100*len(done) + len(habits)/2) / len(habits)
		if _, err := tx.Exec(
			`INSERT INTO daily_records (user_id, date_key, completed_habit_ids, completed_count, total_habits, percentage)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			userID, day.Format(layout), string(ids), len(done), len(habits), pct,
		); err != nil {
			return fmt.Errorf("seed daily records: %w", err)
		}
	}

	triggers := []struct {
		emotion, context, slot string
		intensity, offset, hour int
	}{
		{"Estresse", "Trabalho", "Tarde", 4, 0, 15},
		{"Tédio", "Em casa", "Noite", 2, 1, 21},
		{"Estresse", "Redes sociais", "Noite", 3, 2, 23},
		{"Solidão", "Sozinho", "Madrugada", 5, 3, 2},
	}
	for _, tr := range triggers {
		if tr.offset >= days {
			continue
		}
		day := start.AddDate(0, 0, tr.offset)
		at := time.Date(day.Year(), day.Month(), day.Day(), tr.hour, 0, 0, 0, now.Location())
		if _, err := tx.Exec(
			`INSERT INTO trigger_events (id, user_id, emotion, context, intensity, kind, date_key, time_slot, day_number, created_at)
			 VALUES (?, ?, ?, ?, ?, 'urgency', ?, ?, ?, ?)`,
			uuid.NewString(), userID, tr.emotion, tr.context, tr.intensity,
			day.Format(layout), tr.slot, tr.offset+1, at.Format(time.RFC3339),
		); err != nil {
			return fmt.Errorf("seed trigger events: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed: commit: %w", err)
	}
	return nil
}
