package db

import (
	"database/sql"

	"github.com/ad/go-telegram-practice/internal/models"
)

type HistoryRepository struct {
	queue *Queue
}

func NewHistoryRepository(queue *Queue) *HistoryRepository {
	return &HistoryRepository{queue: queue}
}

func (r *HistoryRepository) Add(entry *models.HistoryEntry) error {
	var rating sql.NullInt64
	if entry.Rating != nil {
		rating = sql.NullInt64{Int64: int64(*entry.Rating), Valid: true}
	}

	_, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		_, err := db.Exec(`
			INSERT INTO history (chat_id, contest_id, problem_index, name, rating)
			VALUES (?, ?, ?, ?, ?)
		`, entry.ChatID, entry.ContestID, entry.ProblemIndex, entry.Name, rating)
		return nil, err
	})
	return err
}

// Recent returns up to limit entries for the chat, newest first. Ties
// on the second-resolution timestamp are broken by insert order.
func (r *HistoryRepository) Recent(chatID int64, limit int) ([]*models.HistoryEntry, error) {
	result, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		rows, err := db.Query(`
			SELECT id, chat_id, contest_id, problem_index, name, rating, created_at
			FROM history
			WHERE chat_id = ?
			ORDER BY created_at DESC, id DESC
			LIMIT ?
		`, chatID, limit)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var entries []*models.HistoryEntry
		for rows.Next() {
			var entry models.HistoryEntry
			var rating sql.NullInt64
			if err := rows.Scan(&entry.ID, &entry.ChatID, &entry.ContestID, &entry.ProblemIndex, &entry.Name, &rating, &entry.CreatedAt); err != nil {
				return nil, err
			}
			if rating.Valid {
				v := int(rating.Int64)
				entry.Rating = &v
			}
			entries = append(entries, &entry)
		}
		return entries, rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return result.([]*models.HistoryEntry), nil
}
