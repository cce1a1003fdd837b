package db

import (
	"database/sql"

	"github.com/ad/go-telegram-practice/internal/fsm"
	"github.com/ad/go-telegram-practice/internal/models"
)

type UserStateRepository struct {
	queue *Queue
}

func NewUserStateRepository(queue *Queue) *UserStateRepository {
	return &UserStateRepository{queue: queue}
}

// Get returns nil without error when the chat has no record yet, so
// first contact can be detected by the caller.
func (r *UserStateRepository) Get(chatID int64) (*models.UserState, error) {
	result, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		row := db.QueryRow(`
			SELECT chat_id, step, mode, rating, tag, index_letter, created_at
			FROM user_states WHERE chat_id = ?
		`, chatID)

		var state models.UserState
		var step, mode string
		var rating sql.NullInt64
		var tag, indexLetter sql.NullString
		err := row.Scan(&state.ChatID, &step, &mode, &rating, &tag, &indexLetter, &state.CreatedAt)
		if err != nil {
			return nil, err
		}
		state.Step = fsm.Step(step)
		state.Mode = fsm.Mode(mode)
		if rating.Valid {
			v := int(rating.Int64)
			state.Rating = &v
		}
		if tag.Valid {
			v := tag.String
			state.Tag = &v
		}
		if indexLetter.Valid {
			v := indexLetter.String
			state.IndexLetter = &v
		}
		return &state, nil
	})
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return result.(*models.UserState), nil
}

// Save upserts the full record; absent params are written as NULL.
func (r *UserStateRepository) Save(state *models.UserState) error {
	var rating sql.NullInt64
	if state.Rating != nil {
		rating = sql.NullInt64{Int64: int64(*state.Rating), Valid: true}
	}
	var tag, indexLetter sql.NullString
	if state.Tag != nil {
		tag = sql.NullString{String: *state.Tag, Valid: true}
	}
	if state.IndexLetter != nil {
		indexLetter = sql.NullString{String: *state.IndexLetter, Valid: true}
	}

	_, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		_, err := db.Exec(`
			INSERT INTO user_states (chat_id, step, mode, rating, tag, index_letter)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(chat_id) DO UPDATE SET
				step = excluded.step,
				mode = excluded.mode,
				rating = excluded.rating,
				tag = excluded.tag,
				index_letter = excluded.index_letter
		`, state.ChatID, string(state.Step), string(state.Mode), rating, tag, indexLetter)
		return nil, err
	})
	return err
}
