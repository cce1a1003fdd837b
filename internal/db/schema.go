package db

import (
	"database/sql"
)

const schema = `
CREATE TABLE IF NOT EXISTS user_states (
    chat_id INTEGER PRIMARY KEY,
    step TEXT NOT NULL DEFAULT '',
    mode TEXT NOT NULL DEFAULT '',
    rating INTEGER,
    tag TEXT,
    index_letter TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    chat_id INTEGER NOT NULL REFERENCES user_states(chat_id),
    contest_id INTEGER NOT NULL,
    problem_index TEXT NOT NULL,
    name TEXT NOT NULL,
    rating INTEGER,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_history_chat_created ON history(chat_id, created_at DESC);
`

func InitSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
