package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"chatBot/internal/domain"
)

type Store struct {
	db *sql.DB
}

func NewStore(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("sqlite: empty db path")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("sqlite: creating dir: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}

	db.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func migrate(db *sql.DB) error {
	const commandsTable = `
CREATE TABLE IF NOT EXISTS commands (
	tier TEXT NOT NULL,
	name TEXT NOT NULL,
	template TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL,
	PRIMARY KEY (tier, name)
);`

	if _, err := db.Exec(commandsTable); err != nil {
		return fmt.Errorf("sqlite: migrate commands: %w", err)
	}

	const corpusTable = `
CREATE TABLE IF NOT EXISTS corpus_lines (
	corpus TEXT NOT NULL,
	position INTEGER NOT NULL,
	line TEXT NOT NULL,
	PRIMARY KEY (corpus, position)
);`

	if _, err := db.Exec(corpusTable); err != nil {
		return fmt.Errorf("sqlite: migrate corpus_lines: %w", err)
	}

	const notificationsTable = `
CREATE TABLE IF NOT EXISTS notifications (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	type TEXT NOT NULL,
	platform TEXT,
	username TEXT,
	amount REAL,
	message TEXT,
	metadata TEXT,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_notifications_created_at ON notifications(created_at DESC);`

	if _, err := db.Exec(notificationsTable); err != nil {
		return fmt.Errorf("sqlite: migrate notifications: %w", err)
	}

	return nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) LoadCommands(ctx context.Context, tier domain.Tier) (map[string]string, error) {
	const query = `
SELECT name, template
FROM commands
WHERE tier = ?;
`

	rows, err := s.db.QueryContext(ctx, query, string(tier))
	if err != nil {
		return nil, fmt.Errorf("sqlite: load commands: %w: %w", domain.ErrStore, err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var name, template string
		if err := rows.Scan(&name, &template); err != nil {
			return nil, fmt.Errorf("sqlite: scan command: %w: %w", domain.ErrStore, err)
		}
		out[name] = template
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: load commands: %w: %w", domain.ErrStore, err)
	}
	return out, nil
}

// SaveCommands reemplaza el tier completo dentro de una transacción.
func (s *Store) SaveCommands(ctx context.Context, tier domain.Tier, commands map[string]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin: %w: %w", domain.ErrStore, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM commands WHERE tier = ?;`, string(tier)); err != nil {
		return fmt.Errorf("sqlite: clear commands: %w: %w", domain.ErrStore, err)
	}

	now := time.Now().UTC()
	for name, template := range commands {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO commands (tier, name, template, updated_at) VALUES (?, ?, ?, ?);`,
			string(tier), name, template, now)
		if err != nil {
			return fmt.Errorf("sqlite: insert command %s: %w: %w", name, domain.ErrStore, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit: %w: %w", domain.ErrStore, err)
	}
	return nil
}

func (s *Store) LoadLines(ctx context.Context, corpus domain.Corpus) ([]string, error) {
	const query = `
SELECT line
FROM corpus_lines
WHERE corpus = ?
ORDER BY position ASC;
`

	rows, err := s.db.QueryContext(ctx, query, string(corpus))
	if err != nil {
		return nil, fmt.Errorf("sqlite: load lines: %w: %w", domain.ErrStore, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, fmt.Errorf("sqlite: scan line: %w: %w", domain.ErrStore, err)
		}
		out = append(out, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: load lines: %w: %w", domain.ErrStore, err)
	}
	return out, nil
}

func (s *Store) SaveLines(ctx context.Context, corpus domain.Corpus, lines []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin: %w: %w", domain.ErrStore, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM corpus_lines WHERE corpus = ?;`, string(corpus)); err != nil {
		return fmt.Errorf("sqlite: clear lines: %w: %w", domain.ErrStore, err)
	}
	for i, line := range lines {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO corpus_lines (corpus, position, line) VALUES (?, ?, ?);`,
			string(corpus), i, line)
		if err != nil {
			return fmt.Errorf("sqlite: insert line: %w: %w", domain.ErrStore, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit: %w: %w", domain.ErrStore, err)
	}
	return nil
}

func (s *Store) SaveNotification(ctx context.Context, notification *domain.Notification) (*domain.Notification, error) {
	if notification == nil {
		return nil, fmt.Errorf("sqlite: notification nil")
	}

	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now().UTC()
	}

	const stmt = `
INSERT INTO notifications (type, platform, username, amount, message, metadata, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?);
`

	res, err := s.db.ExecContext(
		ctx,
		stmt,
		string(notification.Type),
		string(notification.Platform),
		notification.Username,
		notification.Amount,
		notification.Message,
		encodeMetadata(notification.Metadata),
		notification.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: save notification: %w", err)
	}

	id, err := res.LastInsertId()
	if err == nil {
		notification.ID = id
	}
	return notification, nil
}

func (s *Store) ListNotifications(ctx context.Context, limit int) ([]*domain.Notification, error) {
	if limit <= 0 {
		limit = 50
	}

	const query = `
SELECT id, type, platform, username, amount, message, metadata, created_at
FROM notifications
ORDER BY created_at DESC, id DESC
LIMIT ?;
`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list notifications: %w", err)
	}
	defer rows.Close()

	var out []*domain.Notification
	for rows.Next() {
		var (
			id                                int64
			typ                               string
			platform, username, message, meta sql.NullString
			amount                            sql.NullFloat64
			createdAt                         time.Time
		)
		if err := rows.Scan(&id, &typ, &platform, &username, &amount, &message, &meta, &createdAt); err != nil {
			return nil, fmt.Errorf("sqlite: scan notification: %w", err)
		}
		out = append(out, &domain.Notification{
			ID:        id,
			Type:      domain.NotificationType(typ),
			Platform:  domain.Platform(platform.String),
			Username:  username.String,
			Amount:    amount.Float64,
			Message:   message.String,
			Metadata:  decodeMetadata(meta.String),
			CreatedAt: createdAt,
		})
	}
	return out, rows.Err()
}

func encodeMetadata(data map[string]string) interface{} {
	if len(data) == 0 {
		return nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil
	}
	return string(raw)
}

func decodeMetadata(raw string) map[string]string {
	if raw == "" {
		return nil
	}
	var out map[string]string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}
