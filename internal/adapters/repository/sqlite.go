package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/talentsync/talentsync/internal/domain/model"
	"github.com/talentsync/talentsync/pkg/logger"
	"github.com/talentsync/talentsync/pkg/metrics"
)

// SQLiteStore implements Store over a local SQLite database. It is the
// offline fallback behind the remote document store: job and freelancer
// documents are kept as JSON, messages get real columns so read-state
// updates and per-user loads stay simple queries. It does not implement
// Subscriber; callers use periodic refresh instead.
type SQLiteStore struct {
	db  *sql.DB
	log logger.Logger
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string, log logger.Logger) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{db: db, log: log}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		id         TEXT NOT NULL,
		kind       TEXT NOT NULL,
		doc        TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (id, kind)
	);
	CREATE INDEX IF NOT EXISTS idx_documents_kind ON documents(kind);

	CREATE TABLE IF NOT EXISTS messages (
		id              TEXT PRIMARY KEY,
		conversation_id TEXT NOT NULL,
		sender_id       TEXT NOT NULL,
		receiver_id     TEXT NOT NULL,
		content         TEXT NOT NULL,
		ts              TEXT NOT NULL,
		read            INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id);
	CREATE INDEX IF NOT EXISTS idx_messages_sender ON messages(sender_id);
	CREATE INDEX IF NOT EXISTS idx_messages_receiver ON messages(receiver_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) LoadJobs(ctx context.Context) ([]model.RawJob, error) {
	docs, err := s.loadDocuments(ctx, KindJob, "load_jobs")
	if err != nil {
		return nil, err
	}
	jobs := make([]model.RawJob, 0, len(docs))
	for _, doc := range docs {
		var raw model.RawJob
		if err := json.Unmarshal(doc, &raw); err != nil {
			s.log.Warn(ctx, "skipping corrupt job document", logger.Error(err))
			continue
		}
		jobs = append(jobs, raw)
	}
	return jobs, nil
}

func (s *SQLiteStore) LoadFreelancers(ctx context.Context) ([]model.RawFreelancer, error) {
	docs, err := s.loadDocuments(ctx, KindFreelancer, "load_freelancers")
	if err != nil {
		return nil, err
	}
	freelancers := make([]model.RawFreelancer, 0, len(docs))
	for _, doc := range docs {
		var raw model.RawFreelancer
		if err := json.Unmarshal(doc, &raw); err != nil {
			s.log.Warn(ctx, "skipping corrupt freelancer document", logger.Error(err))
			continue
		}
		freelancers = append(freelancers, raw)
	}
	return freelancers, nil
}

func (s *SQLiteStore) loadDocuments(ctx context.Context, kind Kind, op string) ([][]byte, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryOp("sqlite", op, float64(time.Since(start).Milliseconds()))
	}()

	rows, err := s.db.QueryContext(ctx, `SELECT doc FROM documents WHERE kind = ? ORDER BY updated_at`, string(kind))
	if err != nil {
		metrics.RecordRepositoryError("sqlite", op)
		return nil, fmt.Errorf("query %s: %w", kind, err)
	}
	defer rows.Close()

	var docs [][]byte
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			metrics.RecordRepositoryError("sqlite", op)
			return nil, fmt.Errorf("scan %s: %w", kind, err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (s *SQLiteStore) LoadMessages(ctx context.Context, userID string) ([]model.RawMessage, error) {
	const op = "load_messages"
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryOp("sqlite", op, float64(time.Since(start).Milliseconds()))
	}()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, conversation_id, sender_id, receiver_id, content, ts, read
		FROM messages
		WHERE sender_id = ? OR receiver_id = ?
		ORDER BY ts`, userID, userID)
	if err != nil {
		metrics.RecordRepositoryError("sqlite", op)
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var msgs []model.RawMessage
	for rows.Next() {
		var raw model.RawMessage
		var read int
		if err := rows.Scan(&raw.ID, &raw.ConversationID, &raw.SenderID, &raw.ReceiverID, &raw.Content, &raw.Timestamp, &read); err != nil {
			metrics.RecordRepositoryError("sqlite", op)
			return nil, fmt.Errorf("scan message: %w", err)
		}
		raw.Read = read != 0
		msgs = append(msgs, raw)
	}
	return msgs, rows.Err()
}

func (s *SQLiteStore) SaveJob(ctx context.Context, raw model.RawJob) (string, error) {
	if raw.ID == "" {
		raw.ID = uuid.NewString()
	}
	if err := s.saveDocument(ctx, KindJob, raw.ID, raw, "save_job"); err != nil {
		return "", err
	}
	return raw.ID, nil
}

func (s *SQLiteStore) SaveFreelancer(ctx context.Context, raw model.RawFreelancer) (string, error) {
	if raw.ID == "" {
		raw.ID = uuid.NewString()
	}
	if err := s.saveDocument(ctx, KindFreelancer, raw.ID, raw, "save_freelancer"); err != nil {
		return "", err
	}
	return raw.ID, nil
}

func (s *SQLiteStore) saveDocument(ctx context.Context, kind Kind, id string, doc any, op string) error {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryOp("sqlite", op, float64(time.Since(start).Milliseconds()))
	}()

	data, err := json.Marshal(doc)
	if err != nil {
		metrics.RecordRepositoryError("sqlite", op)
		return fmt.Errorf("marshal document: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (id, kind, doc, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(id, kind) DO UPDATE SET doc = excluded.doc, updated_at = excluded.updated_at`,
		id, string(kind), string(data), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		metrics.RecordRepositoryError("sqlite", op)
		return fmt.Errorf("write document %s/%s: %w", kind, id, err)
	}
	return nil
}

func (s *SQLiteStore) SaveMessage(ctx context.Context, raw model.RawMessage) (string, error) {
	const op = "save_message"
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryOp("sqlite", op, float64(time.Since(start).Milliseconds()))
	}()

	if raw.ID == "" {
		raw.ID = ulid.Make().String()
	}
	if raw.ConversationID == "" && raw.SenderID != "" && raw.ReceiverID != "" {
		raw.ConversationID = model.ConversationID(raw.SenderID, raw.ReceiverID)
	}
	if raw.Timestamp == "" {
		raw.Timestamp = time.Now().UTC().Format(time.RFC3339Nano)
	}

	content := raw.Content
	if content == "" {
		content = raw.Text
	}

	read := 0
	if raw.Read {
		read = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (id, conversation_id, sender_id, receiver_id, content, ts, read)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET read = excluded.read`,
		raw.ID, raw.ConversationID, raw.SenderID, raw.ReceiverID, content, raw.Timestamp, read)
	if err != nil {
		metrics.RecordRepositoryError("sqlite", op)
		return "", fmt.Errorf("write message %s: %w", raw.ID, err)
	}
	return raw.ID, nil
}

func (s *SQLiteStore) MarkMessagesRead(ctx context.Context, conversationID, readerID string) error {
	const op = "mark_read"
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryOp("sqlite", op, float64(time.Since(start).Milliseconds()))
	}()

	_, err := s.db.ExecContext(ctx, `
		UPDATE messages SET read = 1
		WHERE conversation_id = ? AND sender_id <> ?`, conversationID, readerID)
	if err != nil {
		metrics.RecordRepositoryError("sqlite", op)
		return fmt.Errorf("mark conversation %s read: %w", conversationID, err)
	}
	return nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
