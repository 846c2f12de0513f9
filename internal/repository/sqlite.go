package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/SydneyWamalwa/customer-service-ai/internal/domain"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			session_id TEXT PRIMARY KEY,
			tenant_id TEXT NOT NULL,
			customer_id TEXT,
			escalated INTEGER NOT NULL DEFAULT 0,
			tags TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			last_active_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			message_id TEXT NOT NULL UNIQUE,
			session_id TEXT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			tools_used TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (session_id) REFERENCES sessions(session_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id, seq)`,
		`CREATE TABLE IF NOT EXISTS approvals (
			approval_id TEXT PRIMARY KEY,
			tenant_id TEXT NOT NULL,
			session_id TEXT NOT NULL,
			user_id TEXT,
			action TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			decided_by TEXT,
			notes TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (session_id) REFERENCES sessions(session_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_approvals_session_status ON approvals(session_id, status)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateSession creates a new session.
func (s *SQLiteStore) CreateSession(ctx context.Context, session *domain.Session) error {
	var tags sql.NullString
	if session.Tags != nil {
		tags = sql.NullString{String: string(session.Tags), Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (session_id, tenant_id, customer_id, escalated, tags, created_at, last_active_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		session.SessionID, session.TenantID, session.CustomerID, session.Escalated, tags,
		session.CreatedAt, session.LastActiveAt)
	return err
}

// GetSession retrieves a session by ID.
func (s *SQLiteStore) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	var session domain.Session
	var customerID, tags sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT session_id, tenant_id, customer_id, escalated, tags, created_at, last_active_at
		 FROM sessions WHERE session_id = ?`,
		sessionID).Scan(&session.SessionID, &session.TenantID, &customerID, &session.Escalated,
		&tags, &session.CreatedAt, &session.LastActiveAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if customerID.Valid {
		session.CustomerID = customerID.String
	}
	if tags.Valid {
		session.Tags = json.RawMessage(tags.String)
	}
	return &session, nil
}

// GetOrCreateSession gets an existing session or creates a new one.
func (s *SQLiteStore) GetOrCreateSession(ctx context.Context, sessionID, tenantID, customerID string) (*domain.Session, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	session = &domain.Session{
		SessionID:    sessionID,
		TenantID:     tenantID,
		CustomerID:   customerID,
		CreatedAt:    now,
		LastActiveAt: now,
	}
	if err := s.CreateSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// UpdateSessionMetadata applies a partial metadata update and returns the session.
func (s *SQLiteStore) UpdateSessionMetadata(ctx context.Context, sessionID string, update domain.MetadataUpdate) (*domain.Session, error) {
	sets := []string{"last_active_at = ?"}
	args := []interface{}{time.Now()}
	if update.Escalated != nil {
		sets = append(sets, "escalated = ?")
		args = append(args, *update.Escalated)
	}
	if update.Tags != nil {
		sets = append(sets, "tags = ?")
		args = append(args, string(update.Tags))
	}
	args = append(args, sessionID)

	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf("UPDATE sessions SET %s WHERE session_id = ?", strings.Join(sets, ", ")), args...)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.GetSession(ctx, sessionID)
}

// AppendMessage inserts a message, trims history beyond cap (oldest first)
// and bumps the session's last-activity timestamp, all in one transaction.
func (s *SQLiteStore) AppendMessage(ctx context.Context, message *domain.Message, historyCap int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	var toolsUsed sql.NullString
	if message.ToolsUsed != nil {
		toolsUsed = sql.NullString{String: string(message.ToolsUsed), Valid: true}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO messages (message_id, session_id, role, content, tools_used, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		message.MessageID, message.SessionID, message.Role, message.Content, toolsUsed, message.CreatedAt); err != nil {
		return err
	}

	if historyCap > 0 {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM messages WHERE session_id = ? AND seq NOT IN (
				SELECT seq FROM messages WHERE session_id = ? ORDER BY seq DESC LIMIT ?
			)`,
			message.SessionID, message.SessionID, historyCap); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE sessions SET last_active_at = ? WHERE session_id = ?`,
		message.CreatedAt, message.SessionID); err != nil {
		return err
	}

	return tx.Commit()
}

// GetMessages retrieves the most recent limit messages, oldest first.
func (s *SQLiteStore) GetMessages(ctx context.Context, sessionID string, limit int) ([]domain.Message, error) {
	query := `SELECT message_id, session_id, role, content, tools_used, created_at
		FROM messages WHERE session_id = ? ORDER BY seq DESC`
	args := []interface{}{sessionID}
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var msg domain.Message
		var toolsUsed sql.NullString
		if err := rows.Scan(&msg.MessageID, &msg.SessionID, &msg.Role, &msg.Content, &toolsUsed, &msg.CreatedAt); err != nil {
			return nil, err
		}
		if toolsUsed.Valid {
			msg.ToolsUsed = json.RawMessage(toolsUsed.String)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Rows come back newest-first; callers want arrival order.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// CreateApproval creates a new approval request.
func (s *SQLiteStore) CreateApproval(ctx context.Context, approval *domain.ApprovalRequest) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO approvals (approval_id, tenant_id, session_id, user_id, action, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		approval.ApprovalID, approval.TenantID, approval.SessionID, approval.UserID,
		approval.Action, approval.Status, approval.CreatedAt, approval.UpdatedAt)
	return err
}

// GetApproval retrieves an approval request by ID.
func (s *SQLiteStore) GetApproval(ctx context.Context, approvalID string) (*domain.ApprovalRequest, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT approval_id, tenant_id, session_id, user_id, action, status, decided_by, notes, created_at, updated_at
		 FROM approvals WHERE approval_id = ?`, approvalID)
	return scanApproval(row)
}

// GetPendingApprovalBySession returns the oldest unresolved approval for a
// session, or nil when none exists.
func (s *SQLiteStore) GetPendingApprovalBySession(ctx context.Context, sessionID string) (*domain.ApprovalRequest, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT approval_id, tenant_id, session_id, user_id, action, status, decided_by, notes, created_at, updated_at
		 FROM approvals WHERE session_id = ? AND status = ? ORDER BY created_at ASC LIMIT 1`,
		sessionID, domain.ApprovalStatusPending)
	return scanApproval(row)
}

// DecideApproval performs the single pending -> terminal transition.
func (s *SQLiteStore) DecideApproval(ctx context.Context, approvalID string, status domain.ApprovalStatus, decidedBy, notes string) (*domain.ApprovalRequest, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE approvals SET status = ?, decided_by = ?, notes = ?, updated_at = ?
		 WHERE approval_id = ? AND status = ?`,
		status, decidedBy, notes, time.Now(), approvalID, domain.ApprovalStatusPending)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		// Distinguish an unknown id from a second decision attempt.
		if _, err := s.GetApproval(ctx, approvalID); err != nil {
			return nil, err
		}
		return nil, ErrAlreadyDecided
	}
	return s.GetApproval(ctx, approvalID)
}

func scanApproval(row *sql.Row) (*domain.ApprovalRequest, error) {
	var ap domain.ApprovalRequest
	var userID, decidedBy, notes sql.NullString
	err := row.Scan(&ap.ApprovalID, &ap.TenantID, &ap.SessionID, &userID, &ap.Action,
		&ap.Status, &decidedBy, &notes, &ap.CreatedAt, &ap.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if userID.Valid {
		ap.UserID = userID.String
	}
	if decidedBy.Valid {
		ap.DecidedBy = decidedBy.String
	}
	if notes.Valid {
		ap.Notes = notes.String
	}
	return &ap, nil
}
