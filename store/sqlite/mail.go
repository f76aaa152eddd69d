package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/warp/hr-extensions/hr"
	"github.com/warp/hr-extensions/mail"
)

var _ mail.Store = (*Store)(nil)

// =============================================================================
// MAILBOX (mail.Store)
// =============================================================================

// CreateMessage posts a message and adds an unread notification for each
// partner. Everything runs in one transaction.
func (s *Store) CreateMessage(ctx context.Context, authorID int64, subject, body string, notify []int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO mail_messages (author_id, subject, body, created_at) VALUES (?, ?, ?, ?)",
		authorID, nullString(subject), body, now(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create message: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, partner := range notify {
		if _, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO mail_notifications (message_id, partner_id, is_read) VALUES (?, ?, FALSE)",
			id, partner,
		); err != nil {
			return 0, fmt.Errorf("failed to notify partner %d: %w", partner, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit message: %w", err)
	}
	return id, nil
}

// MarkRead moves the partner's notification for a message to history.
func (s *Store) MarkRead(ctx context.Context, messageID, partnerID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"UPDATE mail_notifications SET is_read = TRUE WHERE message_id = ? AND partner_id = ?",
		messageID, partnerID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark message read: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &hr.NotFoundError{Kind: "notification", ID: messageID, Err: hr.ErrMessageNotFound}
	}
	return nil
}

// SetStarred stars or unstars a message for a partner.
func (s *Store) SetStarred(ctx context.Context, messageID, partnerID int64, starred bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var exists bool
	if err := s.db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM mail_messages WHERE id = ?)", messageID,
	).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check message: %w", err)
	}
	if !exists {
		return &hr.NotFoundError{Kind: "message", ID: messageID, Err: hr.ErrMessageNotFound}
	}

	var err error
	if starred {
		_, err = s.db.ExecContext(ctx,
			"INSERT OR IGNORE INTO mail_message_stars (message_id, partner_id) VALUES (?, ?)",
			messageID, partnerID)
	} else {
		_, err = s.db.ExecContext(ctx,
			"DELETE FROM mail_message_stars WHERE message_id = ? AND partner_id = ?",
			messageID, partnerID)
	}
	if err != nil {
		return fmt.Errorf("failed to update star: %w", err)
	}
	return nil
}

func (s *Store) SearchMessages(ctx context.Context, q mail.Query) ([]mail.Message, error) {
	where, args, err := mailboxWhere(q)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT m.id, COALESCE(m.author_id, 0), COALESCE(m.subject, ''), m.body, m.created_at,
			EXISTS (SELECT 1 FROM mail_notifications n
				WHERE n.message_id = m.id AND n.partner_id = ? AND n.is_read = FALSE),
			EXISTS (SELECT 1 FROM mail_message_stars st
				WHERE st.message_id = m.id AND st.partner_id = ?)
		FROM mail_messages m
		WHERE ` + where
	args = append([]any{q.PartnerID, q.PartnerID}, args...)

	if q.Ascending {
		query += " ORDER BY m.id ASC"
	} else {
		query += " ORDER BY m.id DESC"
	}
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	msgs := []mail.Message{}
	for rows.Next() {
		var (
			m       mail.Message
			created string
		)
		if err := rows.Scan(&m.ID, &m.AuthorID, &m.Subject, &m.Body, &created, &m.NeedAction, &m.Starred); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		if m.CreatedAt, err = hr.ParseDateTime(created); err != nil {
			return nil, fmt.Errorf("failed to parse message %d created_at: %w", m.ID, err)
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (s *Store) CountMessages(ctx context.Context, q mail.Query) (int, error) {
	where, args, err := mailboxWhere(q)
	if err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM mail_messages m WHERE "+where, args...,
	).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return count, nil
}

// mailboxWhere builds the feed, search and id-bound conditions on alias m.
func mailboxWhere(q mail.Query) (string, []any, error) {
	var (
		where []string
		args  []any
	)

	switch q.Feed {
	case mail.FeedInbox:
		where = append(where, `EXISTS (SELECT 1 FROM mail_notifications n
			WHERE n.message_id = m.id AND n.partner_id = ? AND n.is_read = FALSE)`)
	case mail.FeedHistory:
		where = append(where, `EXISTS (SELECT 1 FROM mail_notifications n
			WHERE n.message_id = m.id AND n.partner_id = ? AND n.is_read = TRUE)`)
	case mail.FeedStarred:
		where = append(where, `EXISTS (SELECT 1 FROM mail_message_stars st
			WHERE st.message_id = m.id AND st.partner_id = ?)`)
	default:
		return "", nil, mail.ErrUnknownFeed
	}
	args = append(args, q.PartnerID)

	if term := strings.TrimSpace(q.SearchTerm); term != "" {
		like := "%" + escapeLike(term) + "%"
		where = append(where, `(m.subject LIKE ? ESCAPE '\' OR m.body LIKE ? ESCAPE '\')`)
		args = append(args, like, like)
	}
	if q.IDBelow != 0 {
		where = append(where, "m.id < ?")
		args = append(args, q.IDBelow)
	}
	if q.IDAtMost != 0 {
		where = append(where, "m.id <= ?")
		args = append(args, q.IDAtMost)
	}
	if q.IDAbove != 0 {
		where = append(where, "m.id > ?")
		args = append(args, q.IDAbove)
	}
	return strings.Join(where, " AND "), args, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
