package postgresql

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/session"
	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type sessionRepositoryImpl struct {
	db *database.DB
}

func NewSessionRepository(db *database.DB) session.SessionRepository {
	return &sessionRepositoryImpl{db: db}
}

// hashToken hashes the input string using SHA256 and encodes the result in base64.
func (s *sessionRepositoryImpl) hashToken(input string) string {
	hash := sha256.Sum256([]byte(input))
	return base64.StdEncoding.EncodeToString(hash[:])
}

// Save implements session.SessionRepository. The unique employee_id column makes
// the upsert atomic, so concurrent logins settle on a single winner.
func (s *sessionRepositoryImpl) Save(ctx context.Context, employeeID, token string) error {
	q := GetQuerier(ctx, s.db)

	query := `
		INSERT INTO employee_sessions (employee_id, token_hash)
		VALUES ($1, $2)
		ON CONFLICT (employee_id)
		DO UPDATE SET token_hash = EXCLUDED.token_hash, updated_at = NOW()
	`

	_, err := q.Exec(ctx, query, employeeID, s.hashToken(token))
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// Matches implements session.SessionRepository.
func (s *sessionRepositoryImpl) Matches(ctx context.Context, employeeID, token string) (bool, error) {
	q := GetQuerier(ctx, s.db)

	query := `SELECT token_hash FROM employee_sessions WHERE employee_id = $1`

	var storedHash string
	err := q.QueryRow(ctx, query, employeeID).Scan(&storedHash)
	if err != nil {
		if err == pgx.ErrNoRows {
			return false, session.ErrSessionNotFound
		}
		return false, fmt.Errorf("failed to get session: %w", err)
	}

	return storedHash == s.hashToken(token), nil
}

// DeleteIfMatches implements session.SessionRepository. Deleting by token hash as
// well as employee id keeps a logout carrying a superseded token from removing the
// newer device's session.
func (s *sessionRepositoryImpl) DeleteIfMatches(ctx context.Context, employeeID, token string) error {
	q := GetQuerier(ctx, s.db)

	query := `DELETE FROM employee_sessions WHERE employee_id = $1 AND token_hash = $2`

	_, err := q.Exec(ctx, query, employeeID, s.hashToken(token))
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}
