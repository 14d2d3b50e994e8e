package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/session"
)

type SessionServiceImpl struct {
	session.SessionRepository
}

func NewSessionService(sessionRepo session.SessionRepository) session.SessionService {
	return &SessionServiceImpl{
		SessionRepository: sessionRepo,
	}
}

// Login records token as the employee's single active device session,
// replacing whatever session was active before.
func (s *SessionServiceImpl) Login(ctx context.Context, employeeID, token string) error {
	if err := s.SessionRepository.Save(ctx, employeeID, token); err != nil {
		return fmt.Errorf("failed to save device session: %w", err)
	}
	return nil
}

// Authorize reports whether token is still the employee's active session.
// A token that was valid once but has been replaced by a newer login returns
// ErrSessionSuperseded so callers can tell the two apart.
func (s *SessionServiceImpl) Authorize(ctx context.Context, employeeID, token string) error {
	matches, err := s.SessionRepository.Matches(ctx, employeeID, token)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return session.ErrSessionNotFound
		}
		return fmt.Errorf("failed to check device session: %w", err)
	}
	if !matches {
		return session.ErrSessionSuperseded
	}
	return nil
}

// Logout removes the employee's session only when token is still the active
// one. A logout from a superseded device leaves the newer session untouched.
func (s *SessionServiceImpl) Logout(ctx context.Context, employeeID, token string) error {
	if err := s.SessionRepository.DeleteIfMatches(ctx, employeeID, token); err != nil {
		return fmt.Errorf("failed to delete device session: %w", err)
	}
	return nil
}
