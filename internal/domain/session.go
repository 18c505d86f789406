package domain

import "time"

// Session is the single record an analysis runs against. It is always replaced as a
// whole; Start produces an authenticated record and Terminate an unauthenticated one.
type Session struct {
	ID            string    `json:"id"`
	Credential    string    `json:"credential"`
	TargetURL     string    `json:"target_url"`
	Authenticated bool      `json:"authenticated"`
	CreatedAt     time.Time `json:"created_at"`
}

func (s *Session) IsActive() bool {
	if s == nil {
		return false
	}
	return s.Authenticated && s.Credential != "" && s.TargetURL != ""
}

// Terminated returns the unauthenticated replacement for s.
func (s *Session) Terminated() *Session {
	if s == nil {
		return &Session{}
	}
	return &Session{
		ID:        s.ID,
		CreatedAt: s.CreatedAt,
	}
}
