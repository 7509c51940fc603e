package view

import (
	"sync"

	"silvercare/internal/domain"
)

// Sessions holds one App per user, created on first use.
type Sessions struct {
	mu   sync.Mutex
	deps Deps
	apps map[int64]*App
}

func NewSessions(deps Deps) *Sessions {
	return &Sessions{deps: deps, apps: map[int64]*App{}}
}

func (s *Sessions) Get(userID int64) (*App, error) {
	if userID <= 0 {
		return nil, domain.Validation("user_id must be a positive integer")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	app, ok := s.apps[userID]
	if !ok {
		app = NewApp(userID, s.deps)
		s.apps[userID] = app
	}
	return app, nil
}

// Close shuts down every session.
func (s *Sessions) Close() {
	s.mu.Lock()
	apps := s.apps
	s.apps = map[int64]*App{}
	s.mu.Unlock()

	for _, app := range apps {
		app.Close()
	}
}
