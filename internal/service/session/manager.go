package session

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kapu/youtube-analyzer-go/internal/domain"
	"github.com/kapu/youtube-analyzer-go/pkg/errors"
	"go.uber.org/zap"
)

// Manager produces and persists session records.
type Manager struct {
	store       Store
	fallbackKey string
	ttl         time.Duration
	now         func() time.Time
	logger      *zap.Logger
}

// NewManager returns a manager that substitutes fallbackKey for an empty credential.
func NewManager(store Store, fallbackKey string, ttl time.Duration, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		store:       store,
		fallbackKey: strings.TrimSpace(fallbackKey),
		ttl:         ttl,
		now:         time.Now,
		logger:      logger,
	}
}

// Start validates the inputs and replaces the record stored under id with a fresh
// authenticated session. An empty id gets a new one.
func (m *Manager) Start(ctx context.Context, id, credential, targetURL string) (*domain.Session, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		credential = m.fallbackKey
	}
	if credential == "" {
		return nil, errors.NewCredentialError("no YouTube credential supplied and none configured")
	}

	targetURL = strings.TrimSpace(targetURL)
	if _, ok := domain.ExtractVideoID(targetURL); !ok {
		return nil, errors.NewInputError("URL does not contain a YouTube video id", targetURL)
	}

	if id == "" {
		id = uuid.NewString()
	}

	s := &domain.Session{
		ID:            id,
		Credential:    credential,
		TargetURL:     targetURL,
		Authenticated: true,
		CreatedAt:     m.now(),
	}
	if err := m.store.Save(ctx, s, m.ttl); err != nil {
		return nil, err
	}

	m.logger.Info("Session started",
		zap.String("session", id),
		zap.String("url", targetURL))

	return s, nil
}

// Load returns the stored session, or nil when there is none.
func (m *Manager) Load(ctx context.Context, id string) (*domain.Session, error) {
	if id == "" {
		return nil, nil
	}
	return m.store.Get(ctx, id)
}

// Terminate replaces the record with its unauthenticated form.
func (m *Manager) Terminate(ctx context.Context, id string) (*domain.Session, error) {
	if id == "" {
		return &domain.Session{}, nil
	}

	current, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		current = &domain.Session{ID: id}
	}

	terminated := current.Terminated()
	if err := m.store.Save(ctx, terminated, m.ttl); err != nil {
		return nil, err
	}

	m.logger.Info("Session terminated", zap.String("session", id))
	return terminated, nil
}
