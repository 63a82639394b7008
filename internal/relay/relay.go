package relay

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BerylCAtieno/sales-opener-agent/internal/assistant"
	"github.com/BerylCAtieno/sales-opener-agent/internal/models"
	"github.com/BerylCAtieno/sales-opener-agent/internal/persona"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrEmptyMessage  = errors.New("message is required")
	ErrUnknownThread = errors.New("unknown thread")
	ErrRunTimeout    = errors.New("timed out waiting for the assistant")
	ErrEmptyReply    = errors.New("assistant returned an empty reply")
)

const DefaultTimeout = 90 * time.Second

// Relay forwards chat messages to the assistant backend, one run per call.
type Relay struct {
	backend assistant.Backend
	store   *ThreadStore
	timeout time.Duration
	banned  []string
	logger  *zap.Logger
}

type Option func(*Relay)

func WithTimeout(d time.Duration) Option {
	return func(r *Relay) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithBannedPhrases strips the phrases from every reply before it is stored
// or returned.
func WithBannedPhrases(phrases []string) Option {
	return func(r *Relay) {
		r.banned = phrases
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(r *Relay) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func New(backend assistant.Backend, store *ThreadStore, opts ...Option) *Relay {
	r := &Relay{
		backend: backend,
		store:   store,
		timeout: DefaultTimeout,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Chat appends req.Message to its thread, waits for the assistant and returns
// the reply. A thread is created when the request names none.
func (r *Relay) Chat(ctx context.Context, req models.ChatRequest) (models.ChatResponse, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return models.ChatResponse{}, ErrEmptyMessage
	}

	threadID, err := r.resolveThread(req)
	if err != nil {
		return models.ChatResponse{}, err
	}
	history, _ := r.store.History(threadID)
	runID := "run_" + uuid.NewString()

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	reply, err := r.backend.Reply(ctx, history, message)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			r.logger.Warn("assistant run timed out",
				zap.String("thread_id", threadID),
				zap.String("run_id", runID),
				zap.Duration("timeout", r.timeout))
			return models.ChatResponse{}, fmt.Errorf("%w after %s", ErrRunTimeout, r.timeout)
		}
		return models.ChatResponse{}, fmt.Errorf("assistant run %s failed: %w", runID, err)
	}

	reply = strings.TrimSpace(persona.Enforce(reply, r.banned))
	if reply == "" {
		return models.ChatResponse{}, ErrEmptyReply
	}

	r.store.Append(threadID,
		assistant.Turn{Role: assistant.RoleUser, Text: message},
		assistant.Turn{Role: assistant.RoleModel, Text: reply},
	)

	r.logger.Info("assistant run completed",
		zap.String("thread_id", threadID),
		zap.String("run_id", runID),
		zap.Int("history", len(history)),
		zap.Duration("elapsed", time.Since(start)))

	return models.ChatResponse{
		AssistantMessage: reply,
		ThreadID:         threadID,
		RunID:            runID,
	}, nil
}

func (r *Relay) resolveThread(req models.ChatRequest) (string, error) {
	if req.ThreadID != "" {
		if _, ok := r.store.History(req.ThreadID); !ok {
			return "", fmt.Errorf("%w: %s", ErrUnknownThread, req.ThreadID)
		}
		return req.ThreadID, nil
	}
	if req.SessionID != "" {
		if id, ok := r.store.ThreadForSession(req.SessionID); ok {
			return id, nil
		}
	}
	return r.store.Create(req.SessionID), nil
}
