package todo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxTitleLength is counted in runes after trimming.
const MaxTitleLength = 500

// ValidationError reports malformed client input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

var (
	ErrTitleRequired = &ValidationError{Message: "Title required"}
	ErrTitleTooLong  = &ValidationError{Message: "Title too long"}
)

// Service คือ business logic layer
type Service interface {
	ListTodos(ctx context.Context) ([]Todo, error)
	GetTodo(ctx context.Context, id string) (*Todo, bool)
	CreateTodo(ctx context.Context, title string) (*Todo, error)
	UpdateStatus(ctx context.Context, id string, completed bool) (*Todo, error)
	DeleteTodo(ctx context.Context, id string) error
}

type Option func(*service)

// WithClock replaces time.Now, mostly so tests can move time forward.
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

// WithIDGenerator replaces uuid.NewString.
func WithIDGenerator(newID func() string) Option {
	return func(s *service) { s.newID = newID }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *service) { s.logger = logger }
}

type service struct {
	repo   TodoRepository
	now    func() time.Time
	newID  func() string
	logger *slog.Logger
}

func NewService(repo TodoRepository, opts ...Option) Service {
	s := &service{
		repo:   repo,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ===== helper validate =====

func normalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrTitleRequired
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return "", ErrTitleTooLong
	}
	return title, nil
}

// ===== Get / List =====

func (s *service) ListTodos(ctx context.Context) ([]Todo, error) {
	todos, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	if todos == nil {
		todos = []Todo{}
	}
	return todos, nil
}

// GetTodo reports a miss with ok=false rather than an error.
func (s *service) GetTodo(ctx context.Context, id string) (*Todo, bool) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, false
	}
	return t, true
}

// ===== Create =====

func (s *service) CreateTodo(ctx context.Context, title string) (*Todo, error) {
	title, err := normalizeTitle(title)
	if err != nil {
		return nil, err
	}

	now := s.now()
	todo := &Todo{
		ID:        s.newID(),
		Title:     title,
		Completed: false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, todo); err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}

	s.logger.DebugContext(ctx, "todo created", "id", todo.ID)
	return todo, nil
}

// ===== Update =====

func (s *service) UpdateStatus(ctx context.Context, id string, completed bool) (*Todo, error) {
	// ดึงข้อมูลเดิมมาก่อน
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.Completed = completed
	existing.UpdatedAt = s.now()
	// a coarse clock must never move updatedAt behind createdAt
	if existing.UpdatedAt.Before(existing.CreatedAt) {
		existing.UpdatedAt = existing.CreatedAt
	}

	if err := s.repo.Update(ctx, existing); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update todo %s: %w", id, err)
	}

	s.logger.DebugContext(ctx, "todo status updated", "id", id, "completed", completed)
	return existing, nil
}

// ===== Delete =====

func (s *service) DeleteTodo(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete todo %s: %w", id, err)
	}

	s.logger.DebugContext(ctx, "todo deleted", "id", id)
	return nil
}
