package todo

import (
	"context"
	"sync"
)

// ================== Error กลาง ==================

// NotFoundError reports that no todo matches the requested id.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

var ErrNotFound = &NotFoundError{Message: "Todo not found"}

// ================== Interface ==================
type TodoRepository interface {
	Create(ctx context.Context, t *Todo) error
	GetByID(ctx context.Context, id string) (*Todo, error)
	List(ctx context.Context) ([]Todo, error)
	Update(ctx context.Context, t *Todo) error
	Delete(ctx context.Context, id string) error
}

// MemoryRepo keeps todos in insertion order for the lifetime of the process.
// Every access goes through mu because net/http serves requests concurrently.
type MemoryRepo struct {
	mu    sync.RWMutex
	todos []Todo
}

func NewRepository() *MemoryRepo {
	return &MemoryRepo{todos: make([]Todo, 0)}
}

func (r *MemoryRepo) Create(ctx context.Context, t *Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.todos = append(r.todos, *t)
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (*Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx := r.indexOf(id)
	if idx == -1 {
		return nil, ErrNotFound
	}

	t := r.todos[idx]
	return &t, nil
}

// List returns a copy; callers may mutate it freely.
func (r *MemoryRepo) List(ctx context.Context) ([]Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Todo, len(r.todos))
	copy(out, r.todos)
	return out, nil
}

func (r *MemoryRepo) Update(ctx context.Context, t *Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(t.ID)
	if idx == -1 {
		return ErrNotFound
	}

	// id and createdAt never change after creation
	stored := &r.todos[idx]
	stored.Title = t.Title
	stored.Completed = t.Completed
	stored.UpdatedAt = t.UpdatedAt

	*t = *stored
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx == -1 {
		return ErrNotFound
	}

	r.todos = append(r.todos[:idx], r.todos[idx+1:]...)
	return nil
}

// Reset drops every todo.
func (r *MemoryRepo) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.todos = r.todos[:0]
}

// caller must hold mu
func (r *MemoryRepo) indexOf(id string) int {
	for i := range r.todos {
		if r.todos[i].ID == id {
			return i
		}
	}
	return -1
}
