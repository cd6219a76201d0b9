package client

import (
	"context"
	"slices"
	"sync"

	"github.com/nambuntu/sdd-speckit-todoapp/internal/todo"
)

const errTodoNotFound = "Todo not found"

// Snapshot is a point-in-time copy of State for rendering.
type Snapshot struct {
	Todos   []todo.Todo
	Loading bool
	Error   string
}

// State caches the remote list locally and applies the result of each
// mutation once the server answers. Failures only record a message;
// nothing is retried or rolled back.
type State struct {
	api API

	mu      sync.Mutex
	todos   []todo.Todo
	loading bool
	err     string
}

func NewState(api API) *State {
	return &State{
		api:     api,
		todos:   []todo.Todo{},
		loading: true,
	}
}

// Load fetches the full list. loading is cleared whether or not it succeeds.
func (s *State) Load(ctx context.Context) {
	todos, err := s.api.FetchTodos(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.err = err.Error()
	} else {
		s.todos = todos
	}
	s.loading = false
}

func (s *State) Add(ctx context.Context, title string) {
	created, err := s.api.CreateTodo(ctx, title)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.err = err.Error()
		return
	}
	s.todos = append(slices.Clip(s.todos), *created)
}

// Toggle sends the negation of the locally cached completed flag.
func (s *State) Toggle(ctx context.Context, id string) {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx == -1 {
		s.err = errTodoNotFound
		s.mu.Unlock()
		return
	}
	completed := !s.todos[idx].Completed
	s.mu.Unlock()

	updated, err := s.api.UpdateTodo(ctx, id, completed)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.err = err.Error()
		return
	}
	next := make([]todo.Todo, len(s.todos))
	for i, t := range s.todos {
		if t.ID == id {
			t = *updated
		}
		next[i] = t
	}
	s.todos = next
}

func (s *State) Remove(ctx context.Context, id string) {
	err := s.api.DeleteTodo(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.err = err.Error()
		return
	}
	s.todos = slices.DeleteFunc(slices.Clone(s.todos), func(t todo.Todo) bool {
		return t.ID == id
	})
}

func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		Todos:   slices.Clone(s.todos),
		Loading: s.loading,
		Error:   s.err,
	}
}

// caller must hold mu
func (s *State) indexOf(id string) int {
	return slices.IndexFunc(s.todos, func(t todo.Todo) bool { return t.ID == id })
}
