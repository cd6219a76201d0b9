// Package client talks to the todo REST API and keeps a local copy of the list.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nambuntu/sdd-speckit-todoapp/internal/todo"
)

const todosPath = "/api/todos"

// API is the set of remote operations the state holder depends on.
type API interface {
	FetchTodos(ctx context.Context) ([]todo.Todo, error)
	CreateTodo(ctx context.Context, title string) (*todo.Todo, error)
	UpdateTodo(ctx context.Context, id string, completed bool) (*todo.Todo, error)
	DeleteTodo(ctx context.Context, id string) error
}

var (
	ErrFetch  = errors.New("Failed to fetch")
	ErrCreate = errors.New("Failed to create")
	ErrUpdate = errors.New("Failed to update")
	ErrDelete = errors.New("Failed to delete")
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) FetchTodos(ctx context.Context) ([]todo.Todo, error) {
	env, err := c.do(ctx, http.MethodGet, todosPath, nil)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, ErrFetch
	}

	todos := []todo.Todo{}
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &todos); err != nil {
			return nil, fmt.Errorf("decode todos: %w", err)
		}
	}
	return todos, nil
}

// CreateTodo surfaces the server's validation message when there is one.
func (c *Client) CreateTodo(ctx context.Context, title string) (*todo.Todo, error) {
	env, err := c.do(ctx, http.MethodPost, todosPath, map[string]string{"title": title})
	if err != nil {
		return nil, err
	}
	if !env.Success {
		if env.Error != nil && env.Error.Message != "" {
			return nil, errors.New(env.Error.Message)
		}
		return nil, ErrCreate
	}
	return decodeTodo(env)
}

func (c *Client) UpdateTodo(ctx context.Context, id string, completed bool) (*todo.Todo, error) {
	env, err := c.do(ctx, http.MethodPatch, todoPath(id), map[string]bool{"completed": completed})
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, ErrUpdate
	}
	return decodeTodo(env)
}

func (c *Client) DeleteTodo(ctx context.Context, id string) error {
	env, err := c.do(ctx, http.MethodDelete, todoPath(id), nil)
	if err != nil {
		return err
	}
	if !env.Success {
		return ErrDelete
	}
	return nil
}

func todoPath(id string) string {
	return todosPath + "/" + url.PathEscape(id)
}

func decodeTodo(env *envelope) (*todo.Todo, error) {
	var t todo.Todo
	if err := json.Unmarshal(env.Data, &t); err != nil {
		return nil, fmt.Errorf("decode todo: %w", err)
	}
	return &t, nil
}

// do sends the request and decodes the envelope. A non-2xx response comes
// back as an envelope with Success=false so each operation can pick its
// own message; transport failures are returned as errors.
func (c *Client) do(ctx context.Context, method, path string, body any) (*envelope, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(res.Body).Decode(&env)

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		// error bodies that are not envelopes still count as failures
		env.Success = false
		if decodeErr != nil {
			env.Error = nil
		}
		return &env, nil
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode response: %w", decodeErr)
	}
	return &env, nil
}
