package todo

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nambuntu/sdd-speckit-todoapp/pkg/utils"
)

const maxBodyBytes = 1 << 20

var errInvalidBody = &ValidationError{Message: "Invalid JSON body"}

// =============== Handler struct ==================

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// GET /api/todos
func (h *Handler) ListTodos(w http.ResponseWriter, r *http.Request) {
	todos, err := h.svc.ListTodos(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	utils.WriteData(w, http.StatusOK, todos)
}

// GET /api/todos/{id}
func (h *Handler) GetTodoByID(w http.ResponseWriter, r *http.Request) {
	todo, ok := h.svc.GetTodo(r.Context(), chi.URLParam(r, "id"))
	if !ok {
		writeServiceError(w, r, ErrNotFound)
		return
	}

	utils.WriteData(w, http.StatusOK, todo)
}

// POST /api/todos
func (h *Handler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	var in CreateTodoInput
	if err := decodeBody(w, r, &in); err != nil {
		writeServiceError(w, r, err)
		return
	}

	todo, err := h.svc.CreateTodo(r.Context(), in.TitleString())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	utils.WriteData(w, http.StatusCreated, todo)
}

// PATCH /api/todos/{id}
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var in UpdateStatusInput
	if err := decodeBody(w, r, &in); err != nil {
		writeServiceError(w, r, err)
		return
	}

	todo, err := h.svc.UpdateStatus(r.Context(), chi.URLParam(r, "id"), in.CompletedBool())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	utils.WriteData(w, http.StatusOK, todo)
}

// DELETE /api/todos/{id}
func (h *Handler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteTodo(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK)
}

// RouteNotFound answers unmatched paths and methods.
func RouteNotFound(w http.ResponseWriter, r *http.Request) {
	utils.WriteError(w, http.StatusNotFound, utils.CodeNotFound, "Route not found")
}

// =============== helpers =================

// decodeBody treats an empty body as {}.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return errInvalidBody
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		vErr  *ValidationError
		nfErr *NotFoundError
	)

	switch {
	case errors.As(err, &vErr):
		utils.WriteError(w, http.StatusBadRequest, utils.CodeValidation, vErr.Message)
	case errors.As(err, &nfErr):
		utils.WriteError(w, http.StatusNotFound, utils.CodeNotFound, nfErr.Message)
	default:
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		utils.WriteError(w, http.StatusInternalServerError, utils.CodeInternal, "Internal server error")
	}
}
