package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/Naveedahmedtech/OLO-Backend/internal/apperrors"
)

func (h *Handler) logInternalServerError(r *http.Request, err error) {
	slog.Error("internal server error", "method", r.Method, "path", r.URL.Path, "error", err)
}

func (h *Handler) readJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logInternalServerError(r, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

type Response struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    any               `json:"data"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// appError translates a typed domain error into the matching HTTP status.
// Untyped errors are treated as internal and logged.
func (h *Handler) appError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		h.internalServerError(w, r, err)
		return
	}

	if appErr.Kind == apperrors.KindInternal {
		h.logInternalServerError(r, err)
	}

	h.writeJSON(w, r, appErr.HTTPStatus(), Response{
		Success: false,
		Message: appErr.Message,
		Data:    nil,
		Errors:  appErr.Fields,
	})
}

func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		h.writeJSON(w, r, http.StatusBadRequest, Response{
			Success: false,
			Message: err.Error(),
			Data:    nil,
		})
		return
	}

	fields := make(map[string]string, len(validationErrors))
	for _, fieldErr := range validationErrors {
		fields[fieldErr.Field()] = fieldErr.Translate(h.translator)
	}

	h.writeJSON(w, r, http.StatusBadRequest, Response{
		Success: false,
		Message: validationErrors[0].Translate(h.translator),
		Data:    nil,
		Errors:  fields,
	})
}

func (h *Handler) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	h.logInternalServerError(r, err)
	h.writeJSON(w, r, http.StatusInternalServerError, Response{
		Success: false,
		Message: "internal server error",
		Data:    nil,
	})
}

func (h *Handler) successResponse(w http.ResponseWriter, r *http.Request, msg string, data any) {
	h.writeJSON(w, r, http.StatusOK, Response{
		Success: true,
		Message: msg,
		Data:    data,
	})
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

type ListResult struct {
	Data       any        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

func newListResult(data any, page, limit int, total int64) ListResult {
	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}

	return ListResult{
		Data: data,
		Pagination: Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: pages,
		},
	}
}

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

func parsePagination(r *http.Request) (int, int) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	return page, limit
}
