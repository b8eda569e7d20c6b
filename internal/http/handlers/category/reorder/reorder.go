// Package reorder реализует HTTP-обработчик изменения порядка категорий меню.
// Принимает полный список ID в новом порядке.
package reorder

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/mkozyrev/food-ordering/internal/http/response"
	"github.com/mkozyrev/food-ordering/internal/lib/sl"
)

// Handler управляет HTTP-запросами на изменение порядка категорий.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики изменения порядка категорий.
type Service interface {
	ReorderCategories(ctx context.Context, ids []int64) error
}

// Request тело запроса: ID категорий в новом порядке показа.
type Request struct {
	IDs []int64 `json:"ids" validate:"required,min=1"`
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.category.reorder"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if err := h.service.ReorderCategories(r.Context(), req.IDs); err != nil {
		log.Error("failed to reorder categories", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to reorder categories"))
		return
	}

	log.Info("categories reordered", slog.Int("count", len(req.IDs)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"count": len(req.IDs),
	}))
}
