// Package list реализует HTTP-обработчик выдачи меню: все блюда
// вместе с категориями одним ответом.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/mkozyrev/food-ordering/internal/http/response"
	"github.com/mkozyrev/food-ordering/internal/lib/sl"
	"github.com/mkozyrev/food-ordering/internal/models"
)

// Handler управляет HTTP-запросами на чтение меню.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения меню.
type Service interface {
	ListDishes(ctx context.Context) ([]*models.Dish, error)
	ListCategories(ctx context.Context) ([]*models.Category, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить меню
// @Description Возвращает все блюда и категории меню.
// @Tags Menu
// @Produce json
// @Success 200 {object} response.Response "Блюда и категории"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /menu [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.dish.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	dishes, err := h.service.ListDishes(r.Context())
	if err != nil {
		log.Error("failed to list dishes", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list dishes"))
		return
	}

	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		log.Error("failed to list categories", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list categories"))
		return
	}

	log.Info("menu listed", slog.Int("dishes", len(dishes)), slog.Int("categories", len(categories)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"dishes":     dishes,
		"categories": categories,
	}))
}
