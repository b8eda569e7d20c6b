// Package list реализует HTTP-обработчик выдачи списка заказов
// для панели администратора.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/mkozyrev/food-ordering/internal/http/response"
	"github.com/mkozyrev/food-ordering/internal/lib/sl"
	"github.com/mkozyrev/food-ordering/internal/models"
)

// Handler управляет HTTP-запросами на чтение заказов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения заказов.
type Service interface {
	List(ctx context.Context, limit, offset int) ([]*models.Order, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список заказов
// @Description Возвращает заказы, новые первыми, с пагинацией.
// @Tags Orders
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Максимум записей"
// @Param offset query int false "Смещение"
// @Success 200 {object} response.Response "Список заказов"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /admin/orders [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.order.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 100
	}
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}

	orders, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		log.Error("failed to list orders", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list orders"))
		return
	}

	log.Info("orders listed", slog.Int("count", len(orders)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"list_count": len(orders),
		"orders":     orders,
	}))
}
