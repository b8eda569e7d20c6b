// Package cancel реализует HTTP-обработчик отмены заказа.
// Повторная отмена идемпотентна.
package cancel

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/mkozyrev/food-ordering/internal/http/response"
	"github.com/mkozyrev/food-ordering/internal/lib/sl"
	"github.com/mkozyrev/food-ordering/internal/models"
	services "github.com/mkozyrev/food-ordering/internal/services/order"
)

// Handler управляет HTTP-запросами на отмену заказов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики отмены заказа.
type Service interface {
	Cancel(ctx context.Context, id, reason string) (*models.Order, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Отменить заказ
// @Description Отменяет заказ с необязательной причиной. Повторная отмена возвращает заказ без изменений.
// @Tags Orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID заказа"
// @Param request body models.DummyCancel false "Причина отмены"
// @Success 200 {object} response.Response "Отмененный заказ"
// @Failure 404 {object} response.ErrorResponse "Заказ не найден"
// @Failure 409 {object} response.ErrorResponse "Заказ уже доставлен"
// @Router /admin/orders/{id}/cancel [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.order.cancel"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	// Тело необязательно: отмена без причины допустима.
	var req models.DummyCancel
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	order, err := h.service.Cancel(r.Context(), id, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("order not found"))
		case errors.Is(err, services.ErrInvalidTransition):
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("order can not be cancelled"))
		default:
			log.Error("failed to cancel order", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to cancel order"))
		}
		return
	}

	log.Info("order cancelled", slog.String("order_id", id), slog.String("reason", order.CancelReason))
	render.JSON(w, r, response.OKWithData(order))
}
