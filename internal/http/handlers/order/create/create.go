// Package create реализует HTTP-обработчик создания заказа.
//
// Handler принимает снимок корзины с данными доставки и оплаты,
// валидирует их и создает заказ через сервис. Для онлайн-оплаты в ответе
// возвращается ссылка на страницу оплаты провайдера.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/mkozyrev/food-ordering/internal/http/response"
	"github.com/mkozyrev/food-ordering/internal/lib/sl"
	"github.com/mkozyrev/food-ordering/internal/models"
	services "github.com/mkozyrev/food-ordering/internal/services/order"
)

// Handler управляет HTTP-запросами на создание заказов.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики создания заказа.
type Service interface {
	Create(ctx context.Context, req models.DummyOrder) (*models.Order, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать заказ
// @Description Создает заказ из снимка корзины. Для онлайн-оплаты возвращает ссылку на оплату.
// @Tags Orders
// @Accept json
// @Produce json
// @Param request body models.DummyOrder true "Данные заказа"
// @Success 200 {object} response.Response "ID заказа и ссылка на оплату"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или способ оплаты"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /order [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.order.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyOrder
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

	order, err := h.service.Create(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyCart):
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("order must contain at least one item"))
		case errors.Is(err, services.ErrInvalidPayment):
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("unknown payment method"))
		default:
			log.Error("failed to create order", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to create order"))
		}
		return
	}

	log.Info("order created",
		slog.String("order_id", order.ID),
		slog.Float64("total", order.Total),
		slog.String("payment_method", string(order.PaymentMethod)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"success":     true,
		"orderId":     order.ID,
		"payment_url": order.PaymentURL,
	}))
}
