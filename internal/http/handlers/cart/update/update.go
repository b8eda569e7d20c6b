// Package update реализует HTTP-обработчик изменения количества позиции
// корзины. Нулевое количество удаляет позицию.
package update

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/mkozyrev/food-ordering/internal/http/response"
	"github.com/mkozyrev/food-ordering/internal/lib/sl"
	"github.com/mkozyrev/food-ordering/internal/models"
)

// Handler управляет HTTP-запросами на изменение количества позиций.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики изменения количества.
type Service interface {
	UpdateQuantity(owner string, dishID int64, quantity int) (*models.Cart, error)
}

// Request тело запроса: новое количество позиции.
type Request struct {
	Quantity int `json:"quantity"`
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cart.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	owner := chi.URLParam(r, "owner")
	dishID, err := strconv.ParseInt(chi.URLParam(r, "dishId"), 10, 64)
	if err != nil {
		log.Error("invalid dish id format", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid dish id"))
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	cart, err := h.service.UpdateQuantity(owner, dishID, req.Quantity)
	if err != nil {
		log.Error("failed to update cart item", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to update cart item"))
		return
	}

	log.Info("cart item updated",
		slog.String("owner", owner),
		slog.Int64("dish_id", dishID),
		slog.Int("quantity", req.Quantity))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"items": cart.Items,
		"total": cart.Total(),
	}))
}
