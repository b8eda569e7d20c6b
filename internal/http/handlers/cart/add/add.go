// Package add реализует HTTP-обработчик добавления позиции в корзину.
// Повторное добавление того же блюда суммирует количество.
package add

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/mkozyrev/food-ordering/internal/http/response"
	"github.com/mkozyrev/food-ordering/internal/lib/sl"
	"github.com/mkozyrev/food-ordering/internal/models"
)

// Handler управляет HTTP-запросами на добавление позиций.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики добавления позиции.
type Service interface {
	Add(owner string, item models.CartItem) (*models.Cart, error)
}

// Request тело запроса: добавляемая позиция.
type Request struct {
	DishID   int64   `json:"dish_id" validate:"required"`
	Name     string  `json:"name" validate:"required"`
	Price    float64 `json:"price" validate:"required,gt=0"`
	Quantity int     `json:"quantity" validate:"required,min=1"`
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
	const op = "handlers.cart.add"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	owner := chi.URLParam(r, "owner")

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

	cart, err := h.service.Add(owner, models.CartItem{
		DishID:   req.DishID,
		Name:     req.Name,
		Price:    req.Price,
		Quantity: req.Quantity,
	})
	if err != nil {
		log.Error("failed to add cart item", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to add cart item"))
		return
	}

	log.Info("cart item added", slog.String("owner", owner), slog.Int64("dish_id", req.DishID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"items": cart.Items,
		"total": cart.Total(),
	}))
}
