// Package update реализует HTTP-обработчик изменения данных ресторана.
package update

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
	"github.com/mkozyrev/food-ordering/internal/models"
)

// Handler управляет HTTP-запросами на изменение данных ресторана.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики изменения данных ресторана.
type Service interface {
	Update(ctx context.Context, r models.Restaurant) error
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
	const op = "handlers.restaurant.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyRestaurant
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

	restaurant := models.Restaurant{
		Name:           req.Name,
		Address:        req.Address,
		Phone:          req.Phone,
		WorkingHours:   req.WorkingHours,
		PickupWindow:   req.PickupWindow,
		DeliveryWindow: req.DeliveryWindow,
		LogoURL:        req.LogoURL,
	}
	if err := h.service.Update(r.Context(), restaurant); err != nil {
		log.Error("failed to update restaurant info", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to update restaurant info"))
		return
	}

	log.Info("restaurant info updated", slog.String("name", req.Name))
	render.JSON(w, r, response.OKWithData(restaurant))
}
