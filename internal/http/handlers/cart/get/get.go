// Package get реализует HTTP-обработчик чтения корзины сессии.
package get

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/mkozyrev/food-ordering/internal/http/response"
	"github.com/mkozyrev/food-ordering/internal/lib/sl"
	"github.com/mkozyrev/food-ordering/internal/models"
)

// Handler управляет HTTP-запросами на чтение корзины.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения корзины.
type Service interface {
	Get(owner string) (*models.Cart, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cart.get"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	owner := chi.URLParam(r, "owner")

	cart, err := h.service.Get(owner)
	if err != nil {
		log.Error("failed to get cart", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to get cart"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"items": cart.Items,
		"total": cart.Total(),
	}))
}
