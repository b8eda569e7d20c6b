// Package clear реализует HTTP-обработчик очистки корзины сессии.
package clear

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/mkozyrev/food-ordering/internal/http/response"
	"github.com/mkozyrev/food-ordering/internal/lib/sl"
)

// Handler управляет HTTP-запросами на очистку корзины.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики очистки корзины.
type Service interface {
	Clear(owner string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cart.clear"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	owner := chi.URLParam(r, "owner")

	if err := h.service.Clear(owner); err != nil {
		log.Error("failed to clear cart", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to clear cart"))
		return
	}

	log.Info("cart cleared", slog.String("owner", owner))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"cleared": true,
	}))
}
