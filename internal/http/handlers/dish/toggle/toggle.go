// Package toggle реализует HTTP-обработчик переключения доступности блюда
// (в стоп-лист и обратно).
package toggle

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/mkozyrev/food-ordering/internal/http/response"
	"github.com/mkozyrev/food-ordering/internal/lib/sl"
)

// Handler управляет HTTP-запросами на переключение доступности блюд.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики переключения доступности.
type Service interface {
	ToggleDishAvailability(ctx context.Context, id int64) (bool, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Переключить доступность блюда
// @Description Переводит блюдо в стоп-лист или возвращает в продажу.
// @Tags Menu
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID блюда"
// @Success 200 {object} response.Response "Новое состояние доступности"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /admin/dishes/{id}/toggle [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.dish.toggle"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("invalid id format", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid id"))
		return
	}

	available, err := h.service.ToggleDishAvailability(r.Context(), id)
	if err != nil {
		log.Error("failed to toggle dish availability", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to toggle dish availability"))
		return
	}

	log.Info("dish availability toggled", slog.Int64("id", id), slog.Bool("available", available))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id":        id,
		"available": available,
	}))
}
