// Package smssend реализует HTTP-обработчик запроса одноразового кода по SMS.
package smssend

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
	services "github.com/mkozyrev/food-ordering/internal/services/auth"
	"github.com/mkozyrev/food-ordering/internal/sms"
)

// Handler управляет HTTP-запросами на отправку SMS-кода.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики отправки кода.
type Service interface {
	SendCode(ctx context.Context, phone string) (sms.DispatchResult, error)
}

// Request тело запроса на отправку кода.
type Request struct {
	Phone string `json:"phone" validate:"required"`
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
// @Summary Запросить SMS-код
// @Description Отправляет одноразовый код подтверждения на указанный номер.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body Request true "Номер телефона"
// @Success 200 {object} response.Response "Результат отправки"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 502 {object} response.ErrorResponse "Провайдер не доставил сообщение"
// @Router /auth/sms/send [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.smssend"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

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

	result, err := h.service.SendCode(r.Context(), req.Phone)
	if err != nil {
		if errors.Is(err, services.ErrEmptyPhone) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("phone is required"))
			return
		}
		log.Error("failed to send code", slog.String("phone", req.Phone), sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("failed to send code"))
		return
	}

	log.Info("code sent", slog.String("phone", req.Phone), slog.String("result", string(result)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"result": result,
	}))
}
