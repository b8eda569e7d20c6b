// Package smsverify реализует HTTP-обработчик проверки одноразового кода.
//
// При успешной проверке пользователь находится или создается по номеру
// телефона на стороне сервера, в ответ возвращаются JWT токен и профиль.
package smsverify

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
	services "github.com/mkozyrev/food-ordering/internal/services/auth"
)

// Handler управляет HTTP-запросами на проверку SMS-кода.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики проверки кода.
type Service interface {
	VerifyCode(ctx context.Context, phone, code string) (string, *models.User, error)
}

// Request тело запроса на проверку кода.
type Request struct {
	Phone string `json:"phone" validate:"required"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
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
// @Summary Проверить SMS-код
// @Description Проверяет одноразовый код и возвращает JWT токен и профиль пользователя.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body Request true "Номер телефона и код"
// @Success 200 {object} response.Response "Токен и профиль"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Неверный или истекший код"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /auth/sms/verify [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.smsverify"

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

	token, user, err := h.service.VerifyCode(r.Context(), req.Phone, req.Code)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCode) {
			log.Error("invalid code", slog.String("phone", req.Phone))
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("invalid or expired code"))
			return
		}
		log.Error("failed to verify code", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to verify code"))
		return
	}

	log.Info("code verified", slog.String("phone", req.Phone), slog.String("user_uid", user.UID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"token": token,
		"user":  user,
	}))
}
