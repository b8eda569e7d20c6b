// Package services содержит логику бизнес-уровня для аутентификации:
// вход администратора и подтверждение телефона по SMS-коду.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mkozyrev/food-ordering/internal/lib/jwt"
	"github.com/mkozyrev/food-ordering/internal/lib/password"
	"github.com/mkozyrev/food-ordering/internal/lib/sl"
	"github.com/mkozyrev/food-ordering/internal/metrics"
	"github.com/mkozyrev/food-ordering/internal/models"
	"github.com/mkozyrev/food-ordering/internal/sms"
	"github.com/mkozyrev/food-ordering/internal/storage/repository"
)

// Роли, попадающие в claims токена.
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// Ошибки уровня бизнес-логики аутентификации.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidCode единый ответ на отсутствующий, истёкший и неверный код.
	ErrInvalidCode = errors.New("invalid code")
	ErrEmptyPhone  = errors.New("phone is required")
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает его UID.
	CreateUser(ctx context.Context, user models.User) (string, error)
	// GetUserByPhone возвращает пользователя по телефону
	// или repository.ErrUserNotFound.
	GetUserByPhone(ctx context.Context, phone string) (*models.User, error)
	// GetUser возвращает пользователя по UID или repository.ErrUserNotFound.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	// UpdateUser обновляет профиль и возвращает количество изменённых строк.
	UpdateUser(ctx context.Context, user models.User) (int, error)
}

// AuthService отвечает за вход администратора, SMS-коды и валидацию JWT.
type AuthService struct {
	users         UserRepository
	codes         *sms.CodeStore
	gateway       sms.Gateway
	jwtMaker      jwt.Maker
	adminUsername string
	adminHash     string
	log           *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, codes *sms.CodeStore, gateway sms.Gateway,
	jwtMaker jwt.Maker, adminUsername, adminHash string, log *slog.Logger) *AuthService {
	return &AuthService{
		users:         users,
		codes:         codes,
		gateway:       gateway,
		jwtMaker:      jwtMaker,
		adminUsername: adminUsername,
		adminHash:     adminHash,
		log:           log,
	}
}

// LoginAdmin проверяет учетные данные администратора и выдает короткоживущий JWT.
func (s *AuthService) LoginAdmin(_ context.Context, username, rawPassword string) (string, error) {
	if username != s.adminUsername {
		return "", ErrInvalidCredentials
	}
	if err := password.CompareHash(s.adminHash, rawPassword); err != nil {
		return "", ErrInvalidCredentials
	}
	token, err := s.jwtMaker.GenerateToken(username, RoleAdmin, "admin")
	if err != nil {
		return "", err
	}
	return token, nil
}

// SendCode генерирует шестизначный код, отправляет его через шлюз
// и сохраняет с временем жизни. Повторная отправка перезаписывает
// прежний код. Неуспех шлюза в боевом режиме возвращается ошибкой,
// демо-режим явно помечается в результате.
func (s *AuthService) SendCode(ctx context.Context, phone string) (sms.DispatchResult, error) {
	const op = "auth.SendCode"
	if phone == "" {
		return sms.Failed, ErrEmptyPhone
	}

	code, err := sms.GenerateCode()
	if err != nil {
		return sms.Failed, fmt.Errorf("%s: %w", op, err)
	}

	result, err := s.gateway.Send(ctx, phone, "Ваш код подтверждения: "+code)
	if err != nil {
		s.log.Error("sms dispatch failed", slog.String("phone", phone), sl.Err(err))
		return sms.Failed, fmt.Errorf("%s: %w", op, err)
	}

	s.codes.Put(phone, code)
	metrics.SMSCodesSent.Inc()
	s.log.Info("sms code issued",
		slog.String("phone", phone),
		slog.String("dispatch", string(result)))
	return result, nil
}

// VerifyCode проверяет код и возвращает JWT вместе с пользователем.
// Код одноразовый. Личность разрешается хранилищем: существующая
// учётная запись возвращается, отсутствующая создаётся с телефоном
// в качестве идентификатора.
func (s *AuthService) VerifyCode(ctx context.Context, phone, code string) (string, *models.User, error) {
	const op = "auth.VerifyCode"
	if phone == "" || code == "" {
		return "", nil, ErrInvalidCode
	}

	if !s.codes.Verify(phone, code) {
		return "", nil, ErrInvalidCode
	}

	user, err := s.users.GetUserByPhone(ctx, phone)
	if errors.Is(err, repository.ErrUserNotFound) {
		newUser := models.User{
			Phone:     phone,
			Email:     phone,
			CreatedAt: time.Now().UTC(),
		}
		uid, createErr := s.users.CreateUser(ctx, newUser)
		if createErr != nil {
			return "", nil, fmt.Errorf("%s: %w", op, createErr)
		}
		newUser.UID = uid
		user = &newUser
		s.log.Info("created user on first verification", slog.String("phone", phone))
	} else if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}

	token, err := s.jwtMaker.GenerateToken(phone, RoleCustomer, user.UID)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	return token, user, nil
}

// Profile возвращает профиль пользователя по его UID.
func (s *AuthService) Profile(ctx context.Context, userUID string) (*models.User, error) {
	const op = "auth.Profile"

	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// UpdateProfile применяет правки профиля: имя, почту и новые адреса.
// Адреса только добавляются, дубликаты отбрасываются.
func (s *AuthService) UpdateProfile(ctx context.Context, userUID string, upd models.DummyProfileUpdate) (*models.User, error) {
	const op = "auth.UpdateProfile"

	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if upd.Name != "" {
		user.Name = upd.Name
	}
	if upd.Email != "" {
		user.Email = upd.Email
	}
	for _, addr := range upd.Addresses {
		user.AddAddress(addr)
	}

	count, err := s.users.UpdateUser(ctx, *user)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if count == 0 {
		return nil, fmt.Errorf("%s: %w", op, repository.ErrUserNotFound)
	}
	return user, nil
}

// ValidateToken проверяет JWT и возвращает claims, если токен корректен.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*jwt.CustomClaims, error) {
	return s.jwtMaker.ParseToken(token)
}
