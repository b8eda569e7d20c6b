// Package api реализует типизированный HTTP-клиент серверного API.
// Клиент используется приложением на устройстве: корзина и заказы живут
// локально, сюда уходят только синхронизация и админские операции.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mkozyrev/food-ordering/internal/models"
)

// Client типизированный клиент серверного API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New создает клиент с таймаутом на запросы.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// SetToken устанавливает JWT для последующих запросов.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Token возвращает текущий JWT клиента.
func (c *Client) Token() string {
	return c.token
}

type envelope struct {
	Status string          `json:"status"`
	Error  string          `json:"error"`
	Data   json.RawMessage `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	const op = "api.Client.do"

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%s: unexpected response: %w", op, err)
	}
	if resp.StatusCode != http.StatusOK || env.Status != "OK" {
		if env.Error != "" {
			return fmt.Errorf("%s: server error: %s", op, env.Error)
		}
		return fmt.Errorf("%s: unexpected status: %s", op, resp.Status)
	}
	if result != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, result); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}

// Menu возвращает блюда и категории меню.
func (c *Client) Menu(ctx context.Context) ([]*models.Dish, []*models.Category, error) {
	var data struct {
		Dishes     []*models.Dish     `json:"dishes"`
		Categories []*models.Category `json:"categories"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/menu", nil, &data); err != nil {
		return nil, nil, err
	}
	return data.Dishes, data.Categories, nil
}

// Categories возвращает категории меню.
func (c *Client) Categories(ctx context.Context) ([]*models.Category, error) {
	var data struct {
		Categories []*models.Category `json:"categories"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/categories", nil, &data); err != nil {
		return nil, err
	}
	return data.Categories, nil
}

// CreateDish добавляет блюдо и возвращает его ID.
func (c *Client) CreateDish(ctx context.Context, req models.DummyDish) (int64, error) {
	var data struct {
		ID int64 `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/admin/dishes", req, &data); err != nil {
		return 0, err
	}
	return data.ID, nil
}

// UpdateDish обновляет блюдо по ID.
func (c *Client) UpdateDish(ctx context.Context, id int64, req models.DummyDish) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/api/v1/admin/dishes/%d", id), req, nil)
}

// RemoveDish удаляет блюдо по ID.
func (c *Client) RemoveDish(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/v1/admin/dishes/%d", id), nil, nil)
}

// ToggleDish переключает доступность блюда и возвращает новое состояние.
func (c *Client) ToggleDish(ctx context.Context, id int64) (bool, error) {
	var data struct {
		Available bool `json:"available"`
	}
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/v1/admin/dishes/%d/toggle", id), nil, &data); err != nil {
		return false, err
	}
	return data.Available, nil
}

// CreateOrderResult результат создания заказа на сервере.
type CreateOrderResult struct {
	OrderID    string `json:"orderId"`
	PaymentURL string `json:"payment_url"`
}

// CreateOrder отправляет заказ на сервер.
func (c *Client) CreateOrder(ctx context.Context, req models.DummyOrder) (*CreateOrderResult, error) {
	var data CreateOrderResult
	if err := c.do(ctx, http.MethodPost, "/api/v1/order", req, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Orders возвращает заказы, новые первыми.
func (c *Client) Orders(ctx context.Context, limit, offset int) ([]*models.Order, error) {
	var data struct {
		Orders []*models.Order `json:"orders"`
	}
	path := fmt.Sprintf("/api/v1/admin/orders?limit=%d&offset=%d", limit, offset)
	if err := c.do(ctx, http.MethodGet, path, nil, &data); err != nil {
		return nil, err
	}
	return data.Orders, nil
}

// UpdateOrderStatus переводит заказ в новый статус.
func (c *Client) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	var order models.Order
	path := fmt.Sprintf("/api/v1/admin/orders/%s/status", id)
	if err := c.do(ctx, http.MethodPatch, path, models.DummyStatusUpdate{Status: string(status)}, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CancelOrder отменяет заказ с необязательной причиной.
func (c *Client) CancelOrder(ctx context.Context, id, reason string) (*models.Order, error) {
	var order models.Order
	path := fmt.Sprintf("/api/v1/admin/orders/%s/cancel", id)
	if err := c.do(ctx, http.MethodPost, path, models.DummyCancel{Reason: reason}, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// Restaurant возвращает данные ресторана.
func (c *Client) Restaurant(ctx context.Context) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := c.do(ctx, http.MethodGet, "/api/v1/restaurant", nil, &restaurant); err != nil {
		return nil, err
	}
	return &restaurant, nil
}

// UpdateRestaurant обновляет данные ресторана.
func (c *Client) UpdateRestaurant(ctx context.Context, req models.DummyRestaurant) error {
	return c.do(ctx, http.MethodPut, "/api/v1/admin/restaurant", req, nil)
}

// LoginAdmin выполняет вход администратора и запоминает полученный токен.
func (c *Client) LoginAdmin(ctx context.Context, username, password string) (string, error) {
	var data struct {
		Token string `json:"token"`
	}
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/admin/login", body, &data); err != nil {
		return "", err
	}
	c.token = data.Token
	return data.Token, nil
}

// SendSMS запрашивает одноразовый код на номер телефона.
func (c *Client) SendSMS(ctx context.Context, phone string) (string, error) {
	var data struct {
		Result string `json:"result"`
	}
	body := map[string]string{"phone": phone}
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/sms/send", body, &data); err != nil {
		return "", err
	}
	return data.Result, nil
}

// VerifySMS проверяет код и запоминает полученный токен.
func (c *Client) VerifySMS(ctx context.Context, phone, code string) (*models.User, error) {
	var data struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	body := map[string]string{"phone": phone, "code": code}
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/sms/verify", body, &data); err != nil {
		return nil, err
	}
	c.token = data.Token
	return &data.User, nil
}
