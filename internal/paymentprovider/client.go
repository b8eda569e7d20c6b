// Package paymentprovider содержит клиент платёжного провайдера.
// Провайдер внешний: сервис только создаёт платёж и получает
// ссылку подтверждения либо отказ.
package paymentprovider

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mkozyrev/food-ordering/internal/models"
)

// Client клиент API ЮKassa.
type Client struct {
	shopID     string
	secretKey  string
	apiURL     string
	returnURL  string
	httpClient *http.Client
}

// NewClient создаёт новый клиент провайдера.
func NewClient(shopID, secretKey, apiURL, returnURL string) *Client {
	return &Client{
		shopID:     shopID,
		secretKey:  secretKey,
		apiURL:     apiURL,
		returnURL:  returnURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) newRequest(method, path string, body interface{}) (*http.Request, error) {
	url := c.apiURL + path
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		return nil, err
	}
	auth := base64.StdEncoding.EncodeToString([]byte(c.shopID + ":" + c.secretKey))
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotence-Key", uuid.NewString())
	return req, nil
}

// methodTypes соответствие способов оплаты заказа типам провайдера.
var methodTypes = map[models.PaymentMethod]string{
	models.PaymentCard:    "bank_card",
	models.PaymentSberPay: "sberbank",
	models.PaymentSBP:     "sbp",
}

// ErrUnsupportedMethod возвращается для способов оплаты без онлайн-платежа.
var ErrUnsupportedMethod = errors.New("payment method is not handled by the provider")

// CreateOrderPayment создает платёж по заказу и возвращает ответ провайдера
// со ссылкой подтверждения. Наличные провайдером не обрабатываются.
func (c *Client) CreateOrderPayment(orderID string, total float64, method models.PaymentMethod) (*CreatePaymentResponse, error) {
	methodType, ok := methodTypes[method]
	if !ok {
		return nil, ErrUnsupportedMethod
	}

	reqParams := CreatePaymentRequest{
		Amount: Amount{
			Value:    fmt.Sprintf("%.2f", total),
			Currency: "RUB",
		},
		Capture: true,
		Confirmation: Confirmation{
			Type:      "redirect",
			ReturnURL: c.returnURL,
		},
		PaymentMethodData: PaymentMethodData{Type: methodType},
		Description:       "Заказ №" + orderID,
		Metadata:          map[string]string{"order_id": orderID},
	}
	return c.CreatePayment(reqParams)
}

// CreatePayment отправляет запрос на создание платежа.
func (c *Client) CreatePayment(reqParams CreatePaymentRequest) (*CreatePaymentResponse, error) {
	req, err := c.newRequest("POST", "/payments", reqParams)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, errors.New("unexpected status: " + resp.Status)
	}

	var paymentResp CreatePaymentResponse
	if err := json.NewDecoder(resp.Body).Decode(&paymentResp); err != nil {
		return nil, err
	}
	return &paymentResp, nil
}
