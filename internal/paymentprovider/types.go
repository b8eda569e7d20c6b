package paymentprovider

// Amount денежная сумма в формате провайдера.
type Amount struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

// Confirmation сценарий подтверждения платежа. Для заказов используется
// redirect: покупатель переходит по ConfirmationURL.
type Confirmation struct {
	Type            string `json:"type"`
	ReturnURL       string `json:"return_url,omitempty"`
	ConfirmationURL string `json:"confirmation_url,omitempty"`
}

// PaymentMethodData способ оплаты на стороне провайдера.
type PaymentMethodData struct {
	Type string `json:"type"`
}

// CreatePaymentRequest запрос на создание платежа.
type CreatePaymentRequest struct {
	Amount            Amount            `json:"amount"`
	Capture           bool              `json:"capture"`
	Confirmation      Confirmation      `json:"confirmation"`
	PaymentMethodData PaymentMethodData `json:"payment_method_data"`
	Description       string            `json:"description,omitempty"`
	Metadata          map[string]string `json:"metadata,omitempty"`
}

// CreatePaymentResponse ответ провайдера на создание платежа.
type CreatePaymentResponse struct {
	ID           string       `json:"id"`
	Status       string       `json:"status"`
	Paid         bool         `json:"paid"`
	Amount       Amount       `json:"amount"`
	Confirmation Confirmation `json:"confirmation"`
}

// Статусы платежа провайдера.
const (
	StatusPendingPayment    = "pending"
	StatusWaitingForCapture = "waiting_for_capture"
	StatusSucceeded         = "succeeded"
	StatusCanceled          = "canceled"
)

// StatusFailed локальный статус заказа: платеж не удалось создать
// у провайдера. В ответах самого провайдера не встречается.
const StatusFailed = "failed"
