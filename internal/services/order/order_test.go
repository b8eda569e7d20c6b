package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mkozyrev/food-ordering/internal/metrics"
	"github.com/mkozyrev/food-ordering/internal/models"
	"github.com/mkozyrev/food-ordering/internal/paymentprovider"
)

type RepoMock struct {
	mock.Mock
}

func (m *RepoMock) CreateOrder(ctx context.Context, order models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *RepoMock) ReadOrder(ctx context.Context, id string) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *RepoMock) ReadOrderByPaymentID(ctx context.Context, paymentID string) (*models.Order, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *RepoMock) ListOrders(ctx context.Context, limit, offset int) ([]*models.Order, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Order), args.Error(1)
}

func (m *RepoMock) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (int, error) {
	args := m.Called(ctx, id, status)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) CancelOrder(ctx context.Context, order models.Order) (int, error) {
	args := m.Called(ctx, order)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) UpdateOrderPayment(ctx context.Context, id, paymentID, paymentURL, paymentStatus string) (int, error) {
	args := m.Called(ctx, id, paymentID, paymentURL, paymentStatus)
	return args.Int(0), args.Error(1)
}

type ProviderMock struct {
	mock.Mock
}

func (m *ProviderMock) CreateOrderPayment(orderID string, total float64, method models.PaymentMethod) (*paymentprovider.CreatePaymentResponse, error) {
	args := m.Called(orderID, total, method)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentprovider.CreatePaymentResponse), args.Error(1)
}

type PublisherMock struct {
	published int
	fail      bool
}

func (p *PublisherMock) Publish(routingKey string, message any) error {
	p.published++
	if p.fail {
		return errors.New("broker unavailable")
	}
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func validDummy() models.DummyOrder {
	return models.DummyOrder{
		Items: []models.CartItem{
			{DishID: 1, Name: "Борщ", Price: 350, Quantity: 2},
			{DishID: 2, Name: "Компот", Price: 90, Quantity: 1},
		},
		Total:         1.0,
		PaymentMethod: "cash",
		DeliveryType:  "pickup",
		UserPhone:     "+79001234567",
	}
}

func TestCreateCashOrder(t *testing.T) {
	repo := new(RepoMock)
	provider := new(ProviderMock)
	publisher := &PublisherMock{}
	svc := NewOrderService(repo, provider, publisher, discardLogger())

	repo.On("CreateOrder", mock.Anything, mock.AnythingOfType("models.Order")).Return(nil)

	order, err := svc.Create(context.Background(), validDummy())
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, order.Status)
	// Сумма пересчитана на сервере, значение из запроса проигнорировано.
	assert.Equal(t, 790.0, order.Total)
	assert.NotEmpty(t, order.ID)
	assert.Empty(t, order.PaymentID)
	assert.Equal(t, 1, publisher.published)
	repo.AssertExpectations(t)
	provider.AssertNotCalled(t, "CreateOrderPayment", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateOnlineOrder(t *testing.T) {
	repo := new(RepoMock)
	provider := new(ProviderMock)
	svc := NewOrderService(repo, provider, &PublisherMock{}, discardLogger())

	dummy := validDummy()
	dummy.PaymentMethod = "card"

	repo.On("CreateOrder", mock.Anything, mock.AnythingOfType("models.Order")).Return(nil)
	provider.On("CreateOrderPayment", mock.AnythingOfType("string"), 790.0, models.PaymentCard).
		Return(&paymentprovider.CreatePaymentResponse{
			ID:     "pay-1",
			Status: paymentprovider.StatusPendingPayment,
			Confirmation: paymentprovider.Confirmation{
				Type:            "redirect",
				ConfirmationURL: "https://pay.example/redirect",
			},
		}, nil)
	repo.On("UpdateOrderPayment", mock.Anything, mock.AnythingOfType("string"),
		"pay-1", "https://pay.example/redirect", paymentprovider.StatusPendingPayment).Return(1, nil)

	order, err := svc.Create(context.Background(), dummy)
	require.NoError(t, err)

	assert.Equal(t, "pay-1", order.PaymentID)
	assert.Equal(t, "https://pay.example/redirect", order.PaymentURL)
	repo.AssertExpectations(t)
	provider.AssertExpectations(t)
}

func TestCreateProviderFailureKeepsOrder(t *testing.T) {
	repo := new(RepoMock)
	provider := new(ProviderMock)
	svc := NewOrderService(repo, provider, &PublisherMock{}, discardLogger())

	dummy := validDummy()
	dummy.PaymentMethod = "card"

	repo.On("CreateOrder", mock.Anything, mock.AnythingOfType("models.Order")).Return(nil)
	provider.On("CreateOrderPayment", mock.AnythingOfType("string"), 790.0, models.PaymentCard).
		Return(nil, errors.New("provider unavailable"))
	repo.On("UpdateOrderPayment", mock.Anything, mock.AnythingOfType("string"),
		"", "", paymentprovider.StatusFailed).Return(1, nil)

	// Заказ сохранен до обращения к провайдеру, сбой провайдера
	// не должен превращаться в ошибку ответа.
	order, err := svc.Create(context.Background(), dummy)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, paymentprovider.StatusFailed, order.PaymentStatus)
	assert.Empty(t, order.PaymentID)
	assert.Empty(t, order.PaymentURL)
	repo.AssertExpectations(t)
}

func TestCreateIncrementsOrdersCounter(t *testing.T) {
	repo := new(RepoMock)
	svc := NewOrderService(repo, new(ProviderMock), &PublisherMock{}, discardLogger())

	repo.On("CreateOrder", mock.Anything, mock.AnythingOfType("models.Order")).Return(nil)

	before := testutil.ToFloat64(metrics.OrdersCreated)
	_, err := svc.Create(context.Background(), validDummy())
	require.NoError(t, err)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.OrdersCreated))
}

func TestCreateEmptyCart(t *testing.T) {
	svc := NewOrderService(new(RepoMock), new(ProviderMock), &PublisherMock{}, discardLogger())

	dummy := validDummy()
	dummy.Items = nil

	_, err := svc.Create(context.Background(), dummy)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCreateUnknownPaymentMethod(t *testing.T) {
	svc := NewOrderService(new(RepoMock), new(ProviderMock), &PublisherMock{}, discardLogger())

	dummy := validDummy()
	dummy.PaymentMethod = "crypto"

	_, err := svc.Create(context.Background(), dummy)
	assert.ErrorIs(t, err, ErrInvalidPayment)
}

func TestCreatePublisherFailureIgnored(t *testing.T) {
	repo := new(RepoMock)
	publisher := &PublisherMock{fail: true}
	svc := NewOrderService(repo, new(ProviderMock), publisher, discardLogger())

	repo.On("CreateOrder", mock.Anything, mock.AnythingOfType("models.Order")).Return(nil)

	order, err := svc.Create(context.Background(), validDummy())
	require.NoError(t, err)
	assert.NotNil(t, order)
	assert.Equal(t, 1, publisher.published)
}

func TestUpdateStatusAllowed(t *testing.T) {
	repo := new(RepoMock)
	svc := NewOrderService(repo, new(ProviderMock), &PublisherMock{}, discardLogger())

	repo.On("ReadOrder", mock.Anything, "100").
		Return(&models.Order{ID: "100", Status: models.StatusPending}, nil)
	repo.On("UpdateOrderStatus", mock.Anything, "100", models.StatusPreparing).Return(1, nil)

	order, err := svc.UpdateStatus(context.Background(), "100", models.StatusPreparing)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPreparing, order.Status)
	repo.AssertExpectations(t)
}

func TestUpdateStatusRejected(t *testing.T) {
	repo := new(RepoMock)
	svc := NewOrderService(repo, new(ProviderMock), &PublisherMock{}, discardLogger())

	repo.On("ReadOrder", mock.Anything, "100").
		Return(&models.Order{ID: "100", Status: models.StatusDelivered}, nil)

	_, err := svc.UpdateStatus(context.Background(), "100", models.StatusPreparing)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	repo.AssertNotCalled(t, "UpdateOrderStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateStatusUnknown(t *testing.T) {
	svc := NewOrderService(new(RepoMock), new(ProviderMock), &PublisherMock{}, discardLogger())

	_, err := svc.UpdateStatus(context.Background(), "100", models.OrderStatus("shipped"))
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestCancel(t *testing.T) {
	repo := new(RepoMock)
	svc := NewOrderService(repo, new(ProviderMock), &PublisherMock{}, discardLogger())

	repo.On("ReadOrder", mock.Anything, "100").
		Return(&models.Order{ID: "100", Status: models.StatusPending}, nil)
	repo.On("CancelOrder", mock.Anything, mock.AnythingOfType("models.Order")).Return(1, nil)

	order, err := svc.Cancel(context.Background(), "100", "Нет курьеров")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, order.Status)
	assert.Equal(t, "Нет курьеров", order.CancelReason)
	require.NotNil(t, order.CancelledAt)
}

func TestCancelIdempotent(t *testing.T) {
	repo := new(RepoMock)
	svc := NewOrderService(repo, new(ProviderMock), &PublisherMock{}, discardLogger())

	repo.On("ReadOrder", mock.Anything, "100").
		Return(&models.Order{ID: "100", Status: models.StatusCancelled, CancelReason: "Первая причина"}, nil)

	order, err := svc.Cancel(context.Background(), "100", "Вторая причина")
	require.NoError(t, err)
	assert.Equal(t, "Первая причина", order.CancelReason)
	repo.AssertNotCalled(t, "CancelOrder", mock.Anything, mock.Anything)
}

func TestCancelDefaultReason(t *testing.T) {
	repo := new(RepoMock)
	svc := NewOrderService(repo, new(ProviderMock), &PublisherMock{}, discardLogger())

	repo.On("ReadOrder", mock.Anything, "100").
		Return(&models.Order{ID: "100", Status: models.StatusReady}, nil)
	repo.On("CancelOrder", mock.Anything, mock.AnythingOfType("models.Order")).Return(1, nil)

	order, err := svc.Cancel(context.Background(), "100", "")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultCancelReason, order.CancelReason)
}

func TestProcessPaymentSucceeded(t *testing.T) {
	repo := new(RepoMock)
	svc := NewOrderService(repo, new(ProviderMock), &PublisherMock{}, discardLogger())

	repo.On("ReadOrderByPaymentID", mock.Anything, "pay-1").
		Return(&models.Order{ID: "100", Status: models.StatusPending, PaymentID: "pay-1", PaymentURL: "https://pay.example"}, nil)
	repo.On("UpdateOrderPayment", mock.Anything, "100", "pay-1", "https://pay.example", paymentprovider.StatusSucceeded).
		Return(1, nil)

	err := svc.ProcessPaymentEvent(context.Background(), "payment.succeeded", "pay-1", paymentprovider.StatusSucceeded)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestProcessPaymentCanceled(t *testing.T) {
	repo := new(RepoMock)
	svc := NewOrderService(repo, new(ProviderMock), &PublisherMock{}, discardLogger())

	repo.On("ReadOrderByPaymentID", mock.Anything, "pay-1").
		Return(&models.Order{ID: "100", Status: models.StatusPending, PaymentID: "pay-1"}, nil)
	repo.On("UpdateOrderPayment", mock.Anything, "100", "pay-1", "", paymentprovider.StatusCanceled).Return(1, nil)
	repo.On("ReadOrder", mock.Anything, "100").
		Return(&models.Order{ID: "100", Status: models.StatusPending, PaymentID: "pay-1"}, nil)
	repo.On("CancelOrder", mock.Anything, mock.AnythingOfType("models.Order")).Return(1, nil)

	err := svc.ProcessPaymentEvent(context.Background(), "payment.canceled", "pay-1", paymentprovider.StatusCanceled)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestProcessPaymentCanceledDeliveredOrder(t *testing.T) {
	repo := new(RepoMock)
	svc := NewOrderService(repo, new(ProviderMock), &PublisherMock{}, discardLogger())

	delivered := &models.Order{ID: "100", Status: models.StatusDelivered, PaymentID: "pay-1"}
	repo.On("ReadOrderByPaymentID", mock.Anything, "pay-1").Return(delivered, nil)
	repo.On("UpdateOrderPayment", mock.Anything, "100", "pay-1", "", paymentprovider.StatusCanceled).Return(1, nil)
	repo.On("ReadOrder", mock.Anything, "100").Return(delivered, nil)

	// Провайдер повторяет уведомление при ошибке ответа: доставленный
	// заказ остается как есть, уведомление считается обработанным.
	err := svc.ProcessPaymentEvent(context.Background(), "payment.canceled", "pay-1", paymentprovider.StatusCanceled)
	require.NoError(t, err)
	repo.AssertNotCalled(t, "CancelOrder", mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}
