package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/mkozyrev/food-ordering/internal/models"
)

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateDish создает тестовое блюдо
func (f *TestDataFactory) CreateDish(t *testing.T, name string, price float64, category string, available bool) int64 {
	var id int64
	err := f.storage.DB.QueryRow(`INSERT INTO dishes (name, price, category, available)
		VALUES ($1, $2, $3, $4) RETURNING id`,
		name, price, category, available).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateCategory создает тестовую категорию
func (f *TestDataFactory) CreateCategory(t *testing.T, name string, sortOrder int, visible bool) int64 {
	var id int64
	err := f.storage.DB.QueryRow(`INSERT INTO categories (name, sort_order, visible)
		VALUES ($1, $2, $3) RETURNING id`,
		name, sortOrder, visible).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateOrder создает тестовый заказ со статусом pending
func (f *TestDataFactory) CreateOrder(t *testing.T, id string, total float64, paymentMethod models.PaymentMethod, createdAt time.Time) {
	_, err := f.storage.DB.Exec(`INSERT INTO orders
		(id, items, total, payment_method, delivery_type, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, `[{"dish_id":1,"name":"Борщ","price":450,"quantity":1}]`,
		total, paymentMethod, models.DeliveryPickup, models.StatusPending, createdAt)
	require.NoError(t, err)
}

// CreateUser создает тестового пользователя
func (f *TestDataFactory) CreateUser(t *testing.T, name, phone string, isAdmin bool) string {
	var uid string
	err := f.storage.DB.QueryRow(`INSERT INTO users (name, phone, is_admin)
		VALUES ($1, $2, $3) RETURNING uid`,
		name, phone, isAdmin).Scan(&uid)
	require.NoError(t, err)
	return uid
}

// TestVerification содержит общие функции для проверки результатов тестов
type TestVerification struct {
	storage *Storage
}

// NewTestVerification создает новый объект для проверки результатов
func NewTestVerification(storage *Storage) *TestVerification {
	return &TestVerification{storage: storage}
}

// VerifyDishExists проверяет существование блюда в БД
func (v *TestVerification) VerifyDishExists(t *testing.T, dishID int64) {
	var count int
	err := v.storage.DB.QueryRow("SELECT COUNT(*) FROM dishes WHERE id = $1", dishID).Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

// VerifyDishDeleted проверяет удаление блюда из БД
func (v *TestVerification) VerifyDishDeleted(t *testing.T, dishID int64) {
	var count int
	err := v.storage.DB.QueryRow("SELECT COUNT(*) FROM dishes WHERE id = $1", dishID).Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 0, count)
}

// VerifyOrderStatus проверяет статус заказа
func (v *TestVerification) VerifyOrderStatus(t *testing.T, orderID string, expected models.OrderStatus) {
	var status string
	err := v.storage.DB.QueryRow("SELECT status FROM orders WHERE id = $1", orderID).Scan(&status)
	require.NoError(t, err)
	require.Equal(t, string(expected), status)
}

// setupTestDatabase создает тестовую БД с контейнером PostgreSQL
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(3*time.Minute)),
	)
	require.NoError(t, err, "failed to start container")

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	// Пробуем подключиться несколько раз с ретраями
	var storage *Storage
	for range 10 {
		storage, err = New(connStr)
		if err == nil {
			err = storage.DB.Ping()
			if err == nil {
				break
			}
		}
		time.Sleep(1 * time.Second)
	}
	require.NoError(t, err, "failed to create storage after retries")

	// Создаем таблицы
	_, err = storage.DB.Exec(`
        CREATE EXTENSION IF NOT EXISTS "uuid-ossp";

        CREATE TABLE users (
            uid UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
            name TEXT NOT NULL DEFAULT '',
            phone TEXT NOT NULL UNIQUE,
            email TEXT NOT NULL DEFAULT '',
            is_admin BOOLEAN NOT NULL DEFAULT FALSE,
            addresses TEXT NOT NULL DEFAULT '[]',
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        );

        CREATE TABLE categories (
            id BIGSERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            sort_order INT NOT NULL DEFAULT 0,
            visible BOOLEAN NOT NULL DEFAULT TRUE
        );

        CREATE TABLE dishes (
            id BIGSERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            price NUMERIC(10, 2) NOT NULL,
            image_url TEXT NOT NULL DEFAULT '',
            category TEXT NOT NULL,
            available BOOLEAN NOT NULL DEFAULT TRUE,
            weight TEXT NOT NULL DEFAULT '',
            ingredients TEXT NOT NULL DEFAULT '[]'
        );

        CREATE TABLE orders (
            id TEXT PRIMARY KEY,
            items TEXT NOT NULL,
            total NUMERIC(10, 2) NOT NULL,
            utensils_count INT NOT NULL DEFAULT 0,
            payment_method TEXT NOT NULL,
            delivery_type TEXT NOT NULL,
            delivery_address TEXT NOT NULL DEFAULT '',
            delivery_time TEXT NOT NULL DEFAULT '',
            comments TEXT NOT NULL DEFAULT '',
            status TEXT NOT NULL DEFAULT 'pending',
            cancel_reason TEXT NOT NULL DEFAULT '',
            cancelled_at TIMESTAMPTZ,
            payment_id TEXT NOT NULL DEFAULT '',
            payment_url TEXT NOT NULL DEFAULT '',
            payment_status TEXT NOT NULL DEFAULT '',
            user_uid TEXT NOT NULL DEFAULT '',
            user_name TEXT NOT NULL DEFAULT '',
            user_phone TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        );

        CREATE TABLE restaurant (
            id INT PRIMARY KEY CHECK (id = 1),
            name TEXT NOT NULL DEFAULT '',
            address TEXT NOT NULL DEFAULT '',
            phone TEXT NOT NULL DEFAULT '',
            working_hours TEXT NOT NULL DEFAULT '',
            pickup_window TEXT NOT NULL DEFAULT '',
            delivery_window TEXT NOT NULL DEFAULT '',
            logo_url TEXT NOT NULL DEFAULT ''
        );

        INSERT INTO restaurant (id, name, working_hours)
        VALUES (1, 'Ресторан', '10:00-22:00');
    `)
	require.NoError(t, err, "failed to create tables")

	cleanup := func() {
		if storage != nil && storage.DB != nil {
			_ = storage.DB.Close()
		}
		if postgresContainer != nil {
			_ = postgresContainer.Terminate(ctx)
		}
	}

	return storage, cleanup
}
