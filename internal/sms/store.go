// Package sms реализует выдачу и проверку одноразовых SMS-кодов:
// хранилище кодов с истечением и шлюз отправки сообщений.
package sms

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"
)

// CodeStore хранит по одному активному коду на телефон.
// Повторная отправка перезаписывает прежний код, успешная проверка удаляет его.
type CodeStore struct {
	mu    sync.Mutex
	codes map[string]record
	ttl   time.Duration
	now   func() time.Time
}

type record struct {
	code      string
	expiresAt time.Time
}

// NewCodeStore создает хранилище кодов с заданным временем жизни.
func NewCodeStore(ttl time.Duration) *CodeStore {
	return &CodeStore{
		codes: make(map[string]record),
		ttl:   ttl,
		now:   time.Now,
	}
}

// GenerateCode возвращает случайный шестизначный код.
func GenerateCode() (string, error) {
	const op = "sms.GenerateCode"
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// Put сохраняет код для телефона, перезаписывая прежний.
func (s *CodeStore) Put(phone, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[phone] = record{
		code:      code,
		expiresAt: s.now().Add(s.ttl),
	}
}

// Verify проверяет код для телефона. Код одноразовый: при совпадении
// запись удаляется. Истёкшая запись также удаляется, проверка не проходит.
func (s *CodeStore) Verify(phone, code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.codes[phone]
	if !ok {
		return false
	}
	if s.now().After(rec.expiresAt) {
		delete(s.codes, phone)
		return false
	}
	if rec.code != code {
		return false
	}
	delete(s.codes, phone)
	return true
}

// Has сообщает, есть ли активный код для телефона.
func (s *CodeStore) Has(phone string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.codes[phone]
	if !ok {
		return false
	}
	if s.now().After(rec.expiresAt) {
		delete(s.codes, phone)
		return false
	}
	return true
}
