package middlewarectx

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/render"
	"golang.org/x/time/rate"

	"github.com/mkozyrev/food-ordering/internal/http/response"
)

var limiter = rate.NewLimiter(1, 3)

// RateLimitMiddleware ограничивает общую частоту запросов к группе маршрутов.
func RateLimitMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				log.Error("too many requests")
				w.WriteHeader(http.StatusTooManyRequests)
				render.JSON(w, r, response.Error("too many requests"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// PhoneLimiter выдает отдельный лимитер на каждый номер телефона.
// Один запрос кода в 30 секунд на номер. Лимитеры номеров, не
// появлявшихся дольше ttl, удаляются, карта не растет бесконечно.
type PhoneLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*phoneEntry
	ttl       time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type phoneEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// NewPhoneLimiter создает новый экземпляр PhoneLimiter.
func NewPhoneLimiter() *PhoneLimiter {
	return &PhoneLimiter{
		limiters: make(map[string]*phoneEntry),
		ttl:      10 * time.Minute,
		now:      time.Now,
	}
}

// Allow сообщает, разрешен ли запрос для данного номера.
func (p *PhoneLimiter) Allow(phone string) bool {
	now := p.now()
	p.mu.Lock()
	p.sweep(now)
	entry, ok := p.limiters[phone]
	if !ok {
		entry = &phoneEntry{lim: rate.NewLimiter(rate.Every(30*time.Second), 1)}
		p.limiters[phone] = entry
	}
	entry.lastSeen = now
	p.mu.Unlock()
	return entry.lim.Allow()
}

// sweep удаляет устаревшие записи. Вызывается под мьютексом,
// не чаще раза в минуту.
func (p *PhoneLimiter) sweep(now time.Time) {
	if now.Sub(p.lastSweep) < time.Minute {
		return
	}
	p.lastSweep = now
	for phone, entry := range p.limiters {
		if now.Sub(entry.lastSeen) > p.ttl {
			delete(p.limiters, phone)
		}
	}
}

// PhoneRateLimitMiddleware ограничивает частоту запросов SMS-кода по номеру
// телефона из тела запроса. Тело восстанавливается для следующего обработчика.
func PhoneRateLimitMiddleware(limiter *PhoneLimiter, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(r.Body)
			if err != nil {
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, response.Error("invalid request body"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			var req struct {
				Phone string `json:"phone"`
			}
			if err := json.Unmarshal(body, &req); err == nil && req.Phone != "" {
				if !limiter.Allow(req.Phone) {
					log.Error("sms rate limit exceeded", slog.String("phone", req.Phone))
					w.WriteHeader(http.StatusTooManyRequests)
					render.JSON(w, r, response.Error("too many code requests, try again later"))
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
