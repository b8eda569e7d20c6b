package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mkozyrev/food-ordering/internal/config"
)

// DispatchResult результат обращения к SMS-шлюзу.
type DispatchResult string

// Возможные исходы отправки сообщения.
const (
	Delivered DispatchResult = "delivered"
	Failed    DispatchResult = "failed"
	Demo      DispatchResult = "demo"
)

// Gateway описывает внешнего поставщика SMS.
type Gateway interface {
	Send(ctx context.Context, phone, text string) (DispatchResult, error)
}

// HTTPGateway отправляет сообщения через HTTP API провайдера.
type HTTPGateway struct {
	apiURL     string
	apiKey     string
	sender     string
	httpClient *http.Client
}

// NewHTTPGateway создает шлюз с таймаутом на запросы.
func NewHTTPGateway(cfg config.SMSGateway) *HTTPGateway {
	return &HTTPGateway{
		apiURL:     cfg.SMSAPIURL,
		apiKey:     cfg.SMSAPIKey,
		sender:     cfg.SMSSender,
		httpClient: &http.Client{Timeout: cfg.SMSTimeout},
	}
}

// Send отправляет сообщение. Неуспех провайдера возвращается как Failed
// с ошибкой, а не маскируется под успех.
func (g *HTTPGateway) Send(ctx context.Context, phone, text string) (DispatchResult, error) {
	const op = "sms.HTTPGateway.Send"

	form := url.Values{}
	form.Set("to", phone)
	form.Set("text", text)
	form.Set("from", g.sender)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return Failed, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return Failed, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Failed, fmt.Errorf("%s: unexpected status: %s", op, resp.Status)
	}

	var body struct {
		Status string `json:"status"`
		Error  string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Failed, fmt.Errorf("%s: %w", op, err)
	}
	if body.Status != "ok" {
		return Failed, fmt.Errorf("%s: provider rejected message: %s", op, body.Error)
	}
	return Delivered, nil
}

// DemoGateway не отправляет сообщения, а пишет код в лог.
// Используется в окружениях без договора с провайдером.
type DemoGateway struct {
	log *slog.Logger
}

// NewDemoGateway создает демо-шлюз.
func NewDemoGateway(log *slog.Logger) *DemoGateway {
	return &DemoGateway{log: log}
}

// Send пишет сообщение в лог и сообщает о демо-режиме.
func (g *DemoGateway) Send(_ context.Context, phone, text string) (DispatchResult, error) {
	g.log.Info("demo sms dispatch",
		slog.String("phone", phone),
		slog.String("text", text),
		slog.Time("at", time.Now()))
	return Demo, nil
}
