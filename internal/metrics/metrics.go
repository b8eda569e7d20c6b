// Package metrics содержит счетчики Prometheus приложения.
// Счетчики регистрируются в реестре по умолчанию и отдаются
// обработчиком /metrics вместе со стандартными коллекторами.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// OrdersCreated считает успешно сохраненные заказы.
var OrdersCreated = promauto.NewCounter(prometheus.CounterOpts{
	Name: "food_ordering_orders_created_total",
	Help: "Количество созданных заказов.",
})

// SMSCodesSent считает отправленные коды подтверждения.
var SMSCodesSent = promauto.NewCounter(prometheus.CounterOpts{
	Name: "food_ordering_sms_codes_sent_total",
	Help: "Количество отправленных SMS-кодов подтверждения.",
})
