package rabbitmq

import "github.com/streadway/amqp"

// Publisher публикует сообщения в exchange заказов через открытый канал.
type Publisher struct {
	ch       *amqp.Channel
	exchange string
}

// NewPublisher создает новый экземпляр Publisher.
func NewPublisher(ch *amqp.Channel, exchange string) *Publisher {
	return &Publisher{ch: ch, exchange: exchange}
}

// Publish сериализует сообщение и отправляет его с данным ключом маршрутизации.
func (p *Publisher) Publish(routingKey string, message any) error {
	return PublishMessage(p.ch, p.exchange, routingKey, message)
}
