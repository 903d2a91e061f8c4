package rabbitmq

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/streadway/amqp"
)

// ExpiringReminder описывает событие "подписка скоро истекает",
// публикуемое для почтового воркера.
type ExpiringReminder struct {
	TenantUID     string    `json:"tenant_uid"`
	IsTrial       bool      `json:"is_trial"`
	EndDate       time.Time `json:"end_date"`
	DaysRemaining int       `json:"days_remaining"`
}

// ReminderPublisher публикует напоминания в exchange "reminders".
type ReminderPublisher struct {
	ch *amqp.Channel
}

// NewReminderPublisher создает новый экземпляр ReminderPublisher.
func NewReminderPublisher(ch *amqp.Channel) *ReminderPublisher {
	return &ReminderPublisher{ch: ch}
}

// PublishExpiring публикует событие "подписка скоро истекает".
func (p *ReminderPublisher) PublishExpiring(reminder ExpiringReminder) error {
	return PublishMessage(p.ch, "reminders", "expiring", reminder)
}

// PublishMessage публикует сообщение в RabbitMQ.
func PublishMessage(ch *amqp.Channel, exchange string, routingkey string, message any) error {
	const op = "rabbitmq.PublishMessage"
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = ch.Publish(
		exchange,
		routingkey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
