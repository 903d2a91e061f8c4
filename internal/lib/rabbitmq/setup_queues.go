package rabbitmq

// QueueConfig описывает очередь и ключ маршрутизации в exchange напоминаний.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetReminderQueues возвращает очереди, на которые гейт публикует напоминания.
func GetReminderQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "reminder.expiring", RoutingKey: "expiring"},
	}
}
