package rabbitmq

// QueueConfig описывает очередь и её ключ маршрутизации в обменнике notifications.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetNotificationQueues возвращает очереди уведомлений фоновой очистки премиума.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "notifications.premium-expired", RoutingKey: "premium-expired"},
		// при необходимости дополнительные очереди для других воркеров
	}
}
