package rabbitmq

// Exchange direct-обменник всех уведомлений сервиса.
const Exchange = "notifications"

const prefetch = 10

// Ключи маршрутизации.
const (
	KeyBookingCreated      = "booking.created"
	KeyBookingStatus       = "booking.status"
	KeyGroupRequestCreated = "group_request.created"
	KeyCheckInReminder     = "checkin.reminder"
)

// QueueConfig очередь и ключ, которым она привязана к Exchange.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// NotificationQueues очереди, которые читает отправщик писем.
func NotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "notifications.booking_created", RoutingKey: KeyBookingCreated},
		{QueueName: "notifications.booking_status", RoutingKey: KeyBookingStatus},
		{QueueName: "notifications.group_request", RoutingKey: KeyGroupRequestCreated},
		{QueueName: "notifications.checkin_reminder", RoutingKey: KeyCheckInReminder},
	}
}
