// Package queue defines message payloads exchanged over the message broker.
package queue

// StatusChangedQueue is the durable queue order status events are
// published to.
const StatusChangedQueue = "order.status_changed"

// OrderStatusChangedEvent is published after a status update commits.
// It carries enough information for downstream consumers to log or
// notify without querying the primary database.
type OrderStatusChangedEvent struct {
	OrderID        uint64 `json:"order_id"`
	PreviousStatus string `json:"previous_status"`
	NewStatus      string `json:"new_status"`
	Description    string `json:"description"`
	CustomerName   string `json:"customer_name"`
	ChangedAt      string `json:"changed_at"`
}
