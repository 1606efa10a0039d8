package model

import "time"

// Order status values. statusOrder below fixes their progression; an
// order normally walks the sequence front to back, while StatusCancelled
// is reachable sideways from any non-terminal state.
const (
	StatusPending       = "pending"
	StatusProcessing    = "processing"
	StatusManufacturing = "manufacturing"
	StatusQualityCheck  = "quality_check"
	StatusShipped       = "shipped"
	StatusDelivered     = "delivered"
	StatusCancelled     = "cancelled"
)

// statusOrder is the authoritative progression of an order. Position in
// the slice defines ordering for transition checks.
var statusOrder = []string{
	StatusPending,
	StatusProcessing,
	StatusManufacturing,
	StatusQualityCheck,
	StatusShipped,
	StatusDelivered,
}

// statusRank maps each progression status to its position for O(1)
// comparisons. Cancelled is not part of the progression.
var statusRank = func() map[string]int {
	m := make(map[string]int, len(statusOrder))
	for i, s := range statusOrder {
		m[s] = i
	}
	return m
}()

// Statuses returns every status value an order may hold, progression
// order first, cancelled last.
func Statuses() []string {
	out := make([]string, 0, len(statusOrder)+1)
	out = append(out, statusOrder...)
	return append(out, StatusCancelled)
}

// ValidStatus reports whether s is a known order status.
func ValidStatus(s string) bool {
	if s == StatusCancelled {
		return true
	}
	_, ok := statusRank[s]
	return ok
}

// Terminal reports whether no further transitions are allowed from s.
// Delivered and cancelled orders are closed.
func Terminal(s string) bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransition reports whether an order may move from one status to
// another. Forward moves along the progression are allowed (skipping
// intermediate steps is permitted), cancellation is allowed from any
// non-terminal state, and terminal states accept nothing.
func CanTransition(from, to string) bool {
	if !ValidStatus(from) || !ValidStatus(to) || Terminal(from) {
		return false
	}
	if to == StatusCancelled {
		return true
	}
	return statusRank[to] > statusRank[from]
}

// Order represents a customer order as stored in the `orders` table.
//
// Fields:
//  ID           – primary key identifier of the order.
//  UserID       – owner of the order (FK to users.id).
//  Status       – current lifecycle status, see constants above.
//  CustomerName – name shown on the order.
//  AmountCents  – order total in cents.
//  Details      – free-form details blob.
//  Suggestion   – latest factory suggestion, nil when none was made.
//                 At most one suggestion is retained per order.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type Order struct {
	ID           uint64    // orders.id
	UserID       uint64    // orders.user_id
	Status       string    // orders.status
	CustomerName string    // orders.customer_name
	AmountCents  uint64    // orders.amount_cents
	Details      string    // orders.details
	Suggestion   *string   // orders.suggestion (nullable)
	CreatedAt    time.Time // orders.created_at
	UpdatedAt    time.Time // orders.updated_at
}

// TimelineEvent models a row in the `order_timeline` table. Events are
// append-only: one is written for every status an order ever held,
// including the initial one, and rows are only removed by cascade when
// the parent order is deleted.
//
// Fields:
//  ID          – primary key identifier.
//  OrderID     – order the event belongs to (FK to orders.id).
//  Status      – status the order entered.
//  Description – optional human-readable note for the transition.
//  CreatedAt   – when the status was entered; events are read back
//                ascending by this value.
type TimelineEvent struct {
	ID          uint64    // order_timeline.id
	OrderID     uint64    // order_timeline.order_id
	Status      string    // order_timeline.status
	Description string    // order_timeline.description
	CreatedAt   time.Time // order_timeline.created_at
}
