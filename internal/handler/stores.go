package handler

import (
	"context"
	"errors"

	"github.com/zenithmfg/order-tracking/internal/apperr"
	"github.com/zenithmfg/order-tracking/internal/model"
	"github.com/zenithmfg/order-tracking/internal/queue"
	"github.com/zenithmfg/order-tracking/internal/repository"
)

// Store contracts consumed by the handlers. The concrete repositories
// satisfy them; tests substitute hand-written fakes. Handlers accept
// these interfaces through their constructors so lifecycle and
// substitution stay explicit.

// UserStore is the persistence contract for user procedures.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	GetAll(ctx context.Context) ([]model.User, error)
	UpdatePassword(ctx context.Context, id uint64, password string, cost int) error
}

// OrderStore is the persistence contract for order procedures.
type OrderStore interface {
	GetAll(ctx context.Context) ([]model.Order, error)
	GetByUserID(ctx context.Context, userID uint64) ([]model.Order, error)
	GetByStatus(ctx context.Context, status string) ([]model.Order, error)
	GetByID(ctx context.Context, id uint64) (model.Order, error)
	Timeline(ctx context.Context, orderID uint64) ([]model.TimelineEvent, error)
	Create(ctx context.Context, userID uint64, status, customerName string, amountCents uint64, details, description string) (model.Order, error)
	UpdateStatus(ctx context.Context, id uint64, newStatus, description string) (model.Order, string, error)
	SetSuggestion(ctx context.Context, id uint64, text string) error
	Delete(ctx context.Context, id uint64) error
	CountByStatus(ctx context.Context) (map[string]int, error)
}

// StatusPublisher emits order status events after a successful update.
type StatusPublisher interface {
	PublishStatusChanged(ctx context.Context, event queue.OrderStatusChangedEvent) error
}

// storeErr re-classifies repository errors into the boundary taxonomy.
// Raw driver errors become internal errors whose detail stays log/dev
// only.
func storeErr(err error, what string) *apperr.Error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperr.NotFound(what + " not found")
	case errors.Is(err, repository.ErrInvalidTransition):
		return apperr.Validation("status transition not allowed")
	default:
		return apperr.Internal("storage failure").WithDetail(err.Error())
	}
}
