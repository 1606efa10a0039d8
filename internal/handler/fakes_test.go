package handler

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/zenithmfg/order-tracking/internal/model"
	"github.com/zenithmfg/order-tracking/internal/queue"
	"github.com/zenithmfg/order-tracking/internal/repository"
	"github.com/zenithmfg/order-tracking/internal/utils"
)

// In-memory store fakes mirroring the repository semantics, including
// the sentinel errors and the transition rule enforced on update.

type fakeUserStore struct {
	users  map[uint64]model.User
	nextID uint64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[uint64]model.User{}, nextID: 1}
}

func (f *fakeUserStore) add(name, email, password, role string) model.User {
	hash, _ := utils.HashPassword(password, 4) // min-ish cost keeps tests fast
	u := model.User{
		ID: f.nextID, Name: name, Email: strings.ToLower(email),
		PasswordHash: hash, Role: role,
		CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC(),
	}
	f.users[u.ID] = u
	f.nextID++
	return u
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	for _, u := range f.users {
		if u.Email == strings.ToLower(email) {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (f *fakeUserStore) GetByID(_ context.Context, id uint64) (model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserStore) GetAll(_ context.Context) ([]model.User, error) {
	out := make([]model.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeUserStore) UpdatePassword(_ context.Context, id uint64, password string, cost int) error {
	u, ok := f.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	f.users[id] = u
	return nil
}

type fakeOrderStore struct {
	orders   map[uint64]model.Order
	timeline map[uint64][]model.TimelineEvent
	nextID   uint64
	clock    time.Time
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{
		orders:   map[uint64]model.Order{},
		timeline: map[uint64][]model.TimelineEvent{},
		nextID:   1,
		clock:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

// tick advances the fake clock so consecutive events get ascending
// timestamps like the database would produce.
func (f *fakeOrderStore) tick() time.Time {
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

func (f *fakeOrderStore) GetAll(_ context.Context) ([]model.Order, error) {
	out := make([]model.Order, 0, len(f.orders))
	for _, o := range f.orders {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeOrderStore) GetByUserID(_ context.Context, userID uint64) ([]model.Order, error) {
	var out []model.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrderStore) GetByStatus(_ context.Context, status string) ([]model.Order, error) {
	var out []model.Order
	for _, o := range f.orders {
		if o.Status == status {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrderStore) GetByID(_ context.Context, id uint64) (model.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return model.Order{}, repository.ErrNotFound
	}
	return o, nil
}

func (f *fakeOrderStore) Timeline(_ context.Context, orderID uint64) ([]model.TimelineEvent, error) {
	if _, ok := f.orders[orderID]; !ok {
		return nil, repository.ErrNotFound
	}
	events := append([]model.TimelineEvent(nil), f.timeline[orderID]...)
	sort.Slice(events, func(i, j int) bool { return events[i].CreatedAt.Before(events[j].CreatedAt) })
	return events, nil
}

func (f *fakeOrderStore) Create(_ context.Context, userID uint64, status, customerName string, amountCents uint64, details, description string) (model.Order, error) {
	now := f.tick()
	o := model.Order{
		ID: f.nextID, UserID: userID, Status: status,
		CustomerName: customerName, AmountCents: amountCents, Details: details,
		CreatedAt: now, UpdatedAt: now,
	}
	f.orders[o.ID] = o
	if description == "" {
		description = "order created"
	}
	f.timeline[o.ID] = append(f.timeline[o.ID], model.TimelineEvent{
		ID: o.ID, OrderID: o.ID, Status: status, Description: description, CreatedAt: now,
	})
	f.nextID++
	return o, nil
}

func (f *fakeOrderStore) UpdateStatus(_ context.Context, id uint64, newStatus, description string) (model.Order, string, error) {
	o, ok := f.orders[id]
	if !ok {
		return model.Order{}, "", repository.ErrNotFound
	}
	prev := o.Status
	if !model.CanTransition(prev, newStatus) {
		return model.Order{}, "", repository.ErrInvalidTransition
	}
	now := f.tick()
	o.Status = newStatus
	o.UpdatedAt = now
	f.orders[id] = o
	if description == "" {
		description = "status changed to " + newStatus
	}
	f.timeline[id] = append(f.timeline[id], model.TimelineEvent{
		OrderID: id, Status: newStatus, Description: description, CreatedAt: now,
	})
	return o, prev, nil
}

func (f *fakeOrderStore) SetSuggestion(_ context.Context, id uint64, text string) error {
	o, ok := f.orders[id]
	if !ok {
		return repository.ErrNotFound
	}
	o.Suggestion = &text
	f.orders[id] = o
	return nil
}

func (f *fakeOrderStore) Delete(_ context.Context, id uint64) error {
	if _, ok := f.orders[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.orders, id)
	delete(f.timeline, id)
	return nil
}

func (f *fakeOrderStore) CountByStatus(_ context.Context) (map[string]int, error) {
	counts := map[string]int{}
	for _, o := range f.orders {
		counts[o.Status]++
	}
	return counts, nil
}

type fakePublisher struct {
	events []queue.OrderStatusChangedEvent
}

func (f *fakePublisher) PublishStatusChanged(_ context.Context, event queue.OrderStatusChangedEvent) error {
	f.events = append(f.events, event)
	return nil
}
