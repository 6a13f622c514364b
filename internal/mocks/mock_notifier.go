package mocks

import (
	"context"
	"sync"

	"github.com/bkarakus/cinema-booking-system/internal/domain"
)

// MockNotifier records every dispatched event and optionally fails with Err.
type MockNotifier struct {
	mu     sync.Mutex
	events []domain.BookingCreatedEvent

	Err error
}

func (m *MockNotifier) BookingCreated(ctx context.Context, event domain.BookingCreatedEvent) error {
	if m.Err != nil {
		return m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.events = append(m.events, event)

	return nil
}

func (m *MockNotifier) Events() []domain.BookingCreatedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]domain.BookingCreatedEvent(nil), m.events...)
}
