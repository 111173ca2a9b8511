package provider

import (
	"context"
	"sync"
)

// MockTransport implements Transport for testing and for running the
// server without a real provider. It records deliveries and returns a
// configurable status or error.
type MockTransport struct {
	mu         sync.Mutex
	status     int
	err        error
	deliveries []Delivery
}

// NewMockTransport creates a MockTransport that answers every delivery
// with the given status code.
func NewMockTransport(status int) *MockTransport {
	return &MockTransport{status: status}
}

// SetStatus changes the status code returned by subsequent deliveries.
func (m *MockTransport) SetStatus(status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = status
	m.err = nil
}

// Fail makes subsequent deliveries return err instead of a status code.
func (m *MockTransport) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Deliver records the delivery and returns the configured outcome.
func (m *MockTransport) Deliver(ctx context.Context, d Delivery) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	m.deliveries = append(m.deliveries, d)
	return m.status, nil
}

// Deliveries returns a copy of all recorded deliveries.
func (m *MockTransport) Deliveries() []Delivery {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Delivery, len(m.deliveries))
	copy(out, m.deliveries)
	return out
}
