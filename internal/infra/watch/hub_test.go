package watch

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// fakeLoader потокобезопасный загрузчик снапшотов для тестов
type fakeLoader struct {
	mu   sync.Mutex
	data map[int64][]*domain.Reservation
}

func newFakeLoader() *fakeLoader {
	return &fakeLoader{data: make(map[int64][]*domain.Reservation)}
}

func (f *fakeLoader) set(businessID int64, reservations []*domain.Reservation) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[businessID] = reservations
}

func (f *fakeLoader) load(_ context.Context, q Query) ([]*domain.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data[q.BusinessID], nil
}

func reservationFixture(id int64) *domain.Reservation {
	return &domain.Reservation{
		ID:         id,
		BusinessID: 1,
		StartAt:    time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC),
		Status:     domain.StatusBooked,
	}
}

func TestHub_InitialSnapshotDeliveredImmediately(t *testing.T) {
	loader := newFakeLoader()
	loader.set(1, []*domain.Reservation{reservationFixture(1)})
	hub := NewHub(loader.load, nopLogger{})

	snapshot, _, cancel, err := hub.Subscribe(context.Background(), Query{BusinessID: 1})
	require.NoError(t, err)
	defer cancel()

	require.Len(t, snapshot, 1)
	assert.Equal(t, int64(1), snapshot[0].ID)
}

func TestHub_NotifyDeliversFullSnapshot(t *testing.T) {
	loader := newFakeLoader()
	loader.set(1, []*domain.Reservation{reservationFixture(1)})
	hub := NewHub(loader.load, nopLogger{})

	_, updates, cancel, err := hub.Subscribe(context.Background(), Query{BusinessID: 1})
	require.NoError(t, err)
	defer cancel()

	loader.set(1, []*domain.Reservation{reservationFixture(1), reservationFixture(2)})
	hub.Notify(context.Background(), 1)

	select {
	case snapshot := <-updates:
		// Полный набор, не дельта
		assert.Len(t, snapshot, 2)
	case <-time.After(time.Second):
		t.Fatal("expected snapshot after notify")
	}
}

func TestHub_NotifyOtherBusinessDoesNotDeliver(t *testing.T) {
	loader := newFakeLoader()
	hub := NewHub(loader.load, nopLogger{})

	_, updates, cancel, err := hub.Subscribe(context.Background(), Query{BusinessID: 1})
	require.NoError(t, err)
	defer cancel()

	hub.Notify(context.Background(), 2)

	select {
	case <-updates:
		t.Fatal("unexpected snapshot for unrelated business")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_SlowReaderGetsLatestSnapshot(t *testing.T) {
	loader := newFakeLoader()
	hub := NewHub(loader.load, nopLogger{})

	_, updates, cancel, err := hub.Subscribe(context.Background(), Query{BusinessID: 1})
	require.NoError(t, err)
	defer cancel()

	// Два уведомления без чтения: первый снапшот вытесняется вторым
	loader.set(1, []*domain.Reservation{reservationFixture(1)})
	hub.Notify(context.Background(), 1)
	loader.set(1, []*domain.Reservation{reservationFixture(1), reservationFixture(2)})
	hub.Notify(context.Background(), 1)

	snapshot := <-updates
	assert.Len(t, snapshot, 2)
}

func TestHub_CancelIsIdempotent(t *testing.T) {
	loader := newFakeLoader()
	hub := NewHub(loader.load, nopLogger{})

	_, updates, cancel, err := hub.Subscribe(context.Background(), Query{BusinessID: 1})
	require.NoError(t, err)

	cancel()
	cancel()
	cancel()

	assert.Zero(t, hub.SubscriberCount())

	// Канал закрыт после отмены
	_, open := <-updates
	assert.False(t, open)
}

func TestHub_CancelFromReaderGoroutine(t *testing.T) {
	loader := newFakeLoader()
	hub := NewHub(loader.load, nopLogger{})

	_, updates, cancel, err := hub.Subscribe(context.Background(), Query{BusinessID: 1})
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for range updates {
			// Отмена изнутри читающей горутины безопасна
			cancel()
		}
	}()

	hub.Notify(context.Background(), 1)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reader goroutine did not finish after cancel")
	}

	assert.Zero(t, hub.SubscriberCount())
}

func TestHub_NotifyAll(t *testing.T) {
	loader := newFakeLoader()
	hub := NewHub(loader.load, nopLogger{})

	_, updates1, cancel1, err := hub.Subscribe(context.Background(), Query{BusinessID: 1})
	require.NoError(t, err)
	defer cancel1()

	_, updates2, cancel2, err := hub.Subscribe(context.Background(), Query{BusinessID: 2})
	require.NoError(t, err)
	defer cancel2()

	hub.NotifyAll(context.Background())

	for _, updates := range []<-chan []*domain.Reservation{updates1, updates2} {
		select {
		case <-updates:
		case <-time.After(time.Second):
			t.Fatal("expected snapshot on NotifyAll")
		}
	}
}
