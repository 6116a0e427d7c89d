package watch

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// Query параметры подписки: бизнес и диапазон дат
type Query struct {
	BusinessID int64
	StartDate  time.Time
	EndDate    time.Time
}

// SnapshotLoader загружает полный набор записей, подходящих под запрос
// Подписчик на каждое изменение получает полный снапшот, а не дельту
type SnapshotLoader func(ctx context.Context, q Query) ([]*domain.Reservation, error)

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type subscriber struct {
	id    int64
	query Query
	ch    chan []*domain.Reservation
}

// Hub раздает снапшоты записей подписчикам
//
// Контракт подписки: Subscribe немедленно возвращает начальный снапшот,
// канал последующих снапшотов и cancel. Cancel идемпотентен - его можно
// дергать сколько угодно раз, в том числе из горутины, читающей канал.
type Hub struct {
	mu     sync.Mutex
	subs   map[int64]*subscriber
	nextID int64

	loader SnapshotLoader
	logger Logger
}

// NewHub создает хаб подписок
func NewHub(loader SnapshotLoader, logger Logger) *Hub {
	return &Hub{
		subs:   make(map[int64]*subscriber),
		loader: loader,
		logger: logger,
	}
}

// Subscribe регистрирует подписку и возвращает начальный снапшот,
// канал обновлений и функцию отмены. Канал закрывается при отмене.
func (h *Hub) Subscribe(ctx context.Context, q Query) ([]*domain.Reservation, <-chan []*domain.Reservation, func(), error) {
	snapshot, err := h.loader(ctx, q)
	if err != nil {
		return nil, nil, nil, err
	}

	h.mu.Lock()
	h.nextID++
	sub := &subscriber{
		id:    h.nextID,
		query: q,
		// Буфер на один снапшот: при отстающем читателе старый снапшот
		// вытесняется свежим, подписчик никогда не блокирует хаб
		ch: make(chan []*domain.Reservation, 1),
	}
	h.subs[sub.id] = sub
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if _, ok := h.subs[sub.id]; ok {
				delete(h.subs, sub.id)
				close(sub.ch)
			}
		})
	}

	return snapshot, sub.ch, cancel, nil
}

// Notify перезагружает и рассылает снапшоты всем подпискам указанного бизнеса
// Вызывается сервисным слоем после каждой мутации записей
func (h *Hub) Notify(ctx context.Context, businessID int64) {
	h.broadcast(ctx, func(q Query) bool { return q.BusinessID == businessID })
}

// NotifyAll рассылает свежие снапшоты всем подпискам
// Используется после массовых операций (зачистка истекших held)
func (h *Hub) NotifyAll(ctx context.Context) {
	h.broadcast(ctx, func(Query) bool { return true })
}

func (h *Hub) broadcast(ctx context.Context, match func(Query) bool) {
	h.mu.Lock()
	targets := make([]*subscriber, 0, len(h.subs))
	for _, sub := range h.subs {
		if match(sub.query) {
			targets = append(targets, sub)
		}
	}
	h.mu.Unlock()

	for _, sub := range targets {
		snapshot, err := h.loader(ctx, sub.query)
		if err != nil {
			h.logger.Error("watch: failed to load snapshot for business=%d: %v", sub.query.BusinessID, err)
			continue
		}

		h.mu.Lock()
		// Подписка могла отмениться, пока грузился снапшот
		if _, ok := h.subs[sub.id]; ok {
			select {
			case sub.ch <- snapshot:
			default:
				// Вытесняем непрочитанный снапшот более свежим
				select {
				case <-sub.ch:
				default:
				}
				sub.ch <- snapshot
			}
		}
		h.mu.Unlock()
	}
}

// SubscriberCount возвращает количество активных подписок
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
