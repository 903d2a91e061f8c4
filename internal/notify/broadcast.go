// Package notify содержит единую точку публикации состояния баннера-напоминания.
//
// Баннер и компактная плашка-предупреждение находятся на экране одновременно
// и не имеют права расходиться во мнении, скрыто ли напоминание. Поэтому
// рассылка синхронная: к моменту возврата Publish все подписчики уже
// получили новое состояние.
package notify

import "sync"

// Listener получает смену состояния баннера арендатора.
type Listener func(tenantUID string, closed bool)

// Broadcast — внутрипроцессная рассылка состояния баннера с мемоизацией
// последнего известного значения по арендаторам.
type Broadcast struct {
	mu        sync.Mutex
	nextID    int
	listeners map[int]Listener
	states    map[string]bool
}

// NewBroadcast создаёт пустую рассылку.
func NewBroadcast() *Broadcast {
	return &Broadcast{
		listeners: make(map[int]Listener),
		states:    make(map[string]bool),
	}
}

// Subscribe регистрирует слушателя и возвращает функцию отписки.
func (b *Broadcast) Subscribe(l Listener) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.listeners[id] = l

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.listeners, id)
	}
}

// Publish мемоизирует состояние и синхронно оповещает всех слушателей
// в горутине вызывающего.
func (b *Broadcast) Publish(tenantUID string, closed bool) {
	b.mu.Lock()
	b.states[tenantUID] = closed
	notify := make([]Listener, 0, len(b.listeners))
	for _, l := range b.listeners {
		notify = append(notify, l)
	}
	b.mu.Unlock()

	for _, l := range notify {
		l(tenantUID, closed)
	}
}

// State возвращает последнее опубликованное состояние арендатора.
// Второе значение false, если публикаций ещё не было.
func (b *Broadcast) State(tenantUID string) (closed, known bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	closed, known = b.states[tenantUID]
	return closed, known
}
