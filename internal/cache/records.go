package cache

import (
	"sync"
	"time"

	"github.com/rade-studio/printing-cost-app/internal/models"
)

// RecordTTL — максимальный возраст записи подписки, при котором она
// отдаётся без повторного запроса к биллингу. Фиксированная константа:
// состояние подписки меняется редко и только в ответ на явные действия
// пользователя, которые и так вызывают Clear.
const RecordTTL = 5 * time.Minute

type recordEntry struct {
	record    *models.SubscriptionRecord
	fetchedAt time.Time
}

// RecordCache — внутрипроцессный TTL-кэш записей подписки по арендаторам.
// Хранит единственную авторитетную копию записи на время жизни процесса.
// Запись nil — законный результат ("подписка не оформлена") и кэшируется
// на тот же срок, чтобы не дёргать биллинг по арендаторам без подписки.
type RecordCache struct {
	mu      sync.Mutex
	entries map[string]recordEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewRecordCache создаёт кэш с TTL по умолчанию.
func NewRecordCache() *RecordCache {
	return &RecordCache{
		entries: make(map[string]recordEntry),
		ttl:     RecordTTL,
		now:     time.Now,
	}
}

// NewRecordCacheWithClock создаёт кэш с внешними часами. Используется в тестах.
func NewRecordCacheWithClock(ttl time.Duration, now func() time.Time) *RecordCache {
	return &RecordCache{
		entries: make(map[string]recordEntry),
		ttl:     ttl,
		now:     now,
	}
}

// Get возвращает запись арендатора, пока её возраст меньше TTL.
// Второе возвращаемое значение — признак попадания: запись nil при
// попадании означает закэшированное отсутствие подписки.
func (c *RecordCache) Get(tenantUID string) (*models.SubscriptionRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[tenantUID]
	if !ok || c.now().Sub(e.fetchedAt) >= c.ttl {
		return nil, false
	}
	return e.record, true
}

// Set безусловно заменяет запись арендатора целиком и проставляет fetchedAt.
// record == nil допустим и кэширует результат "подписки нет".
func (c *RecordCache) Set(tenantUID string, record *models.SubscriptionRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[tenantUID] = recordEntry{record: record, fetchedAt: c.now()}
}

// Clear принудительно делает следующий Get промахом. Вызывается при
// событиях, меняющих состояние подписки вне гейта: вход, оплата,
// активация кода приглашения.
func (c *RecordCache) Clear(tenantUID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, tenantUID)
}

// IsExpired сообщает, вернёт ли Get промах для данного арендатора.
func (c *RecordCache) IsExpired(tenantUID string) bool {
	_, ok := c.Get(tenantUID)
	return !ok
}
