// Package services содержит бизнес-логику проверки подписки и допуска
// арендатора к защищённым маршрутам приложения.
//
// Гейт — авторитетный ответ на вопрос "можно ли арендатору пользоваться
// приложением прямо сейчас". Сам он никуда не перенаправляет: решение
// возвращается наружу, а редирект выполняет HTTP-слой.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/rade-studio/printing-cost-app/internal/cache"
	"github.com/rade-studio/printing-cost-app/internal/lib/rabbitmq"
	"github.com/rade-studio/printing-cost-app/internal/lib/sl"
	"github.com/rade-studio/printing-cost-app/internal/models"
)

// Маршруты, известные гейту. На странице оплаты и на странице входа
// редирект не выдаётся, иначе возможна петля редиректов.
const (
	PaywallRoute = "/subscription/expired"
	LoginRoute   = "/login"
)

// State состояние машины валидации для одного прохода.
type State string

const (
	// StateUnvalidated — проверка ещё не выполнялась.
	StateUnvalidated State = "unvalidated"
	// StateValidating — выполняется запрос к биллингу.
	StateValidating State = "validating"
	// StateValid — арендатор допущен.
	StateValid State = "valid"
	// StateInvalid — доступ закрыт, требуется переход на страницу оплаты.
	StateInvalid State = "invalid"
)

// Result — явный итог прохода валидации, потребляемый HTTP-слоем.
type Result struct {
	State         State                      `json:"state"`
	Record        *models.SubscriptionRecord `json:"record,omitempty"`
	Valid         bool                       `json:"valid"`
	ExpiringSoon  bool                       `json:"expiring_soon"`
	DaysRemaining int                        `json:"days_remaining"`
	// RedirectTo непустой, когда HTTP-слой должен перенаправить
	// арендатора. Пустой на маршрутах входа и оплаты.
	RedirectTo string `json:"redirect_to,omitempty"`
}

// Fetcher описывает контракт получения записи подписки у биллинга.
// Отсутствие подписки — (nil, nil), ошибка только при сбое транспорта.
type Fetcher interface {
	FetchSubscription(ctx context.Context, tenantUID string) (*models.SubscriptionRecord, error)
}

// RecordCache описывает контракт TTL-кэша записей подписки.
type RecordCache interface {
	Get(tenantUID string) (*models.SubscriptionRecord, bool)
	Set(tenantUID string, record *models.SubscriptionRecord)
	Clear(tenantUID string)
	IsExpired(tenantUID string) bool
}

// StateStore описывает долговременное состояние арендатора (Redis):
// последняя известная запись для отображения и суточный ограничитель
// публикации напоминаний.
type StateStore interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) (bool, error)
}

// AuditRepository описывает журнал решений гейта.
type AuditRepository interface {
	InsertDecision(ctx context.Context, tenantUID, outcome string, daysRemaining int) error
}

// ReminderPublisher публикует напоминание об истекающей подписке.
type ReminderPublisher interface {
	PublishExpiring(reminder rabbitmq.ExpiringReminder) error
}

// GateService реализует машину валидации подписки.
type GateService struct {
	fetcher   Fetcher
	records   RecordCache
	state     StateStore
	audit     AuditRepository
	publisher ReminderPublisher
	group     singleflight.Group
	log       *slog.Logger
	now       func() time.Time
}

// NewGateService создает новый экземпляр GateService.
// publisher и audit могут быть nil: журнал и напоминания — побочные
// заботы, решение о доступе от них не зависит.
func NewGateService(fetcher Fetcher, records RecordCache, state StateStore,
	audit AuditRepository, publisher ReminderPublisher, log *slog.Logger) *GateService {
	return &GateService{
		fetcher:   fetcher,
		records:   records,
		state:     state,
		audit:     audit,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

// Validate возвращает решение о допуске арендатора.
//
// Без force свежая запись кэша решает немедленно, без похода в сеть;
// недействительная закэшированная запись всё равно приводит к редиректу.
// При промахе кэша запрос к биллингу выполняется ровно один раз:
// одновременные вызовы для одного арендатора схлопываются на один
// незавершённый запрос и наблюдают его результат.
//
// Любой сбой биллинга трактуется как отсутствие права доступа (fail
// closed): ошибка логируется и не поднимается выше, редирект сам по
// себе сообщает исход. currentRoute передаётся, чтобы заново вывести
// уместность редиректа в момент завершения, а не в момент вызова.
func (s *GateService) Validate(ctx context.Context, tenantUID, currentRoute string, force bool) *Result {
	const op = "gate.Validate"

	if !force {
		if record, ok := s.records.Get(tenantUID); ok {
			return s.evaluate(ctx, tenantUID, currentRoute, record, false)
		}
	}

	validationsInFlight.Inc()
	v, err, _ := s.group.Do(tenantUID, func() (any, error) {
		record, err := s.fetcher.FetchSubscription(ctx, tenantUID)
		if err != nil {
			return nil, err
		}
		// Запись заменяется целиком; неудачный запрос кэш не трогает
		s.records.Set(tenantUID, record)
		s.persistDisplayRecord(ctx, tenantUID, record)
		return record, nil
	})
	validationsInFlight.Dec()

	if err != nil {
		s.log.Error("subscription fetch failed, denying access", slog.String("tenant_uid", tenantUID), sl.Err(err))
		decisionsTotal.WithLabelValues("fetch_error").Inc()
		s.recordAudit(ctx, tenantUID, "fetch_error", 0)
		return &Result{
			State:      StateInvalid,
			Valid:      false,
			RedirectTo: s.redirectTarget(currentRoute),
		}
	}

	record, _ := v.(*models.SubscriptionRecord)
	return s.evaluate(ctx, tenantUID, currentRoute, record, true)
}

// Refresh сбрасывает кэш и схлопывание запросов и валидирует заново.
// Используется после действий, заведомо меняющих состояние подписки:
// успешной оплаты или активации кода приглашения. Всегда выполняет
// ровно один новый запрос к биллингу.
func (s *GateService) Refresh(ctx context.Context, tenantUID, currentRoute string) *Result {
	s.group.Forget(tenantUID)
	s.records.Clear(tenantUID)
	return s.Validate(ctx, tenantUID, currentRoute, true)
}

// evaluate выносит вердикт по записи. Действительность — всегда
// конъюнкция проверки даты и флага активности (models.SubscriptionRecord).
func (s *GateService) evaluate(ctx context.Context, tenantUID, currentRoute string,
	record *models.SubscriptionRecord, fresh bool) *Result {
	now := s.now()

	if record == nil || record.IsExpiredAt(now) {
		decisionsTotal.WithLabelValues("invalid").Inc()
		s.recordAudit(ctx, tenantUID, "invalid", 0)
		return &Result{
			State:      StateInvalid,
			Record:     record,
			Valid:      false,
			RedirectTo: s.redirectTarget(currentRoute),
		}
	}

	days := record.DaysRemainingAt(now)
	expiringSoon := record.IsExpiringSoonAt(now)

	decisionsTotal.WithLabelValues("valid").Inc()
	s.recordAudit(ctx, tenantUID, "valid", days)

	if expiringSoon && fresh {
		s.publishReminder(ctx, tenantUID, record, days)
	}

	return &Result{
		State:         StateValid,
		Record:        record,
		Valid:         true,
		ExpiringSoon:  expiringSoon,
		DaysRemaining: days,
	}
}

// redirectTarget возвращает страницу оплаты, кроме случаев, когда
// арендатор уже на ней или на странице входа.
func (s *GateService) redirectTarget(currentRoute string) string {
	if currentRoute == PaywallRoute || currentRoute == LoginRoute {
		return ""
	}
	return PaywallRoute
}

func (s *GateService) recordAudit(ctx context.Context, tenantUID, outcome string, daysRemaining int) {
	if s.audit == nil {
		return
	}
	if err := s.audit.InsertDecision(ctx, tenantUID, outcome, daysRemaining); err != nil {
		s.log.Warn("failed to record gate decision", slog.String("tenant_uid", tenantUID), sl.Err(err))
	}
}

// persistDisplayRecord сохраняет последнюю известную запись только для
// отображения между перезапусками клиента. Для решения о доступе она
// не читается никогда.
func (s *GateService) persistDisplayRecord(ctx context.Context, tenantUID string, record *models.SubscriptionRecord) {
	if s.state == nil || record == nil {
		return
	}
	key := fmt.Sprintf(cache.KeyDisplayRecord, tenantUID)
	if err := s.state.Set(ctx, key, record, 0); err != nil {
		s.log.Warn("failed to persist display record", slog.String("key", key), sl.Err(err))
	}
}

// publishReminder отправляет напоминание почтовому воркеру не чаще
// раза в сутки на арендатора.
func (s *GateService) publishReminder(ctx context.Context, tenantUID string, record *models.SubscriptionRecord, days int) {
	if s.publisher == nil || s.state == nil {
		return
	}
	key := fmt.Sprintf(cache.KeyReminderSent, tenantUID)
	first, err := s.state.SetNX(ctx, key, true, 24*time.Hour)
	if err != nil {
		s.log.Warn("failed to check reminder throttle", slog.String("key", key), sl.Err(err))
		return
	}
	if !first {
		return
	}
	reminder := rabbitmq.ExpiringReminder{
		TenantUID:     tenantUID,
		IsTrial:       record.IsTrial,
		EndDate:       record.EndDate,
		DaysRemaining: days,
	}
	if err := s.publisher.PublishExpiring(reminder); err != nil {
		s.log.Warn("failed to publish expiring reminder", slog.String("tenant_uid", tenantUID), sl.Err(err))
	}
}
