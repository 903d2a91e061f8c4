// Package services содержит логику временного скрытия баннера-напоминания
// о скором истечении подписки.
//
// Скрытие не влияет на жёсткий гейт: пользователь может убрать напоминание,
// но при фактическом истечении подписки редирект на страницу оплаты
// происходит всё равно.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rade-studio/printing-cost-app/internal/cache"
	"github.com/rade-studio/printing-cost-app/internal/lib/sl"
)

// DismissalCooldown — срок, на который скрывается баннер.
// Фиксированная продуктовая константа, в конфиг не выносится.
const DismissalCooldown = 24 * time.Hour

// Store описывает долговременное хранилище отметки скрытия.
// Хранилище — источник истины: значение читается на каждом обращении,
// фоновых таймеров нет.
type Store interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// Notifier получает синхронное уведомление о смене состояния баннера.
type Notifier interface {
	Publish(tenantUID string, closed bool)
}

// DismissalService реализует учёт скрытия баннера с ленивым сбросом:
// просроченная отметка трактуется как отсутствующая и удаляется
// побочным эффектом чтения.
type DismissalService struct {
	store    Store
	notifier Notifier
	log      *slog.Logger
	now      func() time.Time
}

// NewDismissalService создает новый экземпляр DismissalService.
func NewDismissalService(store Store, notifier Notifier, log *slog.Logger) *DismissalService {
	return &DismissalService{
		store:    store,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

// IsClosed сообщает, скрыт ли сейчас баннер у арендатора.
//
// Баннер — мягкая поверхность: при ошибке чтения хранилища он считается
// открытым, доступ это не затрагивает.
func (s *DismissalService) IsClosed(ctx context.Context, tenantUID string) bool {
	const op = "dismissal.IsClosed"
	key := fmt.Sprintf(cache.KeyNotificationClosed, tenantUID)

	var closedAt time.Time
	found, err := s.store.Get(ctx, key, &closedAt)
	if err != nil {
		s.log.Warn("failed to read dismissal flag", slog.String("op", op), sl.Err(err))
		return false
	}
	if !found {
		return false
	}
	if s.now().Sub(closedAt) < DismissalCooldown {
		return true
	}

	// Ленивый сброс просроченной отметки
	if err := s.store.Invalidate(ctx, key); err != nil {
		s.log.Warn("failed to clear stale dismissal flag", slog.String("op", op), sl.Err(err))
	}
	return false
}

// Close скрывает баннер на DismissalCooldown и синхронно оповещает
// подписчиков.
func (s *DismissalService) Close(ctx context.Context, tenantUID string) error {
	const op = "dismissal.Close"
	key := fmt.Sprintf(cache.KeyNotificationClosed, tenantUID)

	if err := s.store.Set(ctx, key, s.now().UTC(), 0); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if s.notifier != nil {
		s.notifier.Publish(tenantUID, true)
	}
	return nil
}

// Show снимает отметку скрытия: баннер снова показывается немедленно.
func (s *DismissalService) Show(ctx context.Context, tenantUID string) error {
	const op = "dismissal.Show"
	key := fmt.Sprintf(cache.KeyNotificationClosed, tenantUID)

	if err := s.store.Invalidate(ctx, key); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if s.notifier != nil {
		s.notifier.Publish(tenantUID, false)
	}
	return nil
}
