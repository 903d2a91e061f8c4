// Package models содержит доменные структуры, описывающие подписку арендатора,
// а также вспомогательные типы для приёма данных из внешних источников (например, JSON-ответов
// биллингового сервиса).
package models

import "time"

// SubscriptionRecord представляет собой запись о подписке арендатора,
// полученную от биллингового сервиса. Отсутствие ID означает,
// что подписка не оформлена. EndDate не включается в период действия:
// подписка считается истёкшей, как только "сейчас" >= EndDate.
type SubscriptionRecord struct {
	ID        string    `json:"id,omitempty"` // Идентификатор подписки у биллинга
	IsTrial   bool      `json:"is_trial"`     // Пробный период, а не оплаченный срок
	IsActive  bool      `json:"is_active"`    // Флаг активности со стороны биллинга
	StartDate time.Time `json:"start_date"`   // Дата начала действия
	EndDate   time.Time `json:"end_date"`     // Дата окончания действия (исключительно)
}

// ExpiringSoonDays определяет, за сколько дней до окончания подписка
// считается "скоро истекающей". Фиксированная продуктовая константа.
const ExpiringSoonDays = 3

// DaysRemainingAt возвращает количество оставшихся дней действия подписки
// на момент now. Неполные сутки округляются вверх, отрицательные значения
// приводятся к нулю.
func (r *SubscriptionRecord) DaysRemainingAt(now time.Time) int {
	remaining := r.EndDate.Sub(now)
	if remaining <= 0 {
		return 0
	}
	days := int(remaining / (24 * time.Hour))
	if remaining%(24*time.Hour) > 0 {
		days++
	}
	return days
}

// IsExpiredAt сообщает, истекла ли подписка на момент now.
//
// Действительность подписки — всегда конъюнкция проверки даты и флага IsActive:
// запись с прошедшей датой недействительна даже при IsActive == true,
// а неактивная запись недействительна даже в пределах периода действия.
func (r *SubscriptionRecord) IsExpiredAt(now time.Time) bool {
	return !r.IsActive || !now.Before(r.EndDate)
}

// IsExpiringSoonAt сообщает, истекает ли подписка в ближайшие ExpiringSoonDays дней.
func (r *SubscriptionRecord) IsExpiringSoonAt(now time.Time) bool {
	return r.DaysRemainingAt(now) <= ExpiringSoonDays
}
