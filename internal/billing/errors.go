package billing

import "errors"

// Коды доменных отказов биллинга при активации кода приглашения.
const (
	CodeMalformed = "invitation_malformed"
	CodeUnknown   = "invitation_unknown"
	CodeConsumed  = "invitation_consumed"
)

// DomainError — отказ бизнес-уровня, а не сбой транспорта.
// Показывается пользователю встроенным сообщением и никогда
// не влияет на решение гейта.
type DomainError struct {
	Code string
}

func (e *DomainError) Error() string {
	return "billing domain error: " + e.Code
}

// AsDomainError возвращает *DomainError, если err им является.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// UserMessage переводит код доменного отказа в сообщение для пользователя.
func (e *DomainError) UserMessage() string {
	switch e.Code {
	case CodeMalformed:
		return "invitation code has invalid format"
	case CodeUnknown:
		return "invitation code is unknown or expired"
	case CodeConsumed:
		return "invitation code has already been used"
	default:
		return "invitation code was rejected"
	}
}
