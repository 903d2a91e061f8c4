package billing

// Запрос на активацию кода приглашения
type applyInvitationRequest struct {
	Code string `json:"code"`
}

// Тело доменного отказа биллинга
type invitationErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}
