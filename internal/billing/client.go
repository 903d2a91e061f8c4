// Package billing реализует клиент внешнего биллингового сервиса.
//
// Сервис отдаёт текущую запись подписки арендатора и принимает коды
// приглашений. Биллинг — внешний коллаборатор: здесь только контракт
// получения данных, без логики оплаты.
package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rade-studio/printing-cost-app/internal/config"
	"github.com/rade-studio/printing-cost-app/internal/models"
)

// Client клиент HTTP API биллингового сервиса.
type Client struct {
	apiURL     string
	token      string
	httpClient *http.Client
}

// NewClient создаёт новый клиент биллинга.
func NewClient(cfg config.BillingAPI) *Client {
	timeout := cfg.BillingTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		apiURL:     cfg.BillingURL,
		token:      cfg.BillingToken,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	url := c.apiURL + path
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// FetchSubscription возвращает текущую запись подписки арендатора.
//
// Чтение идемпотентно. Отсутствие подписки — не ошибка: биллинг отвечает
// 404, клиент возвращает (nil, nil). Ошибка возвращается только при
// транспортном сбое или некорректном теле ответа.
func (c *Client) FetchSubscription(ctx context.Context, tenantUID string) (*models.SubscriptionRecord, error) {
	const op = "billing.FetchSubscription"

	req, err := c.newRequest(ctx, http.MethodGet, "/tenants/"+tenantUID+"/subscription", nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status: %s", op, resp.Status)
	}

	var record models.SubscriptionRecord
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &record, nil
}

// ApplyInvitationCode активирует код приглашения для арендатора.
//
// Доменные отказы (неверный формат, неизвестный или уже использованный код)
// возвращаются как *DomainError. Успешная активация означает, что вызывающая
// сторона должна принудительно обновить запись подписки.
func (c *Client) ApplyInvitationCode(ctx context.Context, tenantUID, code string) error {
	const op = "billing.ApplyInvitationCode"

	req, err := c.newRequest(ctx, http.MethodPost, "/tenants/"+tenantUID+"/invitation",
		applyInvitationRequest{Code: code})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		return nil
	case http.StatusUnprocessableEntity, http.StatusConflict, http.StatusNotFound:
		var domainResp invitationErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&domainResp); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return &DomainError{Code: domainResp.Code}
	default:
		return fmt.Errorf("%s: unexpected status: %s", op, resp.Status)
	}
}
