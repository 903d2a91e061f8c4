// Package status реализует HTTP-обработчик получения текущего статуса подписки арендатора.
//
// Handler извлекает идентификатор арендатора из контекста запроса, вызывает гейт
// подписки и возвращает результат проверки: состояние, запись подписки,
// остаток дней и признак скорого истечения.
package status

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/rade-studio/printing-cost-app/internal/http/middlewarectx"
	"github.com/rade-studio/printing-cost-app/internal/http/response"
	gateservice "github.com/rade-studio/printing-cost-app/internal/services/gate"
)

// Handler обрабатывает запросы на получение статуса подписки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс гейта подписки.
type Service interface {
	Validate(ctx context.Context, tenantUID, currentRoute string, force bool) *gateservice.Result
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Статус подписки
// @Description Возвращает результат проверки подписки текущего арендатора.
// @Tags Subscription
// @Produce  json
// @Success 200 {object} map[string]any "Результат проверки"
// @Failure 401 {object} response.ErrorResponse "Арендатор не определён"
// @Security BearerAuth
// @Router /subscription/status [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.status"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	tenantUID, ok := r.Context().Value(middlewarectx.TenantUID).(string)
	if !ok || tenantUID == "" {
		log.Error("tenant identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("tenant identification missing"))
		return
	}

	res := h.service.Validate(r.Context(), tenantUID, r.URL.Path, false)

	log.Info("subscription status checked",
		slog.String("tenant_uid", tenantUID),
		slog.String("state", string(res.State)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"result": res,
	}))
}
