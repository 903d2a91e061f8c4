// Package status реализует HTTP-обработчик получения состояния баннера уведомления.
//
// Handler возвращает признак того, скрыт ли сейчас баннер о скором истечении
// подписки для текущего арендатора.
package status

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/rade-studio/printing-cost-app/internal/http/middlewarectx"
	"github.com/rade-studio/printing-cost-app/internal/http/response"
)

// Handler обрабатывает запросы состояния баннера уведомления.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс трекера скрытия уведомлений.
type Service interface {
	IsClosed(ctx context.Context, tenantUID string) bool
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Состояние баннера уведомления
// @Description Возвращает, скрыт ли баннер о скором истечении подписки.
// @Tags Notification
// @Produce  json
// @Success 200 {object} map[string]any "Состояние баннера"
// @Failure 401 {object} response.ErrorResponse "Арендатор не определён"
// @Security BearerAuth
// @Router /notification [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.notification.status"

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

	closed := h.service.IsClosed(r.Context(), tenantUID)

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"closed": closed,
	}))
}
