// Package close реализует HTTP-обработчик скрытия баннера уведомления.
//
// Handler скрывает баннер о скором истечении подписки для текущего арендатора
// на период охлаждения. Состояние хранится на сервере, поэтому скрытие
// действует во всех вкладках и браузерах арендатора.
package close

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/rade-studio/printing-cost-app/internal/http/middlewarectx"
	"github.com/rade-studio/printing-cost-app/internal/http/response"
	"github.com/rade-studio/printing-cost-app/internal/lib/sl"
)

// Handler обрабатывает запросы на скрытие баннера уведомления.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс трекера скрытия уведомлений.
type Service interface {
	Close(ctx context.Context, tenantUID string) error
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Скрытие баннера уведомления
// @Description Скрывает баннер о скором истечении подписки на 24 часа.
// @Tags Notification
// @Produce  json
// @Success 200 {object} map[string]any "Баннер скрыт"
// @Failure 401 {object} response.ErrorResponse "Арендатор не определён"
// @Failure 500 {object} response.ErrorResponse "Не удалось сохранить состояние"
// @Security BearerAuth
// @Router /notification/close [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.notification.close"

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

	if err := h.service.Close(r.Context(), tenantUID); err != nil {
		log.Error("failed to close notification", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not close notification"))
		return
	}

	log.Info("notification closed", slog.String("tenant_uid", tenantUID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"closed": true,
	}))
}
