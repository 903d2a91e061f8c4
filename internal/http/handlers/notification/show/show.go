// Package show реализует HTTP-обработчик повторного показа баннера уведомления.
package show

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

// Handler обрабатывает запросы на повторный показ баннера уведомления.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс трекера скрытия уведомлений.
type Service interface {
	Show(ctx context.Context, tenantUID string) error
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Повторный показ баннера уведомления
// @Description Снимает скрытие баннера о скором истечении подписки до конца периода охлаждения.
// @Tags Notification
// @Produce  json
// @Success 200 {object} map[string]any "Баннер снова показывается"
// @Failure 401 {object} response.ErrorResponse "Арендатор не определён"
// @Failure 500 {object} response.ErrorResponse "Не удалось сохранить состояние"
// @Security BearerAuth
// @Router /notification/show [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.notification.show"

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

	if err := h.service.Show(r.Context(), tenantUID); err != nil {
		log.Error("failed to reset notification", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not reset notification"))
		return
	}

	log.Info("notification reset", slog.String("tenant_uid", tenantUID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"closed": false,
	}))
}
