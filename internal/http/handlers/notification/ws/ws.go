// Package ws реализует HTTP-обработчик WebSocket-подключения для рассылки
// состояния баннера уведомления.
//
// Все вкладки арендатора держат одно такое подключение: когда баннер скрывают
// или показывают в любой из них, остальные получают событие немедленно.
package ws

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/rade-studio/printing-cost-app/internal/http/middlewarectx"
	"github.com/rade-studio/printing-cost-app/internal/http/response"
	"github.com/rade-studio/printing-cost-app/internal/lib/sl"
)

// Handler обрабатывает запросы на WebSocket-подключение.
type Handler struct {
	log *slog.Logger
	hub Hub
}

// Hub описывает интерфейс концентратора WebSocket-подключений.
type Hub interface {
	Serve(w http.ResponseWriter, r *http.Request, tenantUID string) error
}

// New создает новый Handler с переданным логгером и концентратором.
func New(log *slog.Logger, hub Hub) *Handler {
	return &Handler{
		log: log,
		hub: hub,
	}
}

// ServeHTTP godoc
// @Summary WebSocket состояния баннера
// @Description Открывает WebSocket, по которому сервер рассылает изменения состояния баннера.
// @Tags Notification
// @Success 101 "Протокол переключён"
// @Failure 401 {object} response.ErrorResponse "Арендатор не определён"
// @Security BearerAuth
// @Router /notification/ws [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.notification.ws"

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

	if err := h.hub.Serve(w, r, tenantUID); err != nil {
		// Upgrade уже ответил клиенту, остаётся только залогировать.
		log.Error("failed to upgrade connection", sl.Err(err))
		return
	}

	log.Info("websocket connected", slog.String("tenant_uid", tenantUID))
}
