// Package refresh реализует HTTP-обработчик принудительного обновления статуса подписки.
//
// Handler сбрасывает кэш записей подписки арендатора и запускает новую проверку
// через биллинг, возвращая свежий результат. Используется после изменений
// подписки на стороне биллинга или по явному запросу клиента.
package refresh

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

// Handler обрабатывает запросы на принудительное обновление статуса подписки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс гейта подписки для принудительного обновления.
type Service interface {
	Refresh(ctx context.Context, tenantUID, currentRoute string) *gateservice.Result
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Принудительное обновление статуса подписки
// @Description Сбрасывает кэш и заново запрашивает подписку арендатора у биллинга.
// @Tags Subscription
// @Produce  json
// @Success 200 {object} map[string]any "Свежий результат проверки"
// @Failure 401 {object} response.ErrorResponse "Арендатор не определён"
// @Security BearerAuth
// @Router /subscription/refresh [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.refresh"

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

	res := h.service.Refresh(r.Context(), tenantUID, r.URL.Path)

	log.Info("subscription refreshed",
		slog.String("tenant_uid", tenantUID),
		slog.String("state", string(res.State)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"result": res,
	}))
}
