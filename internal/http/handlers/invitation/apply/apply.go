// Package apply реализует HTTP-обработчик применения кода приглашения.
//
// Handler декодирует и валидирует код, передаёт его биллингу и при успехе
// принудительно обновляет статус подписки арендатора, чтобы продление
// стало видно немедленно. Доменные ошибки биллинга (неверный формат,
// неизвестный или использованный код) возвращаются клиенту как читаемое
// сообщение рядом с полем ввода, а не как редирект.
package apply

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/rade-studio/printing-cost-app/internal/billing"
	"github.com/rade-studio/printing-cost-app/internal/http/middlewarectx"
	"github.com/rade-studio/printing-cost-app/internal/http/response"
	"github.com/rade-studio/printing-cost-app/internal/lib/sl"
	gateservice "github.com/rade-studio/printing-cost-app/internal/services/gate"
)

// Request — структура входных данных с кодом приглашения.
type Request struct {
	Code string `json:"code" validate:"required,min=6,max=64"`
}

// Handler обрабатывает запросы на применение кода приглашения.
type Handler struct {
	log      *slog.Logger
	service  Service
	gate     Refresher
	validate *validator.Validate
}

// Service описывает интерфейс биллинга для применения кода приглашения.
type Service interface {
	ApplyInvitationCode(ctx context.Context, tenantUID, code string) error
}

// Refresher описывает интерфейс гейта для принудительного обновления после продления.
type Refresher interface {
	Refresh(ctx context.Context, tenantUID, currentRoute string) *gateservice.Result
}

// New создает новый Handler с переданными логгером, биллингом и гейтом.
func New(log *slog.Logger, service Service, gate Refresher) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		gate:     gate,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Применение кода приглашения
// @Description Продлевает подписку арендатора по коду приглашения и обновляет её статус.
// @Tags Invitation
// @Accept  json
// @Produce  json
// @Param request body Request true "Код приглашения"
// @Success 200 {object} map[string]any "Код применён, свежий результат проверки"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Арендатор не определён"
// @Failure 422 {object} response.ErrorResponse "Код отклонён биллингом"
// @Failure 500 {object} response.ErrorResponse "Биллинг недоступен"
// @Security BearerAuth
// @Router /invitation [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.invitation.apply"

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

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if err := h.service.ApplyInvitationCode(r.Context(), tenantUID, req.Code); err != nil {
		if domainErr, ok := billing.AsDomainError(err); ok {
			log.Info("invitation code rejected",
				slog.String("tenant_uid", tenantUID),
				slog.String("code", domainErr.Code))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error(domainErr.UserMessage()))
			return
		}
		log.Error("failed to apply invitation code", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("billing service unavailable, try again later"))
		return
	}

	res := h.gate.Refresh(r.Context(), tenantUID, r.URL.Path)

	log.Info("invitation code applied", slog.String("tenant_uid", tenantUID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"result": res,
	}))
}
