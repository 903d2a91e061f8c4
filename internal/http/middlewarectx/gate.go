package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/rade-studio/printing-cost-app/internal/http/response"
	gateservice "github.com/rade-studio/printing-cost-app/internal/services/gate"
)

// GateValidator описывает интерфейс гейта подписки.
type GateValidator interface {
	Validate(ctx context.Context, tenantUID, currentRoute string, force bool) *gateservice.Result
}

// SubscriptionGateMiddleware создает middleware жёсткого гейта подписки.
//
// Пока подписка недействительна или проверка не завершена, защищённые
// обработчики не вызываются вовсе: браузерный клиент получает 303 на
// страницу оплаты, API-клиент — 403 с тем же маршрутом в теле. На самой
// странице оплаты и на странице входа гейт редирект не выдаёт.
func SubscriptionGateMiddleware(log *slog.Logger, gate GateValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tenantUID, ok := r.Context().Value(TenantUID).(string)
			if !ok || tenantUID == "" {
				log.Error("tenant identification missing")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("tenant identification missing"))
				return
			}

			res := gate.Validate(r.Context(), tenantUID, r.URL.Path, false)
			if res.Valid {
				next.ServeHTTP(w, r)
				return
			}

			if res.RedirectTo != "" && acceptsHTML(r) {
				http.Redirect(w, r, res.RedirectTo, http.StatusSeeOther)
				return
			}

			log.Info("subscription invalid, access denied", slog.String("tenant_uid", tenantUID))
			render.Status(r, http.StatusForbidden)
			render.JSON(w, r, response.Response{
				Status: response.StatusError,
				Error:  "subscription expired, access denied",
				Data:   map[string]any{"redirect_to": res.RedirectTo},
			})
		})
	}
}

func acceptsHTML(r *http.Request) bool {
	for _, accept := range r.Header.Values("Accept") {
		if accept == "text/html" || len(accept) >= 9 && accept[:9] == "text/html" {
			return true
		}
	}
	return false
}
