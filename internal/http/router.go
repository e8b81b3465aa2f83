package httpapi

import (
	"net/http"
	"time"

	"society-console/internal/security"
	"society-console/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Options 路由依赖
type Options struct {
	Sessions *service.Registry
	Secret   []byte
	// ReadyWait 首次请求等待第一个周期的最长时间
	ReadyWait time.Duration
	Logger    *zap.Logger
}

// NewRouter 挂载健康检查与 /api/v1 下的查看者接口
func NewRouter(opts Options) http.Handler {
	if opts.ReadyWait == 0 {
		opts.ReadyWait = 3 * time.Second
	}
	dashboard := NewDashboardHandler(opts.Sessions, opts.ReadyWait, opts.Logger)
	notifications := NewNotificationHandler(opts.Sessions, opts.ReadyWait, opts.Logger)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(opts.Logger))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, Ok(map[string]any{
			"status":   "ok",
			"sessions": opts.Sessions.Len(),
		}))
	})

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(RequireViewer(opts.Secret, opts.Logger))

		api.Get("/dashboard", dashboard.GetDashboard)
		api.Get("/dashboard/collections", dashboard.GetCollections)
		api.With(RequireCapability(security.CapTriggerRefresh)).Post("/dashboard/refresh", dashboard.Refresh)

		api.With(RequireCapability(security.CapViewWingReport)).Get("/reports/wings", dashboard.GetWingReport)
		api.With(RequireCapability(security.CapExportWingReport)).Get("/reports/wings/export", dashboard.ExportWingReport)

		api.Get("/notifications", notifications.List)
		api.With(RequireCapability(security.CapMarkNotifications)).Post("/notifications/read-all", notifications.MarkAllRead)
		api.With(RequireCapability(security.CapMarkNotifications)).Post("/notifications/{id}/read", notifications.MarkRead)
	})

	return r
}
