package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"society-console/internal/export"
	"society-console/internal/scope"
	"society-console/internal/service"

	"go.uber.org/zap"
)

// DashboardHandler 仪表盘、楼栋报表与手动刷新
type DashboardHandler struct {
	sessions  *service.Registry
	readyWait time.Duration
	logger    *zap.Logger
}

func NewDashboardHandler(sessions *service.Registry, readyWait time.Duration, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{sessions: sessions, readyWait: readyWait, logger: logger}
}

// dashboardState 获取（必要时挂载）会话并返回仪表盘状态
func (h *DashboardHandler) dashboardState(r *http.Request) service.DashboardState {
	viewer, _ := ViewerFrom(r.Context())
	session := h.sessions.Acquire(viewer)
	waitReady(r.Context(), session.Dashboard.Ready(), h.readyWait)
	return session.Dashboard.State()
}

// GetDashboard 统计与新鲜度
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Ok(h.dashboardState(r)))
}

type collectionsResponse struct {
	Collections scope.Collections `json:"collections"`
	Available   bool              `json:"available"`
	Stale       bool              `json:"stale"`
	RefreshedAt time.Time         `json:"refreshed_at"`
}

// GetCollections 当前快照中已作用域过滤的列表
func (h *DashboardHandler) GetCollections(w http.ResponseWriter, r *http.Request) {
	state := h.dashboardState(r)
	resp := collectionsResponse{Available: state.Available, Stale: state.Stale}
	if state.Snapshot != nil {
		resp.Collections = state.Snapshot.Collections
		resp.RefreshedAt = state.Snapshot.RefreshedAt
		// 缓存预填充的快照只有统计，没有列表
		if state.Snapshot.FromCache {
			resp.Available = false
		}
	}
	writeJSON(w, http.StatusOK, Ok(resp))
}

// Refresh 手动刷新；target 取 dashboard / notifications / all
func (h *DashboardHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	viewer, _ := ViewerFrom(r.Context())
	h.sessions.Acquire(viewer)
	target := service.ParseTarget(r.URL.Query().Get("target"))
	h.sessions.Refresh(viewer.UserID, target)
	writeJSON(w, http.StatusAccepted, Ok(map[string]any{"target": target}))
}

// GetWingReport 楼栋报表
func (h *DashboardHandler) GetWingReport(w http.ResponseWriter, r *http.Request) {
	state := h.dashboardState(r)
	if state.Snapshot == nil || state.Snapshot.WingReport == nil {
		writeJSON(w, http.StatusOK, Fail("wing report not available yet"))
		return
	}
	writeJSON(w, http.StatusOK, Ok(state.Snapshot.WingReport))
}

// ExportWingReport 导出楼栋报表 Excel
func (h *DashboardHandler) ExportWingReport(w http.ResponseWriter, r *http.Request) {
	state := h.dashboardState(r)
	if state.Snapshot == nil || state.Snapshot.WingReport == nil {
		writeJSON(w, http.StatusOK, Fail("wing report not available yet"))
		return
	}

	data, err := export.GenerateWingReport(*state.Snapshot.WingReport)
	if err != nil {
		h.logger.Error("GenerateWingReport failed", zap.Error(err))
		writeJSON(w, http.StatusOK, Fail(fmt.Sprintf("failed to generate export: %v", err)))
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename="+export.WingReportFilename(state.Snapshot.RefreshedAt))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		// 客户端已断开，状态码已发出
		h.logger.Debug("Write wing report export failed", zap.Error(err))
	}
}
