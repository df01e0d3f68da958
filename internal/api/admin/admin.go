package admin

import (
	"net/http"
	"strconv"

	"github.com/Jon-Makkonahi/YATUBE/internal/errors"
	"github.com/Jon-Makkonahi/YATUBE/internal/middleware"
	"github.com/Jon-Makkonahi/YATUBE/internal/service"
	"github.com/Jon-Makkonahi/YATUBE/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler 管理接口，返回 JSON
type AdminHandler struct {
	groupService *service.GroupService
	statsService *service.StatsService
	monitor      *middleware.ErrorMonitor
}

// NewAdminHandler 创建一个新的 AdminHandler 实例
func NewAdminHandler(groupService *service.GroupService, statsService *service.StatsService, monitor *middleware.ErrorMonitor) *AdminHandler {
	return &AdminHandler{groupService: groupService, statsService: statsService, monitor: monitor}
}

// GetGroups 分组列表
func (h *AdminHandler) GetGroups(c *gin.Context) {
	groups, err := h.groupService.List(c.Request.Context())
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, http.StatusOK, gin.H{"groups": groups, "total": len(groups)}, "")
}

// CreateGroup 创建分组
func (h *AdminHandler) CreateGroup(c *gin.Context) {
	var form service.GroupForm
	if err := c.ShouldBind(&form); err != nil {
		util.Logger.Warn("创建分组失败，无效的请求数据", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrBadRequest, "invalid request body", err))
		return
	}

	group, err := h.groupService.Create(c.Request.Context(), form)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, http.StatusCreated, group, "group created")
}

// DeleteGroup 删除分组，帖子保留
func (h *AdminHandler) DeleteGroup(c *gin.Context) {
	if err := h.groupService.DeleteBySlug(c.Request.Context(), c.Param("slug")); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, http.StatusOK, nil, "group deleted")
}

// GetErrorStats 按错误码统计的请求错误
func (h *AdminHandler) GetErrorStats(c *gin.Context) {
	counts := h.monitor.GetErrorCounts()
	stats := make(map[string]int, len(counts))
	for code, count := range counts {
		stats[strconv.Itoa(int(code))] = count
	}
	errors.HandleSuccess(c, http.StatusOK, gin.H{"errors": stats}, "")
}

// GetStats 站点统计
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.statsService.GetSiteStats(c.Request.Context())
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, http.StatusOK, stats, "")
}
