package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"profiremanager/backend/internal/dto"
	"profiremanager/backend/internal/service"
	"profiremanager/backend/pkg/response"
)

// StatsHandler 统计模块 HTTP 处理器
type StatsHandler struct {
	statsSvc service.StatsService
}

// NewStatsHandler 创建 StatsHandler
func NewStatsHandler(statsSvc service.StatsService) *StatsHandler {
	return &StatsHandler{statsSvc: statsSvc}
}

// Dashboard 仪表盘统计
// GET /api/v1/stats/dashboard
func (h *StatsHandler) Dashboard(c *gin.Context) {
	result, err := h.statsSvc.Dashboard(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// Coverage 区间覆盖率
// GET /api/v1/stats/coverage?from=&to=
func (h *StatsHandler) Coverage(c *gin.Context) {
	var req dto.CoverageRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.statsSvc.Coverage(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDate) || errors.Is(err, service.ErrEndBeforeStart) {
			response.BadRequest(c, 17001, "日期区间无效")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// MonthlyHours 月度工时统计（supervisor/admin）
// GET /api/v1/stats/monthly-hours?year=&month=
func (h *StatsHandler) MonthlyHours(c *gin.Context) {
	var req dto.MonthlyHoursRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.statsSvc.MonthlyHours(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// MyStats 本人当月概览
// GET /api/v1/stats/me
func (h *StatsHandler) MyStats(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.statsSvc.UserMonthlyStats(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}
