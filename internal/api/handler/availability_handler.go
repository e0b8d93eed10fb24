package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"profiremanager/backend/internal/dto"
	"profiremanager/backend/internal/service"
	"profiremanager/backend/pkg/response"
)

// AvailabilityHandler 可用性申报模块 HTTP 处理器
type AvailabilityHandler struct {
	availabilitySvc service.AvailabilityService
}

// NewAvailabilityHandler 创建 AvailabilityHandler
func NewAvailabilityHandler(availabilitySvc service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availabilitySvc: availabilitySvc}
}

// Replace 整批替换本人某区间的申报
// PUT /api/v1/availabilities
func (h *AvailabilityHandler) Replace(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ReplaceAvailabilitiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	count, err := h.availabilitySvc.Replace(c.Request.Context(), userID, &req, userID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDate) || errors.Is(err, service.ErrEndBeforeStart) {
			response.BadRequest(c, 14001, "日期区间无效")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"count": count})
}

// ListMine 查询本人申报
// GET /api/v1/availabilities?from=&to=
func (h *AvailabilityHandler) ListMine(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.AvailabilityListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	items, err := h.availabilitySvc.ListByUser(c.Request.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDate) || errors.Is(err, service.ErrEndBeforeStart) {
			response.BadRequest(c, 14001, "日期区间无效")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, items)
}

// ListUser 查询指定人员申报（supervisor/admin）
// GET /api/v1/users/:id/availabilities?from=&to=
func (h *AvailabilityHandler) ListUser(c *gin.Context) {
	var req dto.AvailabilityListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	items, err := h.availabilitySvc.ListByUser(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDate) || errors.Is(err, service.ErrEndBeforeStart) {
			response.BadRequest(c, 14001, "日期区间无效")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, items)
}
