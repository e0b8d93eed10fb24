package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"profiremanager/backend/internal/dto"
	"profiremanager/backend/internal/service"
	"profiremanager/backend/pkg/response"
)

// ShiftTypeHandler 班次类型模块 HTTP 处理器
type ShiftTypeHandler struct {
	shiftTypeSvc service.ShiftTypeService
}

// NewShiftTypeHandler 创建 ShiftTypeHandler
func NewShiftTypeHandler(shiftTypeSvc service.ShiftTypeService) *ShiftTypeHandler {
	return &ShiftTypeHandler{shiftTypeSvc: shiftTypeSvc}
}

// Create 新建班次类型（admin）
// POST /api/v1/shift-types
func (h *ShiftTypeHandler) Create(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateShiftTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.shiftTypeSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.Created(c, result)
}

// List 班次类型列表
// GET /api/v1/shift-types
func (h *ShiftTypeHandler) List(c *gin.Context) {
	result, err := h.shiftTypeSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// Update 更新班次类型（admin）
// PUT /api/v1/shift-types/:id
func (h *ShiftTypeHandler) Update(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateShiftTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.shiftTypeSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		if errors.Is(err, service.ErrShiftTypeNotFound) {
			response.NotFound(c, 13001, "班次类型不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// Delete 删除班次类型（admin，软删除）
// DELETE /api/v1/shift-types/:id
func (h *ShiftTypeHandler) Delete(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.shiftTypeSvc.Delete(c.Request.Context(), c.Param("id"), callerID); err != nil {
		if errors.Is(err, service.ErrShiftTypeNotFound) {
			response.NotFound(c, 13001, "班次类型不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}
