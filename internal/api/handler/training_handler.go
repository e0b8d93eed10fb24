package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"profiremanager/backend/internal/dto"
	"profiremanager/backend/internal/service"
	"profiremanager/backend/pkg/response"
)

// TrainingHandler 培训模块 HTTP 处理器
type TrainingHandler struct {
	trainingSvc service.TrainingService
}

// NewTrainingHandler 创建 TrainingHandler
func NewTrainingHandler(trainingSvc service.TrainingService) *TrainingHandler {
	return &TrainingHandler{trainingSvc: trainingSvc}
}

// Create 新建培训（admin）
// POST /api/v1/trainings
func (h *TrainingHandler) Create(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateTrainingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.trainingSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.Created(c, result)
}

// List 培训列表
// GET /api/v1/trainings
func (h *TrainingHandler) List(c *gin.Context) {
	result, err := h.trainingSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// Update 更新培训（admin）
// PUT /api/v1/trainings/:id
func (h *TrainingHandler) Update(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateTrainingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.trainingSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		if errors.Is(err, service.ErrTrainingNotFound) {
			response.NotFound(c, 19001, "培训不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// Delete 删除培训（admin，软删除）
// DELETE /api/v1/trainings/:id
func (h *TrainingHandler) Delete(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.trainingSvc.Delete(c.Request.Context(), c.Param("id"), callerID); err != nil {
		if errors.Is(err, service.ErrTrainingNotFound) {
			response.NotFound(c, 19001, "培训不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}
