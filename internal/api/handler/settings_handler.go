package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"profiremanager/backend/internal/dto"
	"profiremanager/backend/internal/service"
	"profiremanager/backend/pkg/response"
)

// SettingsHandler 替换参数模块 HTTP 处理器
type SettingsHandler struct {
	settingsSvc service.SettingsService
}

// NewSettingsHandler 创建 SettingsHandler
func NewSettingsHandler(settingsSvc service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsSvc: settingsSvc}
}

// Get 查询替换参数
// GET /api/v1/settings/replacement
func (h *SettingsHandler) Get(c *gin.Context) {
	result, err := h.settingsSvc.Get(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// Update 更新替换参数（admin）
// PUT /api/v1/settings/replacement
func (h *SettingsHandler) Update(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.settingsSvc.Update(c.Request.Context(), &req, callerID)
	if err != nil {
		if errors.Is(err, service.ErrWeightsInvalid) {
			response.BadRequest(c, 18001, "职级权重与培训权重之和必须为 1")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}
