package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"profiremanager/backend/internal/dto"
	"profiremanager/backend/internal/service"
	pkgerrors "profiremanager/backend/pkg/errors"
	"profiremanager/backend/pkg/response"
)

// ReplacementHandler 替换模块 HTTP 处理器
type ReplacementHandler struct {
	replacementSvc service.ReplacementService
}

// NewReplacementHandler 创建 ReplacementHandler
func NewReplacementHandler(replacementSvc service.ReplacementService) *ReplacementHandler {
	return &ReplacementHandler{replacementSvc: replacementSvc}
}

// Create 发起替换申请（本人）
// POST /api/v1/replacements
func (h *ReplacementHandler) Create(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateReplacementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.replacementSvc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDate):
			response.BadRequest(c, 16001, "日期格式无效")
		case errors.Is(err, service.ErrAssignmentMismatch):
			response.BadRequest(c, 16002, "当前用户在该日期该班次无排班记录")
		default:
			response.InternalError(c)
		}
		return
	}
	response.Created(c, result)
}

// List 替换申请列表（supervisor/admin）
// GET /api/v1/replacements
func (h *ReplacementHandler) List(c *gin.Context) {
	var req dto.ReplacementListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	items, total, err := h.replacementSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OKPage(c, items, total, req.GetPage(), req.GetPageSize())
}

// ListMine 我发起的替换申请
// GET /api/v1/replacements/mine
func (h *ReplacementHandler) ListMine(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	items, err := h.replacementSvc.ListMine(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, items)
}

// FindCandidates 搜索并通知替换候选人（supervisor/admin）
// POST /api/v1/replacements/:id/find-candidates
func (h *ReplacementHandler) FindCandidates(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.replacementSvc.FindCandidates(c.Request.Context(), c.Param("id"), callerID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRequestNotFound):
			response.NotFound(c, 16003, "替换申请不存在")
		case errors.Is(err, service.ErrRequestNotPending):
			response.Conflict(c, 16004, "替换申请已处理")
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, gin.H{"contacted": len(result), "candidates": result})
}

// Resolve 管理员裁决替换申请（approve/refuse）
// PUT /api/v1/replacements/:id/resolve
func (h *ReplacementHandler) Resolve(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req struct {
		Approve       bool    `json:"approve"`
		ReplacementID *string `json:"replacement_id" binding:"omitempty,uuid"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	err := h.replacementSvc.Resolve(c.Request.Context(), c.Param("id"), req.Approve, req.ReplacementID, callerID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRequestNotFound):
			response.NotFound(c, 16003, "替换申请不存在")
		case errors.Is(err, service.ErrRequestNotPending):
			response.Conflict(c, 16004, "替换申请已处理")
		case errors.Is(err, pkgerrors.ErrOptimisticLock):
			response.Conflict(c, 16005, "申请已被其他操作处理，请刷新")
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, nil)
}

// ListMyNotices 我的替换通知
// GET /api/v1/replacements/notices
func (h *ReplacementHandler) ListMyNotices(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	items, err := h.replacementSvc.ListMyNotices(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, items)
}

// RespondNotice 候选人应答（接受即采纳）
// PUT /api/v1/replacements/notices/:id/respond
func (h *ReplacementHandler) RespondNotice(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.RespondNoticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	err := h.replacementSvc.RespondNotice(c.Request.Context(), c.Param("id"), userID, req.Accept)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoticeNotFound):
			response.NotFound(c, 16006, "替换通知不存在")
		case errors.Is(err, service.ErrNoticeNotOwn):
			response.Forbidden(c, 16007, "该通知不属于当前用户")
		case errors.Is(err, service.ErrNoticeAlreadyDone):
			response.Conflict(c, 16008, "该通知已应答")
		case errors.Is(err, service.ErrRequestNotPending):
			response.Conflict(c, 16004, "替换申请已处理")
		case errors.Is(err, pkgerrors.ErrOptimisticLock):
			response.Conflict(c, 16009, "替班名额已被抢先接受")
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, nil)
}
