package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"profiremanager/backend/internal/service"
	"profiremanager/backend/pkg/response"
)

// ExportHandler 导出模块 HTTP 处理器（Excel 报表 + iCalendar 订阅）
type ExportHandler struct {
	exportSvc   service.ExportService
	calendarSvc service.CalendarService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService, calendarSvc service.CalendarService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc, calendarSvc: calendarSvc}
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportWeekPlanning 导出周排班表
// GET /api/v1/export/planning?week_start=YYYY-MM-DD
func (h *ExportHandler) ExportWeekPlanning(c *gin.Context) {
	weekStart := c.Query("week_start")
	if weekStart == "" {
		response.BadRequest(c, 10001, "week_start 不能为空")
		return
	}

	buf, filename, err := h.exportSvc.ExportWeekPlanning(c.Request.Context(), weekStart)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	writeXLSX(c, buf.Bytes(), filename)
}

// ExportMonthlyHours 导出月度工时统计
// GET /api/v1/export/hours?year=&month=
func (h *ExportHandler) ExportMonthlyHours(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		response.BadRequest(c, 10001, "year 无效")
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		response.BadRequest(c, 10001, "month 无效")
		return
	}

	buf, filename, err := h.exportSvc.ExportMonthlyHours(c.Request.Context(), year, month)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	writeXLSX(c, buf.Bytes(), filename)
}

// ExportMyCalendar 导出本人排班为 iCalendar
// GET /api/v1/export/calendar?from=&to=
func (h *ExportHandler) ExportMyCalendar(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	ics, err := h.calendarSvc.ExportUserCalendar(c.Request.Context(), userID, c.Query("from"), c.Query("to"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidDate) || errors.Is(err, service.ErrEndBeforeStart) {
			response.BadRequest(c, 10001, "日期区间无效")
			return
		}
		response.InternalError(c)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=planning.ics")
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(ics))
}

func writeXLSX(c *gin.Context, data []byte, filename string) {
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Header("Content-Type", xlsxContentType)
	c.Data(http.StatusOK, xlsxContentType, data)
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportNoAssignments):
		response.NotFound(c, 19101, "该周暂无排班记录")
	case errors.Is(err, service.ErrInvalidDate), errors.Is(err, service.ErrEndBeforeStart):
		response.BadRequest(c, 10001, "日期无效")
	default:
		response.InternalError(c)
	}
}
