package handler

import (
	"fmt"
	"net/http"
	"time"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/reports")
	{
		reports.GET("/dashboard", middleware.RequirePermission("reports.read"), h.Dashboard)
		reports.GET("/revenue", middleware.RequirePermission("reports.read"), h.Revenue)
		reports.GET("/jobs", middleware.RequirePermission("reports.read"), h.JobStatus)
		reports.GET("/invoices", middleware.RequirePermission("reports.read"), h.InvoiceStatus)
		reports.GET("/time", middleware.RequirePermission("reports.read"), h.Time)
		reports.GET("/clients", middleware.RequirePermission("reports.read"), h.TopClients)

		reports.GET("/revenue/export", middleware.RequirePermission("reports.export"), h.ExportRevenue)
		reports.GET("/time/export", middleware.RequirePermission("reports.export"), h.ExportTime)
		reports.GET("/clients/export", middleware.RequirePermission("reports.export"), h.ExportClients)
	}
}

// Dashboard handles GET /reports/dashboard
// @Summary      Dashboard summary
// @Description  Open job count, pending approvals, status breakdowns and outstanding invoice value
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=service.DashboardResponse}
// @Router       /reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.reportService.Dashboard(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, dashboard))
}

// Revenue handles GET /reports/revenue
// @Summary      Revenue by month
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        range  query     string  false  "this_month|last_month|last_3_months|last_6_months|this_year|all"
// @Success      200    {object}  response.Response{data=service.RevenueReportResponse}
// @Router       /reports/revenue [get]
func (h *ReportHandler) Revenue(c *gin.Context) {
	report, err := h.reportService.RevenueByMonth(c.Request.Context(), c.Query("range"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}

// JobStatus handles GET /reports/jobs
// @Summary      Job status breakdown
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /reports/jobs [get]
func (h *ReportHandler) JobStatus(c *gin.Context) {
	breakdown, err := h.reportService.JobStatusBreakdown(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, breakdown))
}

// InvoiceStatus handles GET /reports/invoices
// @Summary      Invoice status breakdown
// @Description  Counts and amounts per display status; sent invoices past due appear as overdue
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /reports/invoices [get]
func (h *ReportHandler) InvoiceStatus(c *gin.Context) {
	breakdown, err := h.reportService.InvoiceStatusBreakdown(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, breakdown))
}

// Time handles GET /reports/time
// @Summary      Time by employee
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        range  query     string  false  "Report range preset"
// @Success      200    {object}  response.Response
// @Router       /reports/time [get]
func (h *ReportHandler) Time(c *gin.Context) {
	rows, err := h.reportService.TimeByEmployee(c.Request.Context(), c.Query("range"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, rows))
}

// TopClients handles GET /reports/clients
// @Summary      Top clients by revenue
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /reports/clients [get]
func (h *ReportHandler) TopClients(c *gin.Context) {
	rows, err := h.reportService.TopClients(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, rows))
}

// ExportRevenue handles GET /reports/revenue/export
// @Summary      Export revenue CSV
// @Tags         reports
// @Produce      text/csv
// @Security     BearerAuth
// @Param        range  query  string  false  "Report range preset"
// @Success      200
// @Router       /reports/revenue/export [get]
func (h *ReportHandler) ExportRevenue(c *gin.Context) {
	csvText, err := h.reportService.ExportRevenueCSV(c.Request.Context(), c.Query("range"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	writeCSVAttachment(c, "revenue", csvText)
}

// ExportTime handles GET /reports/time/export
// @Summary      Export time report CSV
// @Tags         reports
// @Produce      text/csv
// @Security     BearerAuth
// @Param        range  query  string  false  "Report range preset"
// @Success      200
// @Router       /reports/time/export [get]
func (h *ReportHandler) ExportTime(c *gin.Context) {
	csvText, err := h.reportService.ExportTimeCSV(c.Request.Context(), c.Query("range"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	writeCSVAttachment(c, "time", csvText)
}

// ExportClients handles GET /reports/clients/export
// @Summary      Export client revenue CSV
// @Tags         reports
// @Produce      text/csv
// @Security     BearerAuth
// @Success      200
// @Router       /reports/clients/export [get]
func (h *ReportHandler) ExportClients(c *gin.Context) {
	csvText, err := h.reportService.ExportClientsCSV(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	writeCSVAttachment(c, "clients", csvText)
}

func writeCSVAttachment(c *gin.Context, name, csvText string) {
	filename := fmt.Sprintf("%s-%s.csv", name, time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(csvText))
}
