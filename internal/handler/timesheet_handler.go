package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type TimesheetHandler struct {
	timesheetService service.TimesheetService
}

func NewTimesheetHandler(timesheetService service.TimesheetService) *TimesheetHandler {
	return &TimesheetHandler{timesheetService: timesheetService}
}

func (h *TimesheetHandler) RegisterRoutes(router *gin.RouterGroup) {
	timesheets := router.Group("/timesheets")
	{
		timesheets.POST("", middleware.RequirePermission("timesheets.write"), h.LogTime)
		timesheets.GET("", middleware.RequirePermission("timesheets.read"), h.ListEntries)
		timesheets.PUT("/:id", middleware.RequirePermission("timesheets.write"), h.UpdateEntry)
		timesheets.POST("/:id/approve", middleware.RequirePermission("timesheets.approve"), h.ApproveEntry)
		timesheets.POST("/:id/reject", middleware.RequirePermission("timesheets.approve"), h.RejectEntry)

		timesheets.GET("/table/weekly", middleware.RequirePermission("timesheets.read"), h.WeeklyTable)
		timesheets.GET("/table/monthly", middleware.RequirePermission("timesheets.read"), h.MonthlyTable)

		drafts := timesheets.Group("/drafts")
		{
			drafts.GET("", middleware.RequirePermission("timesheets.write"), h.GetDraft)
			drafts.PUT("", middleware.RequirePermission("timesheets.write"), h.SaveDraft)
			drafts.POST("/submit", middleware.RequirePermission("timesheets.write"), h.SubmitDrafts)
		}
	}
}

// LogTime handles POST /timesheets
// @Summary      Log time
// @Description  Creates a timesheet entry for the authenticated user; entries that trip a flag rule come back pending approval
// @Tags         timesheets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.LogTimeRequest  true  "Log Time Payload"
// @Success      201      {object}  response.Response{data=service.EntryResponse}
// @Failure      400      {object}  response.Response
// @Router       /timesheets [post]
func (h *TimesheetHandler) LogTime(c *gin.Context) {
	var req service.LogTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	entry, err := h.timesheetService.LogTime(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, entry))
}

// ListEntries handles GET /timesheets
// @Summary      List timesheet entries
// @Description  Entries in a daily, weekly or monthly window around the anchor date. Staff see their own entries; managers can pass user_id
// @Tags         timesheets
// @Produce      json
// @Security     BearerAuth
// @Param        period   query     string  false  "daily|weekly|monthly"  default(weekly)
// @Param        anchor   query     string  false  "Anchor date YYYY-MM-DD, defaults to today"
// @Param        user_id  query     string  false  "Filter by user (managers only)"
// @Success      200      {object}  response.Response{data=[]service.EntryResponse}
// @Router       /timesheets [get]
func (h *TimesheetHandler) ListEntries(c *gin.Context) {
	periodKind := c.DefaultQuery("period", "weekly")
	anchor := c.Query("anchor")

	userID := c.Query("user_id")
	if c.GetString("userRole") == middleware.RoleStaff {
		userID = c.GetString("userID")
	}

	entries, err := h.timesheetService.ListEntries(c.Request.Context(), userID, periodKind, anchor)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, entries))
}

// UpdateEntry handles PUT /timesheets/:id
// @Summary      Edit timesheet entry
// @Description  Edits a not-yet-approved entry and re-runs the flag rules
// @Tags         timesheets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                      true  "Entry ID"
// @Param        payload  body      service.UpdateEntryRequest  true  "Update Entry Payload"
// @Success      200      {object}  response.Response{data=service.EntryResponse}
// @Failure      409      {object}  response.Response
// @Router       /timesheets/{id} [put]
func (h *TimesheetHandler) UpdateEntry(c *gin.Context) {
	var req service.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	entry, err := h.timesheetService.UpdateEntry(c.Request.Context(), c.GetString("userID"), c.Param("id"), req)
	if err != nil {
		c.JSON(conflictOrBadRequest(err), response.Error(conflictOrBadRequest(err), err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, entry))
}

// ApproveEntry handles POST /timesheets/:id/approve
// @Summary      Approve flagged entry
// @Tags         timesheets
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Entry ID"
// @Success      200  {object}  response.Response{data=service.EntryResponse}
// @Failure      409  {object}  response.Response
// @Router       /timesheets/{id}/approve [post]
func (h *TimesheetHandler) ApproveEntry(c *gin.Context) {
	entry, err := h.timesheetService.ApproveEntry(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		c.JSON(conflictOrBadRequest(err), response.Error(conflictOrBadRequest(err), err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, entry))
}

// RejectEntry handles POST /timesheets/:id/reject
// @Summary      Reject flagged entry
// @Description  Rejects a pending entry; a note explaining the rejection is required
// @Tags         timesheets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                      true  "Entry ID"
// @Param        payload  body      service.RejectEntryRequest  true  "Rejection Note"
// @Success      200      {object}  response.Response{data=service.EntryResponse}
// @Failure      409      {object}  response.Response
// @Router       /timesheets/{id}/reject [post]
func (h *TimesheetHandler) RejectEntry(c *gin.Context) {
	var req service.RejectEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	entry, err := h.timesheetService.RejectEntry(c.Request.Context(), c.GetString("userID"), c.Param("id"), req.Note)
	if err != nil {
		c.JSON(conflictOrBadRequest(err), response.Error(conflictOrBadRequest(err), err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, entry))
}

// WeeklyTable handles GET /timesheets/table/weekly
// @Summary      Weekly timesheet table
// @Description  Hours grouped by user/job/task across the Monday-start week containing the anchor date
// @Tags         timesheets
// @Produce      json
// @Security     BearerAuth
// @Param        anchor  query     string  false  "Anchor date YYYY-MM-DD, defaults to today"
// @Success      200     {object}  response.Response{data=service.TableResponse}
// @Router       /timesheets/table/weekly [get]
func (h *TimesheetHandler) WeeklyTable(c *gin.Context) {
	table, err := h.timesheetService.WeeklyTable(c.Request.Context(), c.Query("anchor"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, table))
}

// MonthlyTable handles GET /timesheets/table/monthly
// @Summary      Monthly timesheet table
// @Description  Hours grouped by user/job/task across the "Week N" buckets of the anchor month
// @Tags         timesheets
// @Produce      json
// @Security     BearerAuth
// @Param        anchor  query     string  false  "Anchor date YYYY-MM-DD, defaults to today"
// @Success      200     {object}  response.Response{data=service.TableResponse}
// @Router       /timesheets/table/monthly [get]
func (h *TimesheetHandler) MonthlyTable(c *gin.Context) {
	table, err := h.timesheetService.MonthlyTable(c.Request.Context(), c.Query("anchor"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, table))
}

// GetDraft handles GET /timesheets/drafts
// @Summary      Get draft timesheet
// @Tags         timesheets
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=service.DraftPayload}
// @Router       /timesheets/drafts [get]
func (h *TimesheetHandler) GetDraft(c *gin.Context) {
	draft, err := h.timesheetService.GetDraft(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, draft))
}

// SaveDraft handles PUT /timesheets/drafts
// @Summary      Save draft timesheet
// @Description  Replaces the user's draft payload wholesale, last write wins
// @Tags         timesheets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.DraftPayload  true  "Draft Payload"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /timesheets/drafts [put]
func (h *TimesheetHandler) SaveDraft(c *gin.Context) {
	var payload service.DraftPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	if err := h.timesheetService.SaveDraft(c.Request.Context(), c.GetString("userID"), payload); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"saved": true}))
}

type submitDraftsRequest struct {
	Period          string `json:"period" binding:"required"` // daily|weekly|monthly
	Anchor          string `json:"anchor"`
	ManagerOverride bool   `json:"manager_override"`
}

// SubmitDrafts handles POST /timesheets/drafts/submit
// @Summary      Submit draft timesheet
// @Description  Submits draft entries in the selected period after checking total hours against the threshold gate. Exceeding the target needs a manager override
// @Tags         timesheets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      submitDraftsRequest  true  "Submit Payload"
// @Success      200      {object}  response.Response{data=service.SubmitDraftsResult}
// @Failure      422      {object}  response.Response
// @Router       /timesheets/drafts/submit [post]
func (h *TimesheetHandler) SubmitDrafts(c *gin.Context) {
	var req submitDraftsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	// Only managers and admins may override the exceeded gate
	override := req.ManagerOverride && c.GetString("userRole") != middleware.RoleStaff

	result, err := h.timesheetService.SubmitDrafts(c.Request.Context(), c.GetString("userID"), req.Period, req.Anchor, override)
	if err != nil {
		c.JSON(gateStatus(err), response.Error(gateStatus(err), err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}
