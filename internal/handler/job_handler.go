package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	jobService service.JobService
}

func NewJobHandler(jobService service.JobService) *JobHandler {
	return &JobHandler{jobService: jobService}
}

func (h *JobHandler) RegisterRoutes(router *gin.RouterGroup) {
	jobs := router.Group("/jobs")
	{
		jobs.GET("", middleware.RequirePermission("jobs.read"), h.ListJobs)
		jobs.GET("/:id", middleware.RequirePermission("jobs.read"), h.GetJob)
		jobs.POST("", middleware.RequirePermission("jobs.write"), h.CreateJob)
		jobs.PUT("/:id", middleware.RequirePermission("jobs.write"), h.UpdateJob)
		jobs.PATCH("/:id/status", middleware.RequirePermission("jobs.write"), h.TransitionJob)
		jobs.DELETE("/:id", middleware.RequirePermission("jobs.delete"), h.DeleteJob)

		jobs.POST("/:id/tasks", middleware.RequirePermission("jobs.write"), h.CreateTask)
	}

	tasks := router.Group("/tasks")
	{
		tasks.PATCH("/:id/status", middleware.RequirePermission("jobs.write"), h.UpdateTaskStatus)
		tasks.DELETE("/:id", middleware.RequirePermission("jobs.write"), h.DeleteTask)
	}
}

type transitionRequest struct {
	Status string `json:"status" binding:"required"`
}

// CreateJob handles POST /jobs
// @Summary      Create job
// @Description  Creates a job for a client with an auto-allocated code and its initial tasks
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateJobRequest  true  "Create Job Payload"
// @Success      201      {object}  response.Response{data=service.JobResponse}
// @Failure      400      {object}  response.Response
// @Router       /jobs [post]
func (h *JobHandler) CreateJob(c *gin.Context) {
	var req service.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	job, err := h.jobService.CreateJob(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, job))
}

// GetJob handles GET /jobs/:id
// @Summary      Get job by ID
// @Tags         jobs
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  response.Response{data=service.JobResponse}
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id} [get]
func (h *JobHandler) GetJob(c *gin.Context) {
	job, err := h.jobService.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, job))
}

// ListJobs handles GET /jobs
// @Summary      List jobs
// @Tags         jobs
// @Produce      json
// @Security     BearerAuth
// @Param        status     query     string  false  "Filter by status"
// @Param        client_id  query     string  false  "Filter by client"
// @Param        search     query     string  false  "Search in code and title"
// @Param        page       query     int     false  "Page number"
// @Param        limit      query     int     false  "Page size"
// @Success      200        {object}  response.Response
// @Router       /jobs [get]
func (h *JobHandler) ListJobs(c *gin.Context) {
	params := pagination.Parse(c)
	filter := service.JobFilter{
		Status:   c.Query("status"),
		ClientID: c.Query("client_id"),
		Search:   c.Query("search"),
		Page:     params.Page,
		Limit:    params.Limit,
	}

	jobs, total, err := h.jobService.ListJobs(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.List(http.StatusOK, jobs, response.ListMeta{Total: total, Page: params.Page, Limit: params.Limit}))
}

// UpdateJob handles PUT /jobs/:id
// @Summary      Update job
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                    true  "Job ID"
// @Param        payload  body      service.UpdateJobRequest  true  "Update Job Payload"
// @Success      200      {object}  response.Response{data=service.JobResponse}
// @Failure      400      {object}  response.Response
// @Router       /jobs/{id} [put]
func (h *JobHandler) UpdateJob(c *gin.Context) {
	var req service.UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	job, err := h.jobService.UpdateJob(c.Request.Context(), c.GetString("userID"), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, job))
}

// TransitionJob handles PATCH /jobs/:id/status
// @Summary      Change job status
// @Description  Applies a forward-only status transition
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string             true  "Job ID"
// @Param        payload  body      transitionRequest  true  "Target Status"
// @Success      200      {object}  response.Response{data=service.JobResponse}
// @Failure      409      {object}  response.Response
// @Router       /jobs/{id}/status [patch]
func (h *JobHandler) TransitionJob(c *gin.Context) {
	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	job, err := h.jobService.TransitionJob(c.Request.Context(), c.GetString("userID"), c.Param("id"), req.Status)
	if err != nil {
		c.JSON(conflictOrBadRequest(err), response.Error(conflictOrBadRequest(err), err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, job))
}

// DeleteJob handles DELETE /jobs/:id
// @Summary      Delete job
// @Description  Only jobs still in open status can be deleted
// @Tags         jobs
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /jobs/{id} [delete]
func (h *JobHandler) DeleteJob(c *gin.Context) {
	if err := h.jobService.DeleteJob(c.Request.Context(), c.GetString("userID"), c.Param("id")); err != nil {
		c.JSON(conflictOrBadRequest(err), response.Error(conflictOrBadRequest(err), err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}

// CreateTask handles POST /jobs/:id/tasks
// @Summary      Add task to job
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string               true  "Job ID"
// @Param        payload  body      service.TaskRequest  true  "Task Payload"
// @Success      201      {object}  response.Response{data=service.TaskResponse}
// @Failure      400      {object}  response.Response
// @Router       /jobs/{id}/tasks [post]
func (h *JobHandler) CreateTask(c *gin.Context) {
	var req service.TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	task, err := h.jobService.CreateTask(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, task))
}

// UpdateTaskStatus handles PATCH /tasks/:id/status
// @Summary      Change task status
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string             true  "Task ID"
// @Param        payload  body      transitionRequest  true  "Target Status"
// @Success      200      {object}  response.Response{data=service.TaskResponse}
// @Failure      400      {object}  response.Response
// @Router       /tasks/{id}/status [patch]
func (h *JobHandler) UpdateTaskStatus(c *gin.Context) {
	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	task, err := h.jobService.UpdateTaskStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, task))
}

// DeleteTask handles DELETE /tasks/:id
// @Summary      Delete task
// @Tags         jobs
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /tasks/{id} [delete]
func (h *JobHandler) DeleteTask(c *gin.Context) {
	if err := h.jobService.DeleteTask(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}
