package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type InvoiceHandler struct {
	invoiceService service.InvoiceService
}

func NewInvoiceHandler(invoiceService service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

func (h *InvoiceHandler) RegisterRoutes(router *gin.RouterGroup) {
	invoices := router.Group("/invoices")
	{
		invoices.GET("", middleware.RequirePermission("invoices.read"), h.ListInvoices)
		invoices.GET("/:id", middleware.RequirePermission("invoices.read"), h.GetInvoice)
		invoices.GET("/preview/:jobId", middleware.RequirePermission("invoices.write"), h.PreviewInvoice)
		invoices.POST("", middleware.RequirePermission("invoices.write"), h.CreateInvoice)
		invoices.PUT("/:id", middleware.RequirePermission("invoices.write"), h.UpdateInvoice)
		invoices.PATCH("/:id/status", middleware.RequirePermission("invoices.write"), h.TransitionInvoice)
		invoices.DELETE("/:id", middleware.RequirePermission("invoices.delete"), h.DeleteInvoice)
	}
}

// PreviewInvoice handles GET /invoices/preview/:jobId
// @Summary      Preview invoice for job
// @Description  Computes the auto-generated line item, totals and the next invoice number without persisting anything
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        jobId  path      string  true  "Job ID"
// @Success      200    {object}  response.Response{data=service.InvoicePreview}
// @Failure      400    {object}  response.Response
// @Router       /invoices/preview/{jobId} [get]
func (h *InvoiceHandler) PreviewInvoice(c *gin.Context) {
	preview, err := h.invoiceService.PreviewInvoice(c.Request.Context(), c.Param("jobId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, preview))
}

// CreateInvoice handles POST /invoices
// @Summary      Create invoice
// @Description  Creates a draft invoice with a unique sequential number and a snapshot of the client details
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateInvoiceRequest  true  "Create Invoice Payload"
// @Success      201      {object}  response.Response{data=service.InvoiceResponse}
// @Failure      400      {object}  response.Response
// @Router       /invoices [post]
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var req service.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, invoice))
}

// GetInvoice handles GET /invoices/:id
// @Summary      Get invoice by ID
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  response.Response{data=service.InvoiceResponse}
// @Failure      404  {object}  response.Response
// @Router       /invoices/{id} [get]
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

// ListInvoices handles GET /invoices
// @Summary      List invoices
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        status     query     string  false  "Filter by stored status"
// @Param        client_id  query     string  false  "Filter by client"
// @Param        number     query     string  false  "Search by invoice number"
// @Param        page       query     int     false  "Page number"
// @Param        limit      query     int     false  "Page size"
// @Success      200        {object}  response.Response
// @Router       /invoices [get]
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	params := pagination.Parse(c)
	filter := service.InvoiceFilter{
		Status:   c.Query("status"),
		ClientID: c.Query("client_id"),
		Number:   c.Query("number"),
		Page:     params.Page,
		Limit:    params.Limit,
	}

	invoices, total, err := h.invoiceService.ListInvoices(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.List(http.StatusOK, invoices, response.ListMeta{Total: total, Page: params.Page, Limit: params.Limit}))
}

// UpdateInvoice handles PUT /invoices/:id
// @Summary      Update draft invoice
// @Description  Replaces line items and billing fields. Only drafts can be edited; at least one line item must remain
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                        true  "Invoice ID"
// @Param        payload  body      service.UpdateInvoiceRequest  true  "Update Invoice Payload"
// @Success      200      {object}  response.Response{data=service.InvoiceResponse}
// @Failure      409      {object}  response.Response
// @Router       /invoices/{id} [put]
func (h *InvoiceHandler) UpdateInvoice(c *gin.Context) {
	var req service.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	invoice, err := h.invoiceService.UpdateInvoice(c.Request.Context(), c.GetString("userID"), c.Param("id"), req)
	if err != nil {
		c.JSON(conflictOrBadRequest(err), response.Error(conflictOrBadRequest(err), err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

// TransitionInvoice handles PATCH /invoices/:id/status
// @Summary      Change invoice status
// @Description  Applies a lifecycle transition (draft→sent, sent→paid, draft/sent→cancelled)
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string             true  "Invoice ID"
// @Param        payload  body      transitionRequest  true  "Target Status"
// @Success      200      {object}  response.Response{data=service.InvoiceResponse}
// @Failure      409      {object}  response.Response
// @Router       /invoices/{id}/status [patch]
func (h *InvoiceHandler) TransitionInvoice(c *gin.Context) {
	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	invoice, err := h.invoiceService.TransitionInvoice(c.Request.Context(), c.GetString("userID"), c.Param("id"), req.Status)
	if err != nil {
		c.JSON(conflictOrBadRequest(err), response.Error(conflictOrBadRequest(err), err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

// DeleteInvoice handles DELETE /invoices/:id
// @Summary      Delete draft invoice
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /invoices/{id} [delete]
func (h *InvoiceHandler) DeleteInvoice(c *gin.Context) {
	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), c.GetString("userID"), c.Param("id")); err != nil {
		c.JSON(conflictOrBadRequest(err), response.Error(conflictOrBadRequest(err), err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}
