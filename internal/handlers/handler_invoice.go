package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/erp_lite/internal/core/domain"
	portssvc "github.com/SscSPs/erp_lite/internal/core/ports/services"
	"github.com/SscSPs/erp_lite/internal/dto"
	"github.com/SscSPs/erp_lite/internal/middleware"
	"github.com/gin-gonic/gin"
)

// invoiceHandler handles HTTP requests related to invoices.
type invoiceHandler struct {
	invoiceService portssvc.InvoiceSvcFacade
}

// registerInvoiceRoutes registers routes related to invoices.
func registerInvoiceRoutes(rg *gin.RouterGroup, invoiceService portssvc.InvoiceSvcFacade) {
	h := &invoiceHandler{invoiceService: invoiceService}

	invoices := rg.Group("/invoices")
	{
		invoices.POST("", h.createInvoice)
		invoices.POST("/from-quote", h.createInvoiceFromQuote)
		invoices.GET("", h.listInvoices)
		invoices.GET("/:id", h.getInvoice)
		invoices.PATCH("/:id", h.updateInvoice)
		invoices.DELETE("/:id", h.deleteInvoice)
		invoices.POST("/:id/status", h.changeInvoiceStatus)
		invoices.POST("/:id/mark-paid", h.markInvoiceAsPaid)
	}
}

// createInvoice godoc
// @Summary Create a new invoice
// @Description Prices the items, assigns the next FACT number and stores the invoice
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   invoice body dto.CreateInvoiceRequest true "Invoice details"
// @Success 201 {object} dto.InvoiceResponse
// @Failure 400 {object} map[string]string "Invalid input or validation error"
// @Failure 404 {object} map[string]string "Client or creator not found"
// @Failure 500 {object} map[string]string "Failed to create invoice"
// @Security BearerAuth
// @Router /invoices [post]
func (h *invoiceHandler) createInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateInvoiceRequest
	if !bindJSON(c, &req, "CreateInvoice") {
		return
	}
	userID, ok := actorID(c)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create invoice")
		return
	}

	logger.Info("Invoice created successfully", slog.String("invoice_id", invoice.InvoiceID), slog.String("number", invoice.Number))
	c.JSON(http.StatusCreated, dto.ToInvoiceResponse(invoice))
}

// createInvoiceFromQuote godoc
// @Summary Create an invoice from a quote
// @Description Same as converting the quote
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   request body dto.CreateInvoiceFromQuoteRequest true "Quote reference and overrides"
// @Success 201 {object} dto.InvoiceResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Quote not found"
// @Failure 422 {object} map[string]string "Quote is not eligible for conversion"
// @Failure 500 {object} map[string]string "Failed to create invoice"
// @Security BearerAuth
// @Router /invoices/from-quote [post]
func (h *invoiceHandler) createInvoiceFromQuote(c *gin.Context) {
	var req dto.CreateInvoiceFromQuoteRequest
	if !bindJSON(c, &req, "CreateInvoiceFromQuote") {
		return
	}
	userID, ok := actorID(c)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.CreateInvoiceFromQuote(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create invoice")
		return
	}
	c.JSON(http.StatusCreated, dto.ToInvoiceResponse(invoice))
}

// getInvoice godoc
// @Summary Get an invoice by ID
// @Tags invoices
// @Produce  json
// @Param   id path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 500 {object} map[string]string "Failed to retrieve invoice"
// @Security BearerAuth
// @Router /invoices/{id} [get]
func (h *invoiceHandler) getInvoice(c *gin.Context) {
	invoice, err := h.invoiceService.GetInvoiceByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve invoice")
		return
	}
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

// listInvoices godoc
// @Summary List invoices
// @Description Lists invoices, optionally filtered by client or status
// @Tags invoices
// @Produce  json
// @Param   clientID query string false "Only invoices of this client"
// @Param   status query string false "Only invoices in this status"
// @Success 200 {array} dto.InvoiceResponse
// @Failure 400 {object} map[string]string "Unknown status"
// @Failure 500 {object} map[string]string "Failed to list invoices"
// @Security BearerAuth
// @Router /invoices [get]
func (h *invoiceHandler) listInvoices(c *gin.Context) {
	ctx := c.Request.Context()
	var (
		invoices []domain.Invoice
		err      error
	)
	switch {
	case c.Query("status") != "":
		var status domain.InvoiceStatus
		if status, err = domain.ParseInvoiceStatus(c.Query("status")); err == nil {
			invoices, err = h.invoiceService.ListInvoicesByStatus(ctx, status)
		}
	case c.Query("clientID") != "":
		invoices, err = h.invoiceService.ListInvoicesByClient(ctx, c.Query("clientID"))
	default:
		invoices, err = h.invoiceService.ListInvoices(ctx)
	}
	if err != nil {
		respondError(c, err, "Failed to list invoices")
		return
	}
	c.JSON(http.StatusOK, dto.ToListInvoiceResponse(invoices))
}

// updateInvoice godoc
// @Summary Update an invoice
// @Description Applies a partial update. A status change is validated against the lifecycle.
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   id path string true "Invoice ID"
// @Param   invoice body dto.UpdateInvoiceRequest true "Fields to update"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 409 {object} map[string]string "Invoice was modified concurrently"
// @Failure 422 {object} map[string]string "Invoice can no longer be modified"
// @Failure 500 {object} map[string]string "Failed to update invoice"
// @Security BearerAuth
// @Router /invoices/{id} [patch]
func (h *invoiceHandler) updateInvoice(c *gin.Context) {
	var req dto.UpdateInvoiceRequest
	if !bindJSON(c, &req, "UpdateInvoice") {
		return
	}
	userID, ok := actorID(c)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.UpdateInvoice(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to update invoice")
		return
	}
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

// changeInvoiceStatus godoc
// @Summary Change the status of an invoice
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   id path string true "Invoice ID"
// @Param   status body dto.ChangeStatusRequest true "Target status, with the payment date when PAID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 400 {object} map[string]string "Unknown status"
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 422 {object} map[string]string "Transition not allowed"
// @Failure 500 {object} map[string]string "Failed to change invoice status"
// @Security BearerAuth
// @Router /invoices/{id}/status [post]
func (h *invoiceHandler) changeInvoiceStatus(c *gin.Context) {
	var req dto.ChangeStatusRequest
	if !bindJSON(c, &req, "ChangeInvoiceStatus") {
		return
	}
	userID, ok := actorID(c)
	if !ok {
		return
	}
	target, err := domain.ParseInvoiceStatus(req.Status)
	if err != nil {
		respondError(c, err, "Failed to change invoice status")
		return
	}

	invoice, err := h.invoiceService.ChangeInvoiceStatus(c.Request.Context(), c.Param("id"), target, req.PaidDate.TimePtr(), userID)
	if err != nil {
		respondError(c, err, "Failed to change invoice status")
		return
	}
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

// markInvoiceAsPaid godoc
// @Summary Mark an invoice as paid
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   id path string true "Invoice ID"
// @Param   payment body dto.MarkAsPaidRequest false "Payment details"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 422 {object} map[string]string "Invoice cannot be paid in its current status"
// @Failure 500 {object} map[string]string "Failed to mark invoice as paid"
// @Security BearerAuth
// @Router /invoices/{id}/mark-paid [post]
func (h *invoiceHandler) markInvoiceAsPaid(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.MarkAsPaidRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req, "MarkInvoiceAsPaid") {
		return
	}
	userID, ok := actorID(c)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.MarkInvoiceAsPaid(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to mark invoice as paid")
		return
	}
	logger.Info("Invoice paid", slog.String("invoice_id", invoice.InvoiceID), slog.String("payment_method", invoice.PaymentMethod))
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

// deleteInvoice godoc
// @Summary Delete an invoice
// @Tags invoices
// @Param   id path string true "Invoice ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 500 {object} map[string]string "Failed to delete invoice"
// @Security BearerAuth
// @Router /invoices/{id} [delete]
func (h *invoiceHandler) deleteInvoice(c *gin.Context) {
	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete invoice")
		return
	}
	c.Status(http.StatusNoContent)
}
