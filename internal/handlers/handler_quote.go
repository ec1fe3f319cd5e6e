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

// quoteHandler handles HTTP requests related to quotes.
type quoteHandler struct {
	quoteService      portssvc.QuoteSvcFacade
	conversionService portssvc.ConversionSvc
}

// registerQuoteRoutes registers routes related to quotes.
func registerQuoteRoutes(rg *gin.RouterGroup, quoteService portssvc.QuoteSvcFacade, conversionService portssvc.ConversionSvc) {
	h := &quoteHandler{quoteService: quoteService, conversionService: conversionService}

	quotes := rg.Group("/quotes")
	{
		quotes.POST("", h.createQuote)
		quotes.GET("", h.listQuotes)
		quotes.GET("/:id", h.getQuote)
		quotes.PATCH("/:id", h.updateQuote)
		quotes.DELETE("/:id", h.deleteQuote)
		quotes.POST("/:id/status", h.changeQuoteStatus)
		quotes.POST("/:id/convert", h.convertQuote)
	}
}

// createQuote godoc
// @Summary Create a new quote
// @Description Prices the items, assigns the next DEV number and stores the quote
// @Tags quotes
// @Accept  json
// @Produce  json
// @Param   quote body dto.CreateQuoteRequest true "Quote details"
// @Success 201 {object} dto.QuoteResponse
// @Failure 400 {object} map[string]string "Invalid input or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Client or creator not found"
// @Failure 500 {object} map[string]string "Failed to create quote"
// @Security BearerAuth
// @Router /quotes [post]
func (h *quoteHandler) createQuote(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateQuoteRequest
	if !bindJSON(c, &req, "CreateQuote") {
		return
	}
	userID, ok := actorID(c)
	if !ok {
		return
	}

	logger.Info("Received request to create quote", slog.String("client_id", req.ClientID), slog.Int("items", len(req.Items)))
	quote, err := h.quoteService.CreateQuote(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create quote")
		return
	}

	logger.Info("Quote created successfully", slog.String("quote_id", quote.QuoteID), slog.String("number", quote.Number))
	c.JSON(http.StatusCreated, dto.ToQuoteResponse(quote))
}

// getQuote godoc
// @Summary Get a quote by ID
// @Tags quotes
// @Produce  json
// @Param   id path string true "Quote ID"
// @Success 200 {object} dto.QuoteResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Quote not found"
// @Failure 500 {object} map[string]string "Failed to retrieve quote"
// @Security BearerAuth
// @Router /quotes/{id} [get]
func (h *quoteHandler) getQuote(c *gin.Context) {
	quote, err := h.quoteService.GetQuoteByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve quote")
		return
	}
	c.JSON(http.StatusOK, dto.ToQuoteResponse(quote))
}

// listQuotes godoc
// @Summary List quotes
// @Description Lists quotes, optionally filtered by client or status
// @Tags quotes
// @Produce  json
// @Param   clientID query string false "Only quotes of this client"
// @Param   status query string false "Only quotes in this status"
// @Success 200 {array} dto.QuoteResponse
// @Failure 400 {object} map[string]string "Unknown status"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list quotes"
// @Security BearerAuth
// @Router /quotes [get]
func (h *quoteHandler) listQuotes(c *gin.Context) {
	ctx := c.Request.Context()
	var (
		quotes []domain.Quote
		err    error
	)
	switch {
	case c.Query("status") != "":
		var status domain.QuoteStatus
		if status, err = domain.ParseQuoteStatus(c.Query("status")); err == nil {
			quotes, err = h.quoteService.ListQuotesByStatus(ctx, status)
		}
	case c.Query("clientID") != "":
		quotes, err = h.quoteService.ListQuotesByClient(ctx, c.Query("clientID"))
	default:
		quotes, err = h.quoteService.ListQuotes(ctx)
	}
	if err != nil {
		respondError(c, err, "Failed to list quotes")
		return
	}
	c.JSON(http.StatusOK, dto.ToListQuoteResponse(quotes))
}

// updateQuote godoc
// @Summary Update a quote
// @Description Applies a partial update. Replacing the items recomputes the totals; a status change is validated against the lifecycle.
// @Tags quotes
// @Accept  json
// @Produce  json
// @Param   id path string true "Quote ID"
// @Param   quote body dto.UpdateQuoteRequest true "Fields to update"
// @Success 200 {object} dto.QuoteResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Quote not found"
// @Failure 409 {object} map[string]string "Quote was modified concurrently"
// @Failure 422 {object} map[string]string "Quote can no longer be modified"
// @Failure 500 {object} map[string]string "Failed to update quote"
// @Security BearerAuth
// @Router /quotes/{id} [patch]
func (h *quoteHandler) updateQuote(c *gin.Context) {
	var req dto.UpdateQuoteRequest
	if !bindJSON(c, &req, "UpdateQuote") {
		return
	}
	userID, ok := actorID(c)
	if !ok {
		return
	}

	quote, err := h.quoteService.UpdateQuote(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to update quote")
		return
	}
	c.JSON(http.StatusOK, dto.ToQuoteResponse(quote))
}

// changeQuoteStatus godoc
// @Summary Change the status of a quote
// @Description Sends, accepts or rejects a quote
// @Tags quotes
// @Accept  json
// @Produce  json
// @Param   id path string true "Quote ID"
// @Param   status body dto.ChangeStatusRequest true "Target status"
// @Success 200 {object} dto.QuoteResponse
// @Failure 400 {object} map[string]string "Unknown status"
// @Failure 404 {object} map[string]string "Quote not found"
// @Failure 422 {object} map[string]string "Transition not allowed"
// @Failure 500 {object} map[string]string "Failed to change quote status"
// @Security BearerAuth
// @Router /quotes/{id}/status [post]
func (h *quoteHandler) changeQuoteStatus(c *gin.Context) {
	var req dto.ChangeStatusRequest
	if !bindJSON(c, &req, "ChangeQuoteStatus") {
		return
	}
	userID, ok := actorID(c)
	if !ok {
		return
	}
	target, err := domain.ParseQuoteStatus(req.Status)
	if err != nil {
		respondError(c, err, "Failed to change quote status")
		return
	}

	quote, err := h.quoteService.ChangeQuoteStatus(c.Request.Context(), c.Param("id"), target, userID)
	if err != nil {
		respondError(c, err, "Failed to change quote status")
		return
	}
	c.JSON(http.StatusOK, dto.ToQuoteResponse(quote))
}

// convertQuote godoc
// @Summary Convert a quote into an invoice
// @Description Creates an invoice from an eligible quote and marks the quote CONVERTED, atomically
// @Tags quotes
// @Accept  json
// @Produce  json
// @Param   id path string true "Quote ID"
// @Param   overrides body dto.ConvertQuoteRequest false "Invoice overrides"
// @Success 201 {object} dto.InvoiceResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Quote not found"
// @Failure 409 {object} map[string]string "Quote was converted concurrently"
// @Failure 422 {object} map[string]string "Quote is not eligible for conversion"
// @Failure 500 {object} map[string]string "Failed to convert quote"
// @Security BearerAuth
// @Router /quotes/{id}/convert [post]
func (h *quoteHandler) convertQuote(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ConvertQuoteRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req, "ConvertQuote") {
		return
	}
	userID, ok := actorID(c)
	if !ok {
		return
	}

	quoteID := c.Param("id")
	invoice, err := h.conversionService.ConvertQuoteToInvoice(c.Request.Context(), quoteID, req, userID)
	if err != nil {
		respondError(c, err, "Failed to convert quote")
		return
	}

	logger.Info("Quote converted", slog.String("quote_id", quoteID), slog.String("invoice_number", invoice.Number))
	c.JSON(http.StatusCreated, dto.ToInvoiceResponse(invoice))
}

// deleteQuote godoc
// @Summary Delete a quote
// @Tags quotes
// @Param   id path string true "Quote ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Quote not found"
// @Failure 500 {object} map[string]string "Failed to delete quote"
// @Security BearerAuth
// @Router /quotes/{id} [delete]
func (h *quoteHandler) deleteQuote(c *gin.Context) {
	if err := h.quoteService.DeleteQuote(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete quote")
		return
	}
	c.Status(http.StatusNoContent)
}
