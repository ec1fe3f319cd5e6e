package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/erp_lite/internal/core/ports/services"
	"github.com/SscSPs/erp_lite/internal/dto"
	"github.com/SscSPs/erp_lite/internal/middleware"
	"github.com/gin-gonic/gin"
)

// clientHandler handles HTTP requests related to clients.
type clientHandler struct {
	clientService  portssvc.ClientSvcFacade
	quoteService   portssvc.QuoteReaderSvc
	invoiceService portssvc.InvoiceReaderSvc
}

// registerClientRoutes registers routes related to clients and their documents.
func registerClientRoutes(rg *gin.RouterGroup, clientService portssvc.ClientSvcFacade, quoteService portssvc.QuoteReaderSvc, invoiceService portssvc.InvoiceReaderSvc) {
	h := &clientHandler{clientService: clientService, quoteService: quoteService, invoiceService: invoiceService}

	clients := rg.Group("/clients")
	{
		clients.POST("", h.createClient)
		clients.GET("", h.listClients)
		clients.GET("/:id", h.getClient)
		clients.PATCH("/:id", h.updateClient)
		clients.DELETE("/:id", h.deleteClient)
		clients.GET("/:id/quotes", h.listClientQuotes)
		clients.GET("/:id/invoices", h.listClientInvoices)
	}
}

// createClient godoc
// @Summary Create a new client
// @Tags clients
// @Accept  json
// @Produce  json
// @Param   client body dto.CreateClientRequest true "Client details"
// @Success 201 {object} dto.ClientResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 500 {object} map[string]string "Failed to create client"
// @Security BearerAuth
// @Router /clients [post]
func (h *clientHandler) createClient(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateClientRequest
	if !bindJSON(c, &req, "CreateClient") {
		return
	}
	userID, ok := actorID(c)
	if !ok {
		return
	}

	client, err := h.clientService.CreateClient(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create client")
		return
	}
	logger.Info("Client created successfully", slog.String("client_id", client.ClientID))
	c.JSON(http.StatusCreated, dto.ToClientResponse(client))
}

// getClient godoc
// @Summary Get a client by ID
// @Tags clients
// @Produce  json
// @Param   id path string true "Client ID"
// @Success 200 {object} dto.ClientResponse
// @Failure 404 {object} map[string]string "Client not found"
// @Security BearerAuth
// @Router /clients/{id} [get]
func (h *clientHandler) getClient(c *gin.Context) {
	client, err := h.clientService.GetClientByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve client")
		return
	}
	c.JSON(http.StatusOK, dto.ToClientResponse(client))
}

// listClients godoc
// @Summary List clients
// @Tags clients
// @Produce  json
// @Success 200 {array} dto.ClientResponse
// @Security BearerAuth
// @Router /clients [get]
func (h *clientHandler) listClients(c *gin.Context) {
	clients, err := h.clientService.ListClients(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list clients")
		return
	}
	c.JSON(http.StatusOK, dto.ToListClientResponse(clients))
}

// updateClient godoc
// @Summary Update a client
// @Tags clients
// @Accept  json
// @Produce  json
// @Param   id path string true "Client ID"
// @Param   client body dto.UpdateClientRequest true "Fields to update"
// @Success 200 {object} dto.ClientResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Client not found"
// @Security BearerAuth
// @Router /clients/{id} [patch]
func (h *clientHandler) updateClient(c *gin.Context) {
	var req dto.UpdateClientRequest
	if !bindJSON(c, &req, "UpdateClient") {
		return
	}
	userID, ok := actorID(c)
	if !ok {
		return
	}

	client, err := h.clientService.UpdateClient(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to update client")
		return
	}
	c.JSON(http.StatusOK, dto.ToClientResponse(client))
}

// deleteClient godoc
// @Summary Delete a client
// @Tags clients
// @Param   id path string true "Client ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Client not found"
// @Failure 409 {object} map[string]string "Client still has quotes or invoices"
// @Security BearerAuth
// @Router /clients/{id} [delete]
func (h *clientHandler) deleteClient(c *gin.Context) {
	if err := h.clientService.DeleteClient(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete client")
		return
	}
	c.Status(http.StatusNoContent)
}

// listClientQuotes godoc
// @Summary List the quotes of a client
// @Tags clients
// @Produce  json
// @Param   id path string true "Client ID"
// @Success 200 {array} dto.QuoteResponse
// @Security BearerAuth
// @Router /clients/{id}/quotes [get]
func (h *clientHandler) listClientQuotes(c *gin.Context) {
	quotes, err := h.quoteService.ListQuotesByClient(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to list quotes")
		return
	}
	c.JSON(http.StatusOK, dto.ToListQuoteResponse(quotes))
}

// listClientInvoices godoc
// @Summary List the invoices of a client
// @Tags clients
// @Produce  json
// @Param   id path string true "Client ID"
// @Success 200 {array} dto.InvoiceResponse
// @Security BearerAuth
// @Router /clients/{id}/invoices [get]
func (h *clientHandler) listClientInvoices(c *gin.Context) {
	invoices, err := h.invoiceService.ListInvoicesByClient(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to list invoices")
		return
	}
	c.JSON(http.StatusOK, dto.ToListInvoiceResponse(invoices))
}
