package handlers

import (
	"net/http"
	"strconv"
	"time"

	portssvc "github.com/SscSPs/erp_lite/internal/core/ports/services"
	"github.com/SscSPs/erp_lite/internal/dto"
	"github.com/gin-gonic/gin"
)

// dashboardHandler handles HTTP requests related to reporting.
type dashboardHandler struct {
	reportingService portssvc.ReportingService
	location         *time.Location
}

// registerDashboardRoutes registers the reporting routes. location decides the default year.
func registerDashboardRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService, location *time.Location) {
	if location == nil {
		location = time.UTC
	}
	h := &dashboardHandler{reportingService: reportingService, location: location}

	dashboard := rg.Group("/dashboard")
	{
		dashboard.GET("/stats", h.getStats)
		dashboard.GET("/monthly-revenue", h.getMonthlyRevenue)
		dashboard.GET("/top-clients", h.getTopClients)
	}
}

// getStats godoc
// @Summary Dashboard statistics
// @Description Paid revenue, amount still due and counters
// @Tags dashboard
// @Produce  json
// @Success 200 {object} dto.DashboardStatsResponse
// @Failure 500 {object} map[string]string "Failed to compute dashboard statistics"
// @Security BearerAuth
// @Router /dashboard/stats [get]
func (h *dashboardHandler) getStats(c *gin.Context) {
	stats, err := h.reportingService.GetDashboardStats(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to compute dashboard statistics")
		return
	}
	c.JSON(http.StatusOK, dto.ToDashboardStatsResponse(stats))
}

// getMonthlyRevenue godoc
// @Summary Paid revenue per month
// @Tags dashboard
// @Produce  json
// @Param   year query int false "Calendar year, defaults to the current one"
// @Success 200 {object} dto.MonthlyRevenueResponse
// @Failure 400 {object} map[string]string "Invalid year"
// @Security BearerAuth
// @Router /dashboard/monthly-revenue [get]
func (h *dashboardHandler) getMonthlyRevenue(c *gin.Context) {
	year := time.Now().In(h.location).Year()
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year: " + raw})
			return
		}
		year = parsed
	}

	rows, err := h.reportingService.GetMonthlyRevenue(c.Request.Context(), year)
	if err != nil {
		respondError(c, err, "Failed to compute monthly revenue")
		return
	}
	c.JSON(http.StatusOK, dto.ToMonthlyRevenueResponse(year, rows))
}

// getTopClients godoc
// @Summary Clients ranked by paid revenue
// @Tags dashboard
// @Produce  json
// @Param   limit query int false "Number of clients, default 10, max 100"
// @Success 200 {array} dto.TopClientResponse
// @Failure 400 {object} map[string]string "Invalid limit"
// @Security BearerAuth
// @Router /dashboard/top-clients [get]
func (h *dashboardHandler) getTopClients(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit: " + raw})
			return
		}
		limit = parsed
	}

	rows, err := h.reportingService.GetTopClients(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err, "Failed to compute top clients")
		return
	}
	c.JSON(http.StatusOK, dto.ToTopClientResponses(rows))
}
