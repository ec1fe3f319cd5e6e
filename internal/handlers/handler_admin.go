package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/erp_lite/internal/core/domain"
	portssvc "github.com/SscSPs/erp_lite/internal/core/ports/services"
	"github.com/SscSPs/erp_lite/internal/core/services"
	"github.com/SscSPs/erp_lite/internal/dto"
	"github.com/SscSPs/erp_lite/internal/middleware"
	"github.com/gin-gonic/gin"
)

type adminHandler struct {
	sweeper portssvc.SweeperSvc
}

func registerAdminRoutes(rg *gin.RouterGroup, sweeper portssvc.SweeperSvc) {
	h := &adminHandler{sweeper: sweeper}

	admin := rg.Group("/admin")
	admin.POST("/sweep", h.runSweep)
}

// runSweep godoc
// @Summary Run the status sweeper now
// @Description Expires SENT quotes past their validity date and flags unpaid invoices past their due date.
// @Description kind=quotes or kind=invoices restricts the pass to one document type.
// @Tags admin
// @Produce  json
// @Param   kind query string false "quotes or invoices"
// @Success 200 {array} dto.SweepResultResponse
// @Failure 400 {object} map[string]string "Unknown kind"
// @Failure 409 {object} map[string]string "A sweep is already running"
// @Failure 500 {object} map[string]string "Sweep failed"
// @Security BearerAuth
// @Router /admin/sweep [post]
func (h *adminHandler) runSweep(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ctx := c.Request.Context()

	var (
		results []domain.SweepResult
		err     error
	)
	switch c.Query("kind") {
	case "":
		results, err = h.sweeper.Run(ctx)
	case "quotes":
		var result domain.SweepResult
		result, err = h.sweeper.SweepExpiredQuotes(ctx)
		results = []domain.SweepResult{result}
	case "invoices":
		var result domain.SweepResult
		result, err = h.sweeper.SweepOverdueInvoices(ctx)
		results = []domain.SweepResult{result}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be quotes or invoices"})
		return
	}

	if errors.Is(err, services.ErrSweepInProgress) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		respondError(c, err, "Sweep failed")
		return
	}

	res := make([]dto.SweepResultResponse, len(results))
	for i, r := range results {
		res[i] = dto.ToSweepResultResponse(r)
	}
	logger.Info("Manual sweep completed", slog.Int("passes", len(res)))
	c.JSON(http.StatusOK, res)
}
