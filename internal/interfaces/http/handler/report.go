package handler

import (
	"strconv"

	reportapp "github.com/KirshnaLighting/Krishna-Lighting/internal/application/report"
	"github.com/gin-gonic/gin"
)

// ReportHandler handles admin dashboard reporting endpoints
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// Dashboard godoc
// @Summary      Dashboard stats
// @Description  Revenue and order counts for the trailing 30 days against the prior window, plus catalog and user totals. Admin only.
// @Tags         reports
// @Accept       json
// @Produce      json
// @Success      200 {object} dto.Response{data=reportapp.DashboardStats}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *gin.Context) {
	stats, err := h.reportService.Dashboard(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, stats)
}

// RecentOrders godoc
// @Summary      Recent orders
// @Description  The most recently placed orders with customer names. Admin only.
// @Tags         reports
// @Accept       json
// @Produce      json
// @Param        limit query int false "Row count" default(10) maximum(50)
// @Success      200 {object} dto.Response{data=[]reportapp.RecentOrder}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/reports/recent-orders [get]
func (h *ReportHandler) RecentOrders(c *gin.Context) {
	limit := parseLimit(c, 10, 50)

	orders, err := h.reportService.RecentOrders(c.Request.Context(), limit)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, orders)
}

// TopProducts godoc
// @Summary      Top products
// @Description  Products ranked by units sold across non-cancelled orders. Admin only.
// @Tags         reports
// @Accept       json
// @Produce      json
// @Param        limit query int false "Row count" default(10) maximum(50)
// @Success      200 {object} dto.Response{data=[]reportapp.TopProduct}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/reports/top-products [get]
func (h *ReportHandler) TopProducts(c *gin.Context) {
	limit := parseLimit(c, 10, 50)

	products, err := h.reportService.TopProducts(c.Request.Context(), limit)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, products)
}

func parseLimit(c *gin.Context, def, max int) int {
	raw := c.Query("limit")
	if raw == "" {
		return def
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
