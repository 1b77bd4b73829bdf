package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/salesreport/internal/domain/dto"
	"github.com/guttosm/salesreport/internal/domain/models"
	"github.com/guttosm/salesreport/internal/middleware"
	"github.com/guttosm/salesreport/internal/service"
)

// Handler provides HTTP handlers for the report endpoints.
//
// Responsibilities:
//   - Validate path and query parameters (ids, YYYY-MM-DD dates)
//   - Delegate to the aggregation engine or the local report service
//   - Translate absent values into 404 and malformed input into 400
//   - Return structured JSON responses
type Handler struct {
	reports service.ReportService
	local   service.LocalReportService
	info    dto.ServiceInfo
}

// NewHandler constructs a new Handler instance.
//
// Parameters:
//   - reports: engine that joins the upstream sales and line-item services.
//   - local: service over the locally stored report rows.
//   - info: static description served by GET /info.
func NewHandler(reports service.ReportService, local service.LocalReportService, info dto.ServiceInfo) *Handler {
	return &Handler{reports: reports, local: local, info: info}
}

// GetLocalReport godoc
// @Summary      Local report rows by date range
// @Description  Returns rows from the local store with start <= sale_date <= end
// @Tags         local
// @Produce      json
// @Param        start  query     string  true  "Start date (YYYY-MM-DD)" example(2024-01-01)
// @Param        end    query     string  true  "End date (YYYY-MM-DD)"   example(2024-01-31)
// @Success      200    {array}   models.BasicReportRow
// @Failure      400    {object}  dto.ErrorResponse
// @Failure      500    {object}  dto.ErrorResponse
// @Router       /api/v1/reports/local [get]
func (h *Handler) GetLocalReport(c *gin.Context) {
	start, end, ok := dateQuery(c)
	if !ok {
		return
	}
	h.localRows(c, start, end)
}

// PostLocalReport godoc
// @Summary      Local report rows by date range (body)
// @Tags         local
// @Accept       json
// @Produce      json
// @Param        range  body      dto.DateRangeRequest  true  "Inclusive date range"
// @Success      200    {array}   models.BasicReportRow
// @Failure      400    {object}  dto.ErrorResponse
// @Failure      500    {object}  dto.ErrorResponse
// @Router       /api/v1/reports/local [post]
func (h *Handler) PostLocalReport(c *gin.Context) {
	var req dto.DateRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	h.localRows(c, req.Start, req.End)
}

func (h *Handler) localRows(c *gin.Context, start, end string) {
	rows, err := h.local.RowsByDateRange(c.Request.Context(), start, end)
	switch {
	case errors.Is(err, models.ErrMalformedDate):
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid date range", err)
		return
	case err != nil:
		middleware.AbortWithError(c, http.StatusInternalServerError, "failed to fetch local report", err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// GetAllLocalRows godoc
// @Summary      All local report rows
// @Tags         local
// @Produce      json
// @Success      200  {array}   models.BasicReportRow
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/v1/reports/local/all [get]
func (h *Handler) GetAllLocalRows(c *gin.Context) {
	rows, err := h.local.AllRows(c.Request.Context())
	if err != nil {
		middleware.AbortWithError(c, http.StatusInternalServerError, "failed to fetch local rows", err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// GetAllSales godoc
// @Summary      All upstream sales
// @Description  Empty list when the sales service is unavailable
// @Tags         sales
// @Produce      json
// @Success      200  {array}  models.Sale
// @Router       /api/v1/reports/sales [get]
func (h *Handler) GetAllSales(c *gin.Context) {
	c.JSON(http.StatusOK, h.reports.AllSales(c.Request.Context()))
}

// GetSalesByDate godoc
// @Summary      Upstream sales by date range
// @Tags         sales
// @Produce      json
// @Param        start  query     string  true  "Start date (YYYY-MM-DD)" example(2024-01-01)
// @Param        end    query     string  true  "End date (YYYY-MM-DD)"   example(2024-01-31)
// @Success      200    {array}   models.Sale
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/v1/reports/sales/by-date [get]
func (h *Handler) GetSalesByDate(c *gin.Context) {
	start, end, ok := dateQuery(c)
	if !ok {
		return
	}
	sales, err := h.reports.SalesByDateRange(c.Request.Context(), start, end)
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid date range", err)
		return
	}
	c.JSON(http.StatusOK, sales)
}

// GetSaleReport godoc
// @Summary      Sale joined with its line items
// @Tags         sales
// @Produce      json
// @Param        id   path      int  true  "Sale id" example(42)
// @Success      200  {object}  models.IntegratedReport
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/reports/sales/{id} [get]
func (h *Handler) GetSaleReport(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	report, found := h.reports.ReportWithLineItems(c.Request.Context(), id)
	if !found {
		middleware.AbortWithError(c, http.StatusNotFound, "sale not found", nil)
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetCustomerSales godoc
// @Summary      Upstream sales of one customer
// @Tags         sales
// @Produce      json
// @Param        id   path      int  true  "Customer id" example(7)
// @Success      200  {array}   models.Sale
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/v1/reports/customers/{id}/sales [get]
func (h *Handler) GetCustomerSales(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.reports.SalesByCustomer(c.Request.Context(), id))
}

// GetAllLineItems godoc
// @Summary      All upstream line items
// @Tags         items
// @Produce      json
// @Success      200  {array}  models.LineItem
// @Router       /api/v1/reports/items [get]
func (h *Handler) GetAllLineItems(c *gin.Context) {
	c.JSON(http.StatusOK, h.reports.AllLineItems(c.Request.Context()))
}

// GetLineItem godoc
// @Summary      One upstream line item
// @Tags         items
// @Produce      json
// @Param        id   path      int  true  "Line item id" example(1001)
// @Success      200  {object}  models.LineItem
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/reports/items/{id} [get]
func (h *Handler) GetLineItem(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	item, found := h.reports.LineItemByID(c.Request.Context(), id)
	if !found {
		middleware.AbortWithError(c, http.StatusNotFound, "line item not found", nil)
		return
	}
	c.JSON(http.StatusOK, item)
}

// GetIntegratedReports godoc
// @Summary      Integrated reports by date range
// @Description  One report per upstream sale in [start, end]; sales whose line items could not be fetched report zero items
// @Tags         reports
// @Produce      json
// @Param        start  query     string  true  "Start date (YYYY-MM-DD)" example(2024-01-01)
// @Param        end    query     string  true  "End date (YYYY-MM-DD)"   example(2024-01-31)
// @Success      200    {array}   models.IntegratedReport
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/v1/reports/integrated [get]
func (h *Handler) GetIntegratedReports(c *gin.Context) {
	start, end, ok := dateQuery(c)
	if !ok {
		return
	}
	reports, err := h.reports.IntegratedReportsByDateRange(c.Request.Context(), start, end)
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid date range", err)
		return
	}
	c.JSON(http.StatusOK, reports)
}

// GetStatistics godoc
// @Summary      Combined upstream statistics
// @Description  A null payload marks a statistics source that could not be reached
// @Tags         reports
// @Produce      json
// @Success      200  {object}  models.CombinedStatistics
// @Router       /api/v1/reports/stats [get]
func (h *Handler) GetStatistics(c *gin.Context) {
	c.JSON(http.StatusOK, h.reports.CombinedStatistics(c.Request.Context()))
}

// GetInfo godoc
// @Summary      Service description
// @Tags         reports
// @Produce      json
// @Success      200  {object}  dto.ServiceInfo
// @Router       /api/v1/reports/info [get]
func (h *Handler) GetInfo(c *gin.Context) {
	c.JSON(http.StatusOK, h.info)
}

// dateQuery reads the required start and end query parameters, aborting with 400 when either is missing.
func dateQuery(c *gin.Context) (start, end string, ok bool) {
	start = strings.TrimSpace(c.Query("start"))
	end = strings.TrimSpace(c.Query("end"))
	if start == "" || end == "" {
		middleware.AbortWithError(c, http.StatusBadRequest, "start and end are required (YYYY-MM-DD)", nil)
		return "", "", false
	}
	return start, end, true
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		middleware.AbortWithError(c, http.StatusBadRequest, "id must be a positive integer", err)
		return 0, false
	}
	return id, true
}
