package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/storeledger/backend/internal/application/usecase/report"
	domainerror "github.com/storeledger/backend/internal/domain/error"
	"github.com/storeledger/backend/internal/integration/entrypoint/dto"
	"github.com/storeledger/backend/internal/integration/persistence"
)

var daysPerYear = decimal.NewFromInt(365)

// DashboardController handles dashboard query endpoints.
type DashboardController struct {
	getSummaryUseCase     *report.GetSummaryUseCase
	comparePeriodsUseCase *report.ComparePeriodsUseCase
	getLowStockUseCase    *report.GetLowStockUseCase
	exportCSVUseCase      *report.ExportCSVUseCase
	store                 *persistence.BucketStore

	// now is the clock symbolic periods resolve against; injectable for tests.
	now func() time.Time
}

// NewDashboardController creates a new dashboard controller instance.
func NewDashboardController(
	getSummaryUseCase *report.GetSummaryUseCase,
	comparePeriodsUseCase *report.ComparePeriodsUseCase,
	getLowStockUseCase *report.GetLowStockUseCase,
	exportCSVUseCase *report.ExportCSVUseCase,
	store *persistence.BucketStore,
) *DashboardController {
	return &DashboardController{
		getSummaryUseCase:     getSummaryUseCase,
		comparePeriodsUseCase: comparePeriodsUseCase,
		getLowStockUseCase:    getLowStockUseCase,
		exportCSVUseCase:      exportCSVUseCase,
		store:                 store,
		now:                   func() time.Time { return time.Now().UTC() },
	}
}

// GetSummary handles GET /dashboard/summary requests.
// The range comes either from a symbolic period name or from explicit
// start_date/end_date query parameters.
func (c *DashboardController) GetSummary(ctx *gin.Context) {
	buckets, ok := c.requireBuckets(ctx)
	if !ok {
		return
	}

	dateRange, ok := c.resolveRange(ctx)
	if !ok {
		return
	}

	output, err := c.getSummaryUseCase.Execute(ctx.Request.Context(), report.GetSummaryInput{
		Buckets:             buckets,
		Range:               dateRange,
		AnnualizationFactor: annualizationFor(dateRange),
	})
	if err != nil {
		c.handleReportError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToSummaryResponse(output))
}

// GetComparison handles GET /dashboard/comparison requests.
func (c *DashboardController) GetComparison(ctx *gin.Context) {
	buckets, ok := c.requireBuckets(ctx)
	if !ok {
		return
	}

	dateRange, ok := c.resolveRange(ctx)
	if !ok {
		return
	}

	mode := report.ComparisonMode(ctx.DefaultQuery("mode", string(report.ModePreviousPeriod)))

	output, err := c.comparePeriodsUseCase.Execute(ctx.Request.Context(), report.ComparePeriodsInput{
		Buckets:             buckets,
		Current:             dateRange,
		Mode:                mode,
		AnnualizationFactor: annualizationFor(dateRange),
	})
	if err != nil {
		c.handleReportError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToComparisonResponse(output))
}

// GetLowStock handles GET /dashboard/low-stock requests.
func (c *DashboardController) GetLowStock(ctx *gin.Context) {
	buckets, ok := c.requireBuckets(ctx)
	if !ok {
		return
	}

	limit := 0
	if raw := ctx.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "limit must be a non-negative integer",
			})
			return
		}
		limit = parsed
	}

	items, err := c.getLowStockUseCase.Execute(ctx.Request.Context(), report.GetLowStockInput{
		Buckets: buckets,
		Limit:   limit,
	})
	if err != nil {
		c.handleReportError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToLowStockResponse(items))
}

// Export handles GET /dashboard/export requests, streaming the daily CSV.
func (c *DashboardController) Export(ctx *gin.Context) {
	buckets, ok := c.requireBuckets(ctx)
	if !ok {
		return
	}

	dateRange, ok := c.resolveRange(ctx)
	if !ok {
		return
	}

	output, err := c.exportCSVUseCase.Execute(ctx.Request.Context(), report.ExportCSVInput{
		Buckets: buckets,
		Range:   dateRange,
	})
	if err != nil {
		c.handleReportError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="`+output.Filename+`"`)
	ctx.Data(http.StatusOK, "text/csv", output.Content)
}

func (c *DashboardController) requireBuckets(ctx *gin.Context) (*report.BucketSet, bool) {
	buckets, _, ok := c.store.Latest()
	if !ok {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error: "No data has been ingested yet",
			Code:  string(domainerror.ErrCodeNoDataIngested),
		})
		return nil, false
	}
	return buckets, true
}

// resolveRange reads the period selection from the query. A symbolic period
// wins over explicit dates; explicit dates require both ends.
func (c *DashboardController) resolveRange(ctx *gin.Context) (report.DateRange, bool) {
	if period := ctx.Query("period"); period != "" {
		dateRange, err := report.ResolvePeriod(period, c.now())
		if err != nil {
			c.handleReportError(ctx, err)
			return report.DateRange{}, false
		}
		return dateRange, true
	}

	startStr := ctx.Query("start_date")
	endStr := ctx.Query("end_date")
	if startStr == "" {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "start_date or period is required",
			Code:  string(domainerror.ErrCodeMissingStartDate),
		})
		return report.DateRange{}, false
	}
	if endStr == "" {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "end_date is required",
			Code:  string(domainerror.ErrCodeMissingEndDate),
		})
		return report.DateRange{}, false
	}

	start, err := time.Parse("2006-01-02", startStr)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid start_date format, expected YYYY-MM-DD",
			Code:  string(domainerror.ErrCodeInvalidDateFormat),
		})
		return report.DateRange{}, false
	}
	end, err := time.Parse("2006-01-02", endStr)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid end_date format, expected YYYY-MM-DD",
			Code:  string(domainerror.ErrCodeInvalidDateFormat),
		})
		return report.DateRange{}, false
	}

	return report.DateRange{Start: start, End: end}, true
}

// handleReportError maps report errors to HTTP responses.
func (c *DashboardController) handleReportError(ctx *gin.Context, err error) {
	var reportErr *domainerror.ReportError
	if errors.As(err, &reportErr) {
		ctx.JSON(c.statusCodeFor(reportErr.Code), dto.ErrorResponse{
			Error: reportErr.Message,
			Code:  string(reportErr.Code),
		})
		return
	}

	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
		Code:  string(domainerror.ErrCodeReportInternalError),
	})
}

// statusCodeFor maps report error codes to HTTP status codes.
func (c *DashboardController) statusCodeFor(code domainerror.ReportErrorCode) int {
	switch code {
	case domainerror.ErrCodeMissingStartDate,
		domainerror.ErrCodeMissingEndDate,
		domainerror.ErrCodeInvalidDateRange,
		domainerror.ErrCodeInvalidDateFormat,
		domainerror.ErrCodeUnknownPeriod,
		domainerror.ErrCodeUnknownComparisonMode:
		return http.StatusBadRequest
	case domainerror.ErrCodeNoDataIngested:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// annualizationFor scales a range's sales to a yearly figure for the
// inventory turnover ratio.
func annualizationFor(r report.DateRange) decimal.Decimal {
	days := report.RangeDays(r.Start, r.End)
	if days == 0 {
		return decimal.Zero
	}
	return daysPerYear.Div(decimal.NewFromInt(int64(days)))
}
