package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/storeledger/backend/internal/application/usecase/advisor"
	"github.com/storeledger/backend/internal/application/usecase/report"
	domainerror "github.com/storeledger/backend/internal/domain/error"
	"github.com/storeledger/backend/internal/integration/entrypoint/dto"
	"github.com/storeledger/backend/internal/integration/persistence"
)

const defaultAdvisorPeriod = "this-month"

// AdvisorController handles the CFO advisor endpoints.
type AdvisorController struct {
	answerQuestionUseCase *advisor.AnswerQuestionUseCase
	generateAlertsUseCase *advisor.GenerateAlertsUseCase
	comparePeriodsUseCase *report.ComparePeriodsUseCase
	store                 *persistence.BucketStore
	thresholds            advisor.AlertThresholds

	now func() time.Time
}

// NewAdvisorController creates a new advisor controller instance.
func NewAdvisorController(
	answerQuestionUseCase *advisor.AnswerQuestionUseCase,
	generateAlertsUseCase *advisor.GenerateAlertsUseCase,
	comparePeriodsUseCase *report.ComparePeriodsUseCase,
	store *persistence.BucketStore,
	thresholds advisor.AlertThresholds,
) *AdvisorController {
	return &AdvisorController{
		answerQuestionUseCase: answerQuestionUseCase,
		generateAlertsUseCase: generateAlertsUseCase,
		comparePeriodsUseCase: comparePeriodsUseCase,
		store:                 store,
		thresholds:            thresholds,
		now:                   func() time.Time { return time.Now().UTC() },
	}
}

// Ask handles POST /advisor/ask requests.
func (c *AdvisorController) Ask(ctx *gin.Context) {
	var request dto.AskRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	period := request.Period
	if period == "" {
		period = defaultAdvisorPeriod
	}

	comparison, ok := c.buildComparison(ctx, period)
	if !ok {
		return
	}

	output, err := c.answerQuestionUseCase.Execute(ctx.Request.Context(), advisor.AnswerQuestionInput{
		Question:    request.Question,
		PeriodLabel: period,
		Comparison:  comparison,
	})
	if err != nil {
		c.handleAdvisorError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToAskResponse(output, period))
}

// GetAlerts handles GET /advisor/alerts requests. The digest query flag also
// emails the triggered alerts when a notifier is configured.
func (c *AdvisorController) GetAlerts(ctx *gin.Context) {
	period := ctx.DefaultQuery("period", defaultAdvisorPeriod)
	sendDigest := ctx.Query("digest") == "true"

	comparison, ok := c.buildComparison(ctx, period)
	if !ok {
		return
	}

	output, err := c.generateAlertsUseCase.Execute(ctx.Request.Context(), advisor.GenerateAlertsInput{
		PeriodLabel: period,
		Comparison:  comparison,
		Thresholds:  c.thresholds,
		SendDigest:  sendDigest,
	})
	if err != nil {
		c.handleAdvisorError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToAlertsResponse(output.Alerts, period))
}

// buildComparison resolves the period and runs the comparison the advisor
// reasons over. Resolution and report failures are written to the response.
func (c *AdvisorController) buildComparison(ctx *gin.Context, period string) (*report.ComparePeriodsOutput, bool) {
	buckets, _, ok := c.store.Latest()
	if !ok {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error: "No data has been ingested yet",
			Code:  string(domainerror.ErrCodeNoDataIngested),
		})
		return nil, false
	}

	dateRange, err := report.ResolvePeriod(period, c.now())
	if err != nil {
		c.handleReportError(ctx, err)
		return nil, false
	}

	comparison, err := c.comparePeriodsUseCase.Execute(ctx.Request.Context(), report.ComparePeriodsInput{
		Buckets:             buckets,
		Current:             dateRange,
		Mode:                report.ModePreviousPeriod,
		AnnualizationFactor: annualizationFor(dateRange),
	})
	if err != nil {
		c.handleReportError(ctx, err)
		return nil, false
	}

	return comparison, true
}

func (c *AdvisorController) handleReportError(ctx *gin.Context, err error) {
	var reportErr *domainerror.ReportError
	if errors.As(err, &reportErr) {
		status := http.StatusBadRequest
		switch reportErr.Code {
		case domainerror.ErrCodeNoDataIngested:
			status = http.StatusNotFound
		case domainerror.ErrCodeReportInternalError:
			status = http.StatusInternalServerError
		}
		ctx.JSON(status, dto.ErrorResponse{
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

// handleAdvisorError maps advisor errors to HTTP responses.
func (c *AdvisorController) handleAdvisorError(ctx *gin.Context, err error) {
	var advisorErr *domainerror.AdvisorError
	if errors.As(err, &advisorErr) {
		ctx.JSON(c.statusCodeFor(advisorErr.Code), dto.ErrorResponse{
			Error: advisorErr.Message,
			Code:  string(advisorErr.Code),
		})
		return
	}

	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
		Code:  string(domainerror.ErrCodeAdvisorInternalError),
	})
}

// statusCodeFor maps advisor error codes to HTTP status codes.
func (c *AdvisorController) statusCodeFor(code domainerror.AdvisorErrorCode) int {
	switch code {
	case domainerror.ErrCodeEmptyQuestion:
		return http.StatusBadRequest
	case domainerror.ErrCodeAdviceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
