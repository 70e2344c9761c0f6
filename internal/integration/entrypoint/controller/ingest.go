package controller

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/storeledger/backend/internal/application/usecase/ingest"
	"github.com/storeledger/backend/internal/domain/entity"
	domainerror "github.com/storeledger/backend/internal/domain/error"
	"github.com/storeledger/backend/internal/integration/entrypoint/dto"
	"github.com/storeledger/backend/internal/integration/persistence"
	"github.com/storeledger/backend/internal/integration/spreadsheet"
)

// sourceFields are the accepted multipart field names, one per source kind.
var sourceFields = []entity.SourceKind{
	entity.SourceSales,
	entity.SourceInventory,
	entity.SourceExpenses,
	entity.SourceCosts,
	entity.SourcePayroll,
}

// IngestController handles source file ingestion endpoints.
type IngestController struct {
	ingestUseCase *ingest.IngestSourcesUseCase
	store         *persistence.BucketStore
	maxUploadSize int64
}

// NewIngestController creates a new ingest controller instance.
func NewIngestController(
	ingestUseCase *ingest.IngestSourcesUseCase,
	store *persistence.BucketStore,
	maxUploadSize int64,
) *IngestController {
	return &IngestController{
		ingestUseCase: ingestUseCase,
		store:         store,
		maxUploadSize: maxUploadSize,
	}
}

// UploadFiles handles POST /ingest/files requests.
// Each multipart field is named after its source kind (sales, inventory,
// expenses, costs, payroll); any subset may be submitted.
func (c *IngestController) UploadFiles(ctx *gin.Context) {
	form, err := ctx.MultipartForm()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid multipart form: " + err.Error(),
			Code:  string(domainerror.ErrCodeEmptyBatch),
		})
		return
	}

	var sources []ingest.SourceInput
	for _, kind := range sourceFields {
		headers := form.File[string(kind)]
		for _, header := range headers {
			content, err := c.readUpload(header)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
					Error: "Failed to read file " + header.Filename + ": " + err.Error(),
				})
				return
			}
			sources = append(sources, ingest.SourceInput{
				Kind:    kind,
				Name:    header.Filename,
				Content: content,
			})
		}
	}

	output, err := c.ingestUseCase.Execute(ctx.Request.Context(), ingest.IngestSourcesInput{Sources: sources})
	if err != nil {
		c.handleIngestError(ctx, err)
		return
	}

	c.store.Put(output.BatchID, output.Buckets)
	ctx.JSON(http.StatusOK, dto.ToIngestResponse(output))
}

// UploadWorkbook handles POST /ingest/workbook requests.
// The single "workbook" field carries an xlsx document whose recognized
// sheets are ingested together.
func (c *IngestController) UploadWorkbook(ctx *gin.Context) {
	header, err := ctx.FormFile("workbook")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "The workbook file field is required",
			Code:  string(domainerror.ErrCodeEmptyBatch),
		})
		return
	}

	content, err := c.readUpload(header)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Failed to read workbook: " + err.Error(),
		})
		return
	}

	result, err := spreadsheet.ReadWorkbook(header.Filename, content)
	if err != nil {
		c.handleIngestError(ctx, err)
		return
	}

	output, err := c.ingestUseCase.ExecuteRecords(ctx.Request.Context(), result.RecordSet())
	if err != nil {
		c.handleIngestError(ctx, err)
		return
	}

	c.store.Put(output.BatchID, output.Buckets)
	ctx.JSON(http.StatusOK, dto.ToIngestResponse(output))
}

// ReloadRequest maps source kinds to file names under the data directory.
type ReloadRequest struct {
	Files map[string]string `json:"files" binding:"required"`
}

// Reload handles POST /ingest/reload requests, re-reading the named files
// through the configured file source.
func (c *IngestController) Reload(ctx *gin.Context) {
	var req ReloadRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}

	identifiers := make(map[entity.SourceKind]string, len(req.Files))
	for kind, name := range req.Files {
		identifiers[entity.SourceKind(strings.ToLower(kind))] = name
	}

	output, err := c.ingestUseCase.ExecuteFromStore(ctx.Request.Context(), identifiers)
	if err != nil {
		c.handleIngestError(ctx, err)
		return
	}

	c.store.Put(output.BatchID, output.Buckets)
	ctx.JSON(http.StatusOK, dto.ToIngestResponse(output))
}

func (c *IngestController) readUpload(header *multipart.FileHeader) ([]byte, error) {
	if c.maxUploadSize > 0 && header.Size > c.maxUploadSize {
		return nil, errors.New("file exceeds the upload size limit")
	}
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

// handleIngestError maps ingest errors to HTTP responses.
func (c *IngestController) handleIngestError(ctx *gin.Context, err error) {
	var ingestErr *domainerror.IngestError
	if errors.As(err, &ingestErr) {
		ctx.JSON(c.statusCodeFor(ingestErr.Code), dto.ErrorResponse{
			Error: ingestErr.Message,
			Code:  string(ingestErr.Code),
		})
		return
	}

	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
		Code:  string(domainerror.ErrCodeIngestInternalError),
	})
}

// statusCodeFor maps ingest error codes to HTTP status codes.
func (c *IngestController) statusCodeFor(code domainerror.IngestErrorCode) int {
	switch code {
	case domainerror.ErrCodeEmptyBatch, domainerror.ErrCodeUnknownSource:
		return http.StatusBadRequest
	case domainerror.ErrCodeSchemaMismatch, domainerror.ErrCodeWorkbookUnreadable:
		return http.StatusUnprocessableEntity
	case domainerror.ErrCodeSourceUnavailable:
		return http.StatusServiceUnavailable
	case domainerror.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
