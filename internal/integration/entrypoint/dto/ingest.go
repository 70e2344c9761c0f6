package dto

import (
	"github.com/storeledger/backend/internal/application/usecase/ingest"
	"github.com/storeledger/backend/internal/domain/entity"
)

// IngestResponse represents the response for an ingestion batch.
type IngestResponse struct {
	Data IngestData `json:"data"`
}

// IngestData represents the data section of an ingestion response.
type IngestData struct {
	BatchID     string                 `json:"batch_id"`
	CacheHit    bool                   `json:"cache_hit"`
	DayBuckets  int                    `json:"day_buckets"`
	Sources     []SourceReportResponse `json:"sources"`
	SkippedRows []SkippedRowResponse   `json:"skipped_rows"`
}

// SourceReportResponse summarizes one ingested file.
type SourceReportResponse struct {
	Kind        string `json:"kind"`
	Name        string `json:"name"`
	RecordCount int    `json:"record_count"`
	SkippedRows int    `json:"skipped_rows"`
}

// SkippedRowResponse reports one rejected source row.
type SkippedRowResponse struct {
	Source string `json:"source"`
	Index  int    `json:"index"`
	Raw    string `json:"raw"`
	Reason string `json:"reason"`
}

// ToIngestResponse converts an IngestSourcesOutput to the response DTO.
func ToIngestResponse(output *ingest.IngestSourcesOutput) IngestResponse {
	sources := make([]SourceReportResponse, len(output.Sources))
	for i, src := range output.Sources {
		sources[i] = SourceReportResponse{
			Kind:        string(src.Kind),
			Name:        src.Name,
			RecordCount: src.RecordCount,
			SkippedRows: src.SkippedRows,
		}
	}

	return IngestResponse{
		Data: IngestData{
			BatchID:     output.BatchID,
			CacheHit:    output.CacheHit,
			DayBuckets:  len(output.Buckets.Buckets),
			Sources:     sources,
			SkippedRows: toSkippedRows(output.Buckets.Skipped),
		},
	}
}

func toSkippedRows(skipped []entity.SkippedRow) []SkippedRowResponse {
	rows := make([]SkippedRowResponse, len(skipped))
	for i, s := range skipped {
		rows[i] = SkippedRowResponse{
			Source: string(s.Source),
			Index:  s.Index,
			Raw:    s.Raw,
			Reason: s.Reason,
		}
	}
	return rows
}
