package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/storeledger/backend/internal/application/adapter"
	"github.com/storeledger/backend/internal/application/usecase/report"
	"github.com/storeledger/backend/internal/domain/entity"
	domainerror "github.com/storeledger/backend/internal/domain/error"
)

// bucketCacheVersion is folded into every fingerprint so cached payloads
// from older schema or payload layouts never deserialize into the current one.
const bucketCacheVersion = "v2"

// SourceInput is one file of an ingestion batch, already read into memory.
type SourceInput struct {
	Kind    entity.SourceKind
	Name    string
	Content []byte
}

// IngestSourcesInput represents the input for a full ingestion batch.
type IngestSourcesInput struct {
	Sources []SourceInput
}

// SourceReport summarizes the outcome of one file of the batch.
type SourceReport struct {
	Kind        entity.SourceKind `json:"kind"`
	Name        string            `json:"name"`
	RecordCount int               `json:"record_count"`
	SkippedRows int               `json:"skipped_rows"`
}

// IngestSourcesOutput represents the result of an ingestion batch.
type IngestSourcesOutput struct {
	BatchID  string            `json:"batch_id"`
	Buckets  *report.BucketSet `json:"-"`
	Sources  []SourceReport    `json:"sources"`
	CacheHit bool              `json:"cache_hit"`
}

// IngestSourcesUseCase parses a batch of source files, buckets the records
// by day, and memoizes the result by content fingerprint.
type IngestSourcesUseCase struct {
	fileSource        adapter.FileSource
	cache             adapter.BucketCache
	cacheTTL          time.Duration
	lowStockThreshold int64
}

// NewIngestSourcesUseCase creates a new IngestSourcesUseCase instance.
func NewIngestSourcesUseCase(
	fileSource adapter.FileSource,
	cache adapter.BucketCache,
	cacheTTL time.Duration,
	lowStockThreshold int64,
) *IngestSourcesUseCase {
	return &IngestSourcesUseCase{
		fileSource:        fileSource,
		cache:             cache,
		cacheTTL:          cacheTTL,
		lowStockThreshold: lowStockThreshold,
	}
}

// Execute runs the batch. Identical content yields an identical result, so a
// cache hit skips parsing entirely; cache failures degrade to a parse, never
// to an error.
func (uc *IngestSourcesUseCase) Execute(ctx context.Context, input IngestSourcesInput) (*IngestSourcesOutput, error) {
	if len(input.Sources) == 0 {
		return nil, domainerror.NewIngestError(
			domainerror.ErrCodeEmptyBatch,
			"at least one source file is required",
			domainerror.ErrEmptyBatch,
		)
	}

	fingerprint := uc.fingerprint(input.Sources)
	if cached := uc.cachedBatch(ctx, fingerprint); cached != nil {
		if reports, ok := matchReports(input.Sources, cached.Reports); ok {
			slog.Info("Ingestion served from cache", "fingerprint", fingerprint)
			return &IngestSourcesOutput{
				BatchID:  uuid.New().String(),
				Buckets:  cached.Buckets,
				Sources:  reports,
				CacheHit: true,
			}, nil
		}
		slog.Warn("Cached batch does not cover the submitted sources, reparsing", "fingerprint", fingerprint)
	}

	var records report.RecordSet
	reports := make([]SourceReport, 0, len(input.Sources))
	for _, src := range input.Sources {
		result, err := ParseText(src.Kind, string(src.Content))
		if err != nil {
			return nil, fmt.Errorf("source %q: %w", src.Name, err)
		}

		count := len(result.Sales) + len(result.Inventory) + len(result.Expenses) +
			len(result.Costs) + len(result.Payroll)
		reports = append(reports, SourceReport{
			Kind:        src.Kind,
			Name:        src.Name,
			RecordCount: count,
			SkippedRows: len(result.Skipped),
		})

		records.Sales = append(records.Sales, result.Sales...)
		records.Inventory = append(records.Inventory, result.Inventory...)
		records.Expenses = append(records.Expenses, result.Expenses...)
		records.Costs = append(records.Costs, result.Costs...)
		records.Payroll = append(records.Payroll, result.Payroll...)
		records.Skipped = append(records.Skipped, result.Skipped...)
	}

	buckets := report.Ingest(records, uc.lowStockThreshold)
	uc.storeBatch(ctx, fingerprint, buckets, input.Sources, reports)

	batchID := uuid.New().String()
	slog.Info("Ingestion batch processed",
		"batchId", batchID,
		"sources", len(input.Sources),
		"dayBuckets", len(buckets.Buckets),
		"skippedRows", len(buckets.Skipped),
	)

	return &IngestSourcesOutput{
		BatchID: batchID,
		Buckets: buckets,
		Sources: reports,
	}, nil
}

// ExecuteRecords buckets records that were already parsed elsewhere (a
// workbook reader, a replayed batch). No fingerprint cache applies; the
// parsing cost is already paid.
func (uc *IngestSourcesUseCase) ExecuteRecords(ctx context.Context, records report.RecordSet) (*IngestSourcesOutput, error) {
	total := len(records.Sales) + len(records.Inventory) + len(records.Expenses) +
		len(records.Costs) + len(records.Payroll)
	if total == 0 && len(records.Skipped) == 0 {
		return nil, domainerror.NewIngestError(
			domainerror.ErrCodeEmptyBatch,
			"the batch carries no records",
			domainerror.ErrEmptyBatch,
		)
	}

	buckets := report.Ingest(records, uc.lowStockThreshold)
	batchID := uuid.New().String()
	slog.Info("Pre-parsed batch processed",
		"batchId", batchID,
		"records", total,
		"dayBuckets", len(buckets.Buckets),
		"skippedRows", len(buckets.Skipped),
	)

	return &IngestSourcesOutput{BatchID: batchID, Buckets: buckets}, nil
}

// ExecuteFromStore fetches the named identifiers through the configured file
// source and ingests them. The identifier resolution (directory entry,
// object key) is owned by the adapter.
func (uc *IngestSourcesUseCase) ExecuteFromStore(ctx context.Context, identifiers map[entity.SourceKind]string) (*IngestSourcesOutput, error) {
	if uc.fileSource == nil {
		return nil, domainerror.NewIngestError(
			domainerror.ErrCodeSourceUnavailable,
			"no file source is configured",
			domainerror.ErrSourceUnavailable,
		)
	}

	kinds := make([]entity.SourceKind, 0, len(identifiers))
	for kind := range identifiers {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	sources := make([]SourceInput, 0, len(kinds))
	for _, kind := range kinds {
		identifier := identifiers[kind]
		file, err := uc.fileSource.Fetch(ctx, identifier)
		if err != nil {
			return nil, domainerror.NewIngestError(
				domainerror.ErrCodeSourceUnavailable,
				fmt.Sprintf("failed to fetch source %q", identifier),
				fmt.Errorf("%w: %w", domainerror.ErrSourceUnavailable, err),
			)
		}
		sources = append(sources, SourceInput{Kind: kind, Name: file.Name, Content: file.Content})
	}

	return uc.Execute(ctx, IngestSourcesInput{Sources: sources})
}

// RecordSet converts a parse result into the aggregation input.
func (r *ParseResult) RecordSet() report.RecordSet {
	return report.RecordSet{
		Sales:     r.Sales,
		Inventory: r.Inventory,
		Expenses:  r.Expenses,
		Costs:     r.Costs,
		Payroll:   r.Payroll,
		Skipped:   r.Skipped,
	}
}

// fingerprint hashes the batch content. Source order does not change the
// result; the batch is hashed in kind order.
func (uc *IngestSourcesUseCase) fingerprint(sources []SourceInput) string {
	sorted := make([]SourceInput, len(sources))
	copy(sorted, sources)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Kind != sorted[j].Kind {
			return sorted[i].Kind < sorted[j].Kind
		}
		return sorted[i].Name < sorted[j].Name
	})

	h := sha256.New()
	h.Write([]byte(bucketCacheVersion))
	for _, src := range sorted {
		h.Write([]byte(src.Kind))
		h.Write([]byte{0})
		h.Write(src.Content)
		h.Write([]byte{0})
	}
	return "buckets:" + hex.EncodeToString(h.Sum(nil))
}

// cachedBatch is the cache payload: the bucket set plus the per-source
// reports from the original parse, keyed by content digest so a renamed file
// with identical content still matches.
type cachedBatch struct {
	Buckets *report.BucketSet `json:"buckets"`
	Reports []cachedReport    `json:"reports"`
}

type cachedReport struct {
	Kind        entity.SourceKind `json:"kind"`
	Digest      string            `json:"digest"`
	RecordCount int               `json:"record_count"`
	SkippedRows int               `json:"skipped_rows"`
}

func (uc *IngestSourcesUseCase) cachedBatch(ctx context.Context, key string) *cachedBatch {
	if uc.cache == nil {
		return nil
	}
	payload, err := uc.cache.Get(ctx, key)
	if err != nil {
		slog.Warn("Bucket cache read failed", "error", err)
		return nil
	}
	if payload == nil {
		return nil
	}
	var batch cachedBatch
	if err := json.Unmarshal(payload, &batch); err != nil {
		slog.Warn("Bucket cache payload is not decodable, reparsing", "error", err)
		return nil
	}
	if batch.Buckets == nil {
		return nil
	}
	return &batch
}

func (uc *IngestSourcesUseCase) storeBatch(ctx context.Context, key string, buckets *report.BucketSet, sources []SourceInput, reports []SourceReport) {
	if uc.cache == nil {
		return
	}
	cached := make([]cachedReport, len(reports))
	for i, r := range reports {
		cached[i] = cachedReport{
			Kind:        r.Kind,
			Digest:      contentDigest(sources[i].Content),
			RecordCount: r.RecordCount,
			SkippedRows: r.SkippedRows,
		}
	}
	payload, err := json.Marshal(cachedBatch{Buckets: buckets, Reports: cached})
	if err != nil {
		slog.Warn("Bucket cache encode failed", "error", err)
		return
	}
	if err := uc.cache.Set(ctx, key, payload, uc.cacheTTL); err != nil {
		slog.Warn("Bucket cache write failed", "error", err)
	}
}

// matchReports rebuilds per-source reports for a cache hit: counts come from
// the cached parse, names from the submitted sources. A source with no cached
// counterpart disqualifies the hit.
func matchReports(sources []SourceInput, cached []cachedReport) ([]SourceReport, bool) {
	byKey := make(map[string]cachedReport, len(cached))
	for _, r := range cached {
		byKey[string(r.Kind)+"\x00"+r.Digest] = r
	}

	reports := make([]SourceReport, 0, len(sources))
	for _, src := range sources {
		r, ok := byKey[string(src.Kind)+"\x00"+contentDigest(src.Content)]
		if !ok {
			return nil, false
		}
		reports = append(reports, SourceReport{
			Kind:        src.Kind,
			Name:        src.Name,
			RecordCount: r.RecordCount,
			SkippedRows: r.SkippedRows,
		})
	}
	return reports, true
}

func contentDigest(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
