package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/storeledger/backend/internal/application/adapter"
	"github.com/storeledger/backend/internal/domain/entity"
	domainerror "github.com/storeledger/backend/internal/domain/error"
)

type memoryCache struct {
	store map[string][]byte
	gets  int
	sets  int
	fail  bool
}

func newMemoryCache() *memoryCache {
	return &memoryCache{store: make(map[string][]byte)}
}

func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.gets++
	if c.fail {
		return nil, errors.New("cache down")
	}
	return c.store[key], nil
}

func (c *memoryCache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	c.sets++
	if c.fail {
		return errors.New("cache down")
	}
	c.store[key] = payload
	return nil
}

type stubFileSource struct {
	files map[string]adapter.SourceFile
}

func (s *stubFileSource) Fetch(ctx context.Context, identifier string) (adapter.SourceFile, error) {
	f, ok := s.files[identifier]
	if !ok {
		return adapter.SourceFile{}, errors.New("not found")
	}
	return f, nil
}

func batchFixture() IngestSourcesInput {
	return IngestSourcesInput{Sources: []SourceInput{
		{
			Kind: entity.SourceSales,
			Name: "sales.csv",
			Content: []byte("Date,Department,UPC,Item,Baskets,Items,Reserved,Sales\n" +
				"03-01-2025,Grocery,1,Rice,2,5,,500.00\n" +
				"03-02-2025,Grocery,1,Rice,1,2,,300.00\n"),
		},
		{
			Kind:    entity.SourceExpenses,
			Name:    "gastos.csv",
			Content: []byte("Fecha;Concepto;Valor\n1 de marzo de 2025;Arriendo;1.500.000\n"),
		},
	}}
}

func TestIngestSourcesExecute(t *testing.T) {
	cache := newMemoryCache()
	uc := NewIngestSourcesUseCase(nil, cache, time.Hour, 10)

	output, err := uc.Execute(context.Background(), batchFixture())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if output.BatchID == "" {
		t.Error("expected a batch id")
	}
	if output.CacheHit {
		t.Error("first run must not be a cache hit")
	}
	if len(output.Sources) != 2 {
		t.Fatalf("expected 2 source reports, got %d", len(output.Sources))
	}
	if output.Sources[0].RecordCount != 2 || output.Sources[1].RecordCount != 1 {
		t.Errorf("unexpected source reports: %+v", output.Sources)
	}

	agg := output.Buckets.QueryRange(
		time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC),
	)
	if !agg.TotalSales.Equal(dec("800.00")) {
		t.Errorf("expected sales 800.00, got %s", agg.TotalSales)
	}
	if !agg.TotalExpenses.Equal(dec("1500000")) {
		t.Errorf("expected expenses 1500000, got %s", agg.TotalExpenses)
	}
	if cache.sets != 1 {
		t.Errorf("expected one cache write, got %d", cache.sets)
	}
}

func TestIngestSourcesCacheHit(t *testing.T) {
	cache := newMemoryCache()
	uc := NewIngestSourcesUseCase(nil, cache, time.Hour, 10)

	first, err := uc.Execute(context.Background(), batchFixture())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := uc.Execute(context.Background(), batchFixture())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !second.CacheHit {
		t.Fatal("identical content must hit the cache")
	}
	if cache.sets != 1 {
		t.Errorf("expected a single cache write, got %d", cache.sets)
	}

	if len(second.Sources) != len(first.Sources) {
		t.Fatalf("expected %d source reports, got %d", len(first.Sources), len(second.Sources))
	}
	for i := range first.Sources {
		if second.Sources[i] != first.Sources[i] {
			t.Errorf("source report %d diverged on the hit: %+v vs %+v", i, second.Sources[i], first.Sources[i])
		}
	}

	a := first.Buckets.QueryRange(
		time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.March, 2, 0, 0, 0, 0, time.UTC),
	)
	b := second.Buckets.QueryRange(
		time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.March, 2, 0, 0, 0, 0, time.UTC),
	)
	if !a.TotalSales.Equal(b.TotalSales) || a.TransactionCount != b.TransactionCount {
		t.Error("cached buckets must answer queries identically")
	}
}

func TestIngestSourcesCacheHitKeepsCountsForRenamedFile(t *testing.T) {
	cache := newMemoryCache()
	uc := NewIngestSourcesUseCase(nil, cache, time.Hour, 10)

	if _, err := uc.Execute(context.Background(), batchFixture()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	renamed := batchFixture()
	renamed.Sources[0].Name = "ventas-marzo.csv"
	output, err := uc.Execute(context.Background(), renamed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !output.CacheHit {
		t.Fatal("renaming a file must not change the fingerprint")
	}
	if output.Sources[0].Name != "ventas-marzo.csv" {
		t.Errorf("report must carry the submitted name, got %q", output.Sources[0].Name)
	}
	if output.Sources[0].RecordCount != 2 || output.Sources[1].RecordCount != 1 {
		t.Errorf("cached hit must restore parse counts: %+v", output.Sources)
	}
}

func TestIngestSourcesFingerprintIgnoresOrder(t *testing.T) {
	uc := NewIngestSourcesUseCase(nil, nil, time.Hour, 10)

	in := batchFixture()
	reversed := IngestSourcesInput{Sources: []SourceInput{in.Sources[1], in.Sources[0]}}

	if uc.fingerprint(in.Sources) != uc.fingerprint(reversed.Sources) {
		t.Error("fingerprint must not depend on source order")
	}

	changed := batchFixture()
	changed.Sources[0].Content = append(changed.Sources[0].Content, []byte("03-04-2025,Grocery,1,Rice,1,1,,9.00\n")...)
	if uc.fingerprint(in.Sources) == uc.fingerprint(changed.Sources) {
		t.Error("fingerprint must change with the content")
	}
}

func TestIngestSourcesCacheFailureDegrades(t *testing.T) {
	cache := newMemoryCache()
	cache.fail = true
	uc := NewIngestSourcesUseCase(nil, cache, time.Hour, 10)

	output, err := uc.Execute(context.Background(), batchFixture())
	if err != nil {
		t.Fatalf("cache failure must not fail the batch: %v", err)
	}
	if output.CacheHit {
		t.Error("a failing cache cannot produce a hit")
	}
}

func TestIngestSourcesEmptyBatch(t *testing.T) {
	uc := NewIngestSourcesUseCase(nil, nil, time.Hour, 10)

	_, err := uc.Execute(context.Background(), IngestSourcesInput{})
	if !errors.Is(err, domainerror.ErrEmptyBatch) {
		t.Errorf("expected ErrEmptyBatch, got %v", err)
	}
}

func TestIngestSourcesSchemaMismatchNamesFile(t *testing.T) {
	uc := NewIngestSourcesUseCase(nil, nil, time.Hour, 10)

	input := IngestSourcesInput{Sources: []SourceInput{{
		Kind:    entity.SourceSales,
		Name:    "gastos.csv",
		Content: []byte("Fecha;Concepto;Valor\n1 de marzo de 2025;Arriendo;1.500.000\n"),
	}}}

	_, err := uc.Execute(context.Background(), input)
	if !errors.Is(err, domainerror.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestIngestSourcesExecuteFromStore(t *testing.T) {
	source := &stubFileSource{files: map[string]adapter.SourceFile{
		"sales.csv": {
			Name: "sales.csv",
			Content: []byte("Date,Department,UPC,Item,Baskets,Items,Reserved,Sales\n" +
				"03-01-2025,Grocery,1,Rice,2,5,,500.00\n"),
		},
	}}
	uc := NewIngestSourcesUseCase(source, nil, time.Hour, 10)

	output, err := uc.ExecuteFromStore(context.Background(), map[entity.SourceKind]string{
		entity.SourceSales: "sales.csv",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(output.Sources) != 1 || output.Sources[0].RecordCount != 1 {
		t.Errorf("unexpected source reports: %+v", output.Sources)
	}

	_, err = uc.ExecuteFromStore(context.Background(), map[entity.SourceKind]string{
		entity.SourceSales: "missing.csv",
	})
	if !errors.Is(err, domainerror.ErrSourceUnavailable) {
		t.Errorf("expected ErrSourceUnavailable, got %v", err)
	}
}
