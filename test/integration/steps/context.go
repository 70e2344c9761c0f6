// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"

	"github.com/storeledger/backend/internal/application/usecase/advisor"
	"github.com/storeledger/backend/internal/application/usecase/ingest"
	"github.com/storeledger/backend/internal/application/usecase/report"
	"github.com/storeledger/backend/internal/infra/server/router"
	"github.com/storeledger/backend/internal/integration/adapters"
	"github.com/storeledger/backend/internal/integration/cache"
	"github.com/storeledger/backend/internal/integration/entrypoint/controller"
	"github.com/storeledger/backend/internal/integration/persistence"
	"github.com/storeledger/backend/test/integration/mock"
)

// TestContext holds the test state for each scenario.
type TestContext struct {
	// HTTP
	server       *httptest.Server
	engine       *gin.Engine
	response     *http.Response
	responseBody []byte

	// Request building
	requestHeaders map[string]string

	// Pending source files for a multipart upload, keyed by form field.
	uploadFiles map[string]uploadFile

	store *persistence.BucketStore
}

type uploadFile struct {
	name    string
	content string
}

// contextKey is used to store TestContext in context.Context.
type contextKey struct{}

// GetTestContext retrieves the TestContext from context.
func GetTestContext(ctx context.Context) *TestContext {
	if tc, ok := ctx.Value(contextKey{}).(*TestContext); ok {
		return tc
	}
	return nil
}

// SetTestContext stores the TestContext in context.
func SetTestContext(ctx context.Context, tc *TestContext) context.Context {
	return context.WithValue(ctx, contextKey{}, tc)
}

// InitializeTestSuite sets up resources before any scenarios run.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		// Set Gin to test mode
		gin.SetMode(gin.TestMode)
	})
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		if err := mock.ClearRedis(mock.NewRedis()); err != nil {
			return ctx, fmt.Errorf("failed to reset redis: %w", err)
		}

		tc := &TestContext{
			requestHeaders: make(map[string]string),
			uploadFiles:    make(map[string]uploadFile),
			store:          persistence.NewBucketStore(),
		}

		bucketCache := cache.NewRedisBucketCache(mock.NewRedis())
		ingestUseCase := ingest.NewIngestSourcesUseCase(nil, bucketCache, time.Hour, 10)

		getSummaryUseCase := report.NewGetSummaryUseCase()
		comparePeriodsUseCase := report.NewComparePeriodsUseCase()
		getLowStockUseCase := report.NewGetLowStockUseCase()
		exportCSVUseCase := report.NewExportCSVUseCase()

		// No API key configured, so the advisor runs on canned answers.
		answerQuestionUseCase := advisor.NewAnswerQuestionUseCase(adapters.NewGeminiService("", ""))
		generateAlertsUseCase := advisor.NewGenerateAlertsUseCase(nil)

		healthController := controller.NewHealthController(
			func() bool { return mock.NewRedis().Ping(context.Background()).Err() == nil },
			func() bool {
				_, _, ok := tc.store.Latest()
				return ok
			},
		)
		ingestController := controller.NewIngestController(ingestUseCase, tc.store, 10<<20)
		dashboardController := controller.NewDashboardController(
			getSummaryUseCase,
			comparePeriodsUseCase,
			getLowStockUseCase,
			exportCSVUseCase,
			tc.store,
		)
		advisorController := controller.NewAdvisorController(
			answerQuestionUseCase,
			generateAlertsUseCase,
			comparePeriodsUseCase,
			tc.store,
			advisor.DefaultAlertThresholds(),
		)

		r := router.NewRouter(healthController, ingestController, dashboardController, advisorController, nil)
		tc.engine = r.Setup("test")
		tc.server = httptest.NewServer(tc.engine)

		return SetTestContext(ctx, tc), nil
	})

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		tc := GetTestContext(ctx)
		if tc != nil && tc.server != nil {
			tc.server.Close()
		}
		return ctx, nil
	})

	registerAPISteps(ctx)
	registerResponseSteps(ctx)
}

// registerAPISteps registers HTTP request steps.
func registerAPISteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^the API server is running$`, theAPIServerIsRunning)
	ctx.Step(`^I send a "([^"]*)" request to "([^"]*)"$`, iSendARequestTo)
	ctx.Step(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, iSendARequestToWithBody)
	ctx.Step(`^I have a "([^"]*)" file named "([^"]*)" with content:$`, iHaveASourceFile)
	ctx.Step(`^I upload the files$`, iUploadTheFiles)
}

// registerResponseSteps registers response validation steps.
func registerResponseSteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^the response status should be (\d+)$`, theResponseStatusShouldBe)
	ctx.Step(`^the response should be JSON$`, theResponseShouldBeJSON)
	ctx.Step(`^the response should contain "([^"]*)"$`, theResponseShouldContain)
	ctx.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, theResponseFieldShouldBe)
	ctx.Step(`^the response field "([^"]*)" should exist$`, theResponseFieldShouldExist)
}

// Step implementations

func theAPIServerIsRunning(ctx context.Context) error {
	tc := GetTestContext(ctx)
	if tc == nil || tc.server == nil {
		return fmt.Errorf("test server is not running")
	}
	return nil
}

func iSendARequestTo(ctx context.Context, method, endpoint string) (context.Context, error) {
	return doRequest(ctx, method, endpoint, nil, "")
}

func iSendARequestToWithBody(ctx context.Context, method, endpoint string, body *godog.DocString) (context.Context, error) {
	return doRequest(ctx, method, endpoint, bytes.NewBufferString(body.Content), "application/json")
}

func iHaveASourceFile(ctx context.Context, kind, name string, content *godog.DocString) (context.Context, error) {
	tc := GetTestContext(ctx)
	if tc == nil {
		return ctx, fmt.Errorf("test context not found")
	}
	tc.uploadFiles[kind] = uploadFile{name: name, content: content.Content}
	return SetTestContext(ctx, tc), nil
}

func iUploadTheFiles(ctx context.Context) (context.Context, error) {
	tc := GetTestContext(ctx)
	if tc == nil {
		return ctx, fmt.Errorf("test context not found")
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for field, file := range tc.uploadFiles {
		part, err := writer.CreateFormFile(field, file.name)
		if err != nil {
			return ctx, fmt.Errorf("failed to build multipart form: %w", err)
		}
		if _, err := io.WriteString(part, file.content); err != nil {
			return ctx, fmt.Errorf("failed to write file content: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return ctx, fmt.Errorf("failed to close multipart form: %w", err)
	}
	tc.uploadFiles = make(map[string]uploadFile)

	return doRequest(ctx, http.MethodPost, "/api/v1/ingest/files", &buf, writer.FormDataContentType())
}

func doRequest(ctx context.Context, method, endpoint string, body io.Reader, contentType string) (context.Context, error) {
	tc := GetTestContext(ctx)
	if tc == nil {
		return ctx, fmt.Errorf("test context not found")
	}

	url := tc.server.URL + endpoint
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return ctx, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for key, value := range tc.requestHeaders {
		req.Header.Set(key, value)
	}

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return ctx, fmt.Errorf("failed to send request: %w", err)
	}

	tc.response = resp
	tc.responseBody, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return ctx, fmt.Errorf("failed to read response body: %w", err)
	}

	return SetTestContext(ctx, tc), nil
}

func theResponseStatusShouldBe(ctx context.Context, expectedStatus int) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}
	if tc.response == nil {
		return fmt.Errorf("no response received")
	}
	if tc.response.StatusCode != expectedStatus {
		return fmt.Errorf("expected status %d, got %d. Body: %s", expectedStatus, tc.response.StatusCode, string(tc.responseBody))
	}
	return nil
}

func theResponseShouldBeJSON(ctx context.Context) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}
	var js json.RawMessage
	if err := json.Unmarshal(tc.responseBody, &js); err != nil {
		return fmt.Errorf("response is not valid JSON: %w", err)
	}
	return nil
}

func theResponseShouldContain(ctx context.Context, expected string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}
	if !strings.Contains(string(tc.responseBody), expected) {
		return fmt.Errorf("response does not contain '%s'. Body: %s", expected, string(tc.responseBody))
	}
	return nil
}

func theResponseFieldShouldBe(ctx context.Context, field, expected string) error {
	value, err := responseField(ctx, field)
	if err != nil {
		return err
	}

	actual := fmt.Sprintf("%v", value)
	if actual != expected {
		return fmt.Errorf("field '%s' expected '%s', got '%s'", field, expected, actual)
	}
	return nil
}

func theResponseFieldShouldExist(ctx context.Context, field string) error {
	_, err := responseField(ctx, field)
	return err
}

// responseField walks a dot-separated path into the response JSON.
func responseField(ctx context.Context, path string) (interface{}, error) {
	tc := GetTestContext(ctx)
	if tc == nil {
		return nil, fmt.Errorf("test context not found")
	}

	var data interface{}
	if err := json.Unmarshal(tc.responseBody, &data); err != nil {
		return nil, fmt.Errorf("failed to parse response JSON: %w", err)
	}

	current := data
	for _, part := range strings.Split(path, ".") {
		obj, ok := current.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("field '%s' not found in response. Body: %s", path, string(tc.responseBody))
		}
		current, ok = obj[part]
		if !ok {
			return nil, fmt.Errorf("field '%s' not found in response. Body: %s", path, string(tc.responseBody))
		}
	}
	return current, nil
}
