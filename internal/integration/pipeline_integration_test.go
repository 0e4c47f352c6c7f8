package integration

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"superstore/internal/app"
	"superstore/internal/config"
	"superstore/internal/exporter"
	"superstore/internal/report"
	"superstore/internal/shared/testutil"
)

// writeDataset writes the sample CSV into a fresh directory and
// returns its path.
func writeDataset(t *testing.T) string {
	t.Helper()

	path, err := testutil.NewDatasetFixtures().WriteSampleCSV(t.TempDir())
	require.NoError(t, err)
	return path
}

// reportConfig builds a generator config pointed at the sample dataset
func reportConfig(t *testing.T, datasetPath string) config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.Dataset.Path = datasetPath
	cfg.Dataset.Encoding = "utf8"
	cfg.Report.TopCustomers = 3
	return *cfg
}

// startApplication constructs the full HTTP application over the
// sample dataset and serves its router from an httptest listener.
func startApplication(t *testing.T, datasetPath string) *httptest.Server {
	t.Helper()

	configPath := filepath.Join(t.TempDir(), "superstore.yml")
	content := fmt.Sprintf(`server:
  port: 18090
logging:
  level: error
  format: text
  output: stderr
dataset:
  path: %s
  encoding: utf8
observability:
  metrics_enabled: false
`, datasetPath)
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	application, err := app.NewApplication(configPath, nil)
	require.NoError(t, err)
	require.NoError(t, application.DatasetService.Load(context.Background()))

	server := httptest.NewServer(application.Router)
	t.Cleanup(server.Close)
	return server
}

// getJSON performs a GET against the running application and decodes
// the response body, returning the body and status code.
func getJSON(t *testing.T, server *httptest.Server, path string, params url.Values) (map[string]interface{}, int) {
	t.Helper()

	requestURL := server.URL + path
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	resp, err := http.Get(requestURL)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body, resp.StatusCode
}

// data unwraps the success envelope
func data(t *testing.T, body map[string]interface{}) map[string]interface{} {
	t.Helper()

	require.Equal(t, "success", body["status"])
	payload, ok := body["data"].(map[string]interface{})
	require.True(t, ok, "data should be an object")
	return payload
}

// dataList unwraps the success envelope for list payloads
func dataList(t *testing.T, body map[string]interface{}) []interface{} {
	t.Helper()

	require.Equal(t, "success", body["status"])
	payload, ok := body["data"].([]interface{})
	require.True(t, ok, "data should be a list")
	return payload
}

// readArtifactCSV parses a BOM-prefixed CSV artifact
func readArtifactCSV(t *testing.T, path string) [][]string {
	t.Helper()

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	text := strings.TrimPrefix(string(content), "\xEF\xBB\xBF")

	rows, err := csv.NewReader(strings.NewReader(text)).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestReportPipeline_CompleteFlow(t *testing.T) {
	datasetPath := writeDataset(t)
	cfg := reportConfig(t, datasetPath)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	outputDir := filepath.Join(t.TempDir(), "report")
	generator := report.NewGenerator(cfg, logger, nil)

	manifest, err := generator.Run(context.Background(), outputDir)
	require.NoError(t, err)
	require.NotNil(t, manifest)

	assert.Equal(t, "completed", manifest.Status)
	assert.False(t, manifest.GeneratedAt.IsZero())

	t.Run("stages run in order", func(t *testing.T) {
		var names []string
		for _, stage := range manifest.Stages {
			names = append(names, stage.Name)
			assert.Equal(t, "completed", stage.Status, "stage %s", stage.Name)
		}
		assert.Equal(t, []string{"prepare", "load", "aggregate", "regress", "charts", "export"}, names)
	})

	t.Run("summary totals", func(t *testing.T) {
		assert.InDelta(t, 3864.40, manifest.Summary.TotalSales, 0.01)
		assert.InDelta(t, 543.74, manifest.Summary.TotalProfit, 0.01)
		assert.Equal(t, 7, manifest.Summary.OrderCount)
		assert.Equal(t, 8, manifest.Summary.RowCount)
	})

	t.Run("regression fitted", func(t *testing.T) {
		require.NotNil(t, manifest.Regression)
		assert.Empty(t, manifest.RegressionError)
		assert.Equal(t, 6, manifest.Regression.TrainRows)
		assert.Equal(t, 2, manifest.Regression.TestRows)
		assert.Equal(t, int64(42), manifest.Regression.Seed)
	})

	t.Run("artifacts exist on disk", func(t *testing.T) {
		expected := []string{
			report.SalesByRegionChart,
			report.ProfitByCategoryChart,
			report.TopCustomersChart,
			report.DiscountProfitChart,
			report.MonthlySalesChart,
			report.SalesByStateMap,
			report.SalesProfitFitChart,
			exporter.CleanedDatasetFile,
			exporter.SalesByRegionFile,
			exporter.ProfitByCategoryFile,
			exporter.TopCustomersFile,
			exporter.MonthlySalesFile,
			exporter.SalesByStateFile,
			exporter.SummaryWorkbookFile,
		}

		produced := make(map[string]report.Artifact, len(manifest.Artifacts))
		for _, artifact := range manifest.Artifacts {
			produced[artifact.Name] = artifact
		}

		for _, name := range expected {
			artifact, ok := produced[name]
			require.True(t, ok, "artifact %s missing from manifest", name)
			assert.Positive(t, artifact.SizeBytes, "artifact %s", name)

			info, err := os.Stat(filepath.Join(outputDir, name))
			require.NoError(t, err, "artifact %s missing on disk", name)
			assert.Equal(t, artifact.SizeBytes, info.Size(), "artifact %s", name)
		}
	})

	t.Run("manifest file round-trips", func(t *testing.T) {
		raw, err := os.ReadFile(filepath.Join(outputDir, report.ManifestFile))
		require.NoError(t, err)

		var decoded report.Manifest
		require.NoError(t, json.Unmarshal(raw, &decoded))
		assert.Equal(t, manifest.Status, decoded.Status)
		assert.Len(t, decoded.Artifacts, len(manifest.Artifacts))
		assert.InDelta(t, manifest.Summary.TotalSales, decoded.Summary.TotalSales, 0.001)
	})

	t.Run("exported tables parse", func(t *testing.T) {
		rows := readArtifactCSV(t, filepath.Join(outputDir, exporter.SalesByRegionFile))
		require.NotEmpty(t, rows)
		assert.Equal(t, []string{"Region", "Sales"}, rows[0])
		assert.Len(t, rows[1:], 4, "one row per region")
	})

	t.Run("cleaned dataset round-trips", func(t *testing.T) {
		rows := readArtifactCSV(t, filepath.Join(outputDir, exporter.CleanedDatasetFile))
		require.Len(t, rows, 9, "header plus every cleaned row")
		assert.Len(t, rows[0], 19)
		assert.Equal(t, "Order ID", rows[0][0])
	})
}

func TestReportPipeline_RegressionSkippedOnThinData(t *testing.T) {
	dir := t.TempDir()
	datasetPath := filepath.Join(dir, "thin.csv")
	content := testutil.SampleHeader + "\n" + testutil.NewDatasetFixtures().SampleRows()[0] + "\n"
	require.NoError(t, os.WriteFile(datasetPath, []byte(content), 0644))

	cfg := reportConfig(t, datasetPath)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	outputDir := filepath.Join(t.TempDir(), "report")
	manifest, err := report.NewGenerator(cfg, logger, nil).Run(context.Background(), outputDir)
	require.NoError(t, err)

	// A dataset too small to fit still produces a full report, minus
	// the fit overlay.
	assert.Equal(t, "completed", manifest.Status)
	assert.Nil(t, manifest.Regression)
	assert.Contains(t, manifest.RegressionError, "insufficient data")

	_, statErr := os.Stat(filepath.Join(outputDir, report.SalesProfitFitChart))
	assert.True(t, os.IsNotExist(statErr), "fit chart should be skipped")

	_, statErr = os.Stat(filepath.Join(outputDir, report.SalesByRegionChart))
	assert.NoError(t, statErr, "remaining charts still render")
}

func TestAPIIntegration_FilterFlow(t *testing.T) {
	server := startApplication(t, writeDataset(t))

	t.Run("unfiltered summary", func(t *testing.T) {
		body, status := getJSON(t, server, "/api/analytics/summary", nil)
		require.Equal(t, http.StatusOK, status)

		summary := data(t, body)
		assert.InDelta(t, 3864.40, summary["total_sales"].(float64), 0.01)
		assert.InDelta(t, 543.74, summary["total_profit"].(float64), 0.01)
		assert.Equal(t, float64(7), summary["order_count"])
		assert.Equal(t, float64(8), summary["row_count"])
	})

	t.Run("region filter narrows totals", func(t *testing.T) {
		body, status := getJSON(t, server, "/api/analytics/summary", url.Values{"region": {"West"}})
		require.Equal(t, http.StatusOK, status)

		summary := data(t, body)
		assert.InDelta(t, 1069.40, summary["total_sales"].(float64), 0.01)
		assert.Equal(t, float64(3), summary["row_count"])
	})

	t.Run("date range filter", func(t *testing.T) {
		params := url.Values{"from": {"2015-01-01"}, "to": {"2015-12-31"}}
		body, status := getJSON(t, server, "/api/analytics/summary", params)
		require.Equal(t, http.StatusOK, status)

		summary := data(t, body)
		assert.Equal(t, float64(2), summary["row_count"])
		assert.InDelta(t, 1400.00, summary["total_sales"].(float64), 0.01)
	})

	t.Run("top customers honors limit", func(t *testing.T) {
		body, status := getJSON(t, server, "/api/analytics/top-customers", url.Values{"limit": {"2"}})
		require.Equal(t, http.StatusOK, status)

		customers := dataList(t, body)
		require.Len(t, customers, 2)

		first := customers[0].(map[string]interface{})
		second := customers[1].(map[string]interface{})
		assert.Equal(t, "Brenda Chu", first["customer"])
		assert.InDelta(t, 1350.00, first["sales"].(float64), 0.01)
		assert.Equal(t, "Aaron Bergman", second["customer"])
	})

	t.Run("regression over full dataset", func(t *testing.T) {
		body, status := getJSON(t, server, "/api/analytics/regression", nil)
		require.Equal(t, http.StatusOK, status)

		fit := data(t, body)
		assert.Equal(t, float64(6), fit["train_rows"])
		assert.Equal(t, float64(2), fit["test_rows"])
		assert.Equal(t, float64(42), fit["seed"])
	})

	t.Run("regression rejects thin subsets", func(t *testing.T) {
		body, status := getJSON(t, server, "/api/analytics/regression", url.Values{"region": {"South"}})
		require.Equal(t, http.StatusUnprocessableEntity, status)
		assert.Equal(t, "INSUFFICIENT_DATA", body["error_code"])
	})

	t.Run("invalid date is rejected", func(t *testing.T) {
		body, status := getJSON(t, server, "/api/analytics/summary", url.Values{"from": {"01/05/2014"}})
		require.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "VALIDATION_FAILED", body["error_code"])
	})

	t.Run("filter values describe the table", func(t *testing.T) {
		body, status := getJSON(t, server, "/api/dataset/filters", nil)
		require.Equal(t, http.StatusOK, status)

		values := data(t, body)
		regions, ok := values["regions"].([]interface{})
		require.True(t, ok)
		assert.ElementsMatch(t, []interface{}{"Central", "East", "South", "West"}, regions)

		min, ok := values["order_date_min"].(string)
		require.True(t, ok)
		assert.Contains(t, min, "2014-01-05")
	})
}

func TestServeAndReportAgree(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping end-to-end cross-check in short mode")
	}

	datasetPath := writeDataset(t)

	// Run the static report first.
	cfg := reportConfig(t, datasetPath)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	outputDir := filepath.Join(t.TempDir(), "report")
	manifest, err := report.NewGenerator(cfg, logger, nil).Run(context.Background(), outputDir)
	require.NoError(t, err)
	require.NotNil(t, manifest.Regression)

	// Then query the live API over the same file. Both consumers read
	// the one cleaned table, so every number must match exactly.
	server := startApplication(t, datasetPath)

	body, status := getJSON(t, server, "/api/analytics/summary", nil)
	require.Equal(t, http.StatusOK, status)
	summary := data(t, body)
	assert.InDelta(t, manifest.Summary.TotalSales, summary["total_sales"].(float64), 0.001)
	assert.InDelta(t, manifest.Summary.TotalProfit, summary["total_profit"].(float64), 0.001)
	assert.Equal(t, float64(manifest.Summary.OrderCount), summary["order_count"])

	body, status = getJSON(t, server, "/api/analytics/regression", nil)
	require.Equal(t, http.StatusOK, status)
	fit := data(t, body)
	assert.InDelta(t, manifest.Regression.Slope, fit["slope"].(float64), 1e-9)
	assert.InDelta(t, manifest.Regression.Intercept, fit["intercept"].(float64), 1e-9)
	assert.InDelta(t, manifest.Regression.R2, fit["r2"].(float64), 1e-9)

	body, status = getJSON(t, server, "/api/dataset/info", nil)
	require.Equal(t, http.StatusOK, status)
	info := data(t, body)
	assert.Equal(t, manifest.Dataset.Fingerprint, info["fingerprint"])
	assert.Equal(t, float64(manifest.Dataset.Rows), info["rows"])
}
