package handler_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ensdash/ensdash-backend/internal/config"
	"github.com/ensdash/ensdash-backend/internal/dataset"
	"github.com/ensdash/ensdash-backend/internal/handler"
	"github.com/ensdash/ensdash-backend/internal/router"
	"github.com/ensdash/ensdash-backend/internal/service"
	"github.com/ensdash/ensdash-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const apiFixture = `[
	{
		"bSecTerm": "2025FA",
		"secInstrumentation_sectionname": "ENMX-210-01",
		"secInstrumentation_titlelongcrs": ["Jazz Ensemble"],
		"secInstrumentation_facnamepreffml": ["Deng, Alice"],
		"secInstrumentation_activestucount": 8,
		"secInstrumentation_seatscap": 10,
		"secInstrumentation_seatsavail": 2,
		"ratingOverall": 4.5,
		"style": "Jazz",
		"bSinCsmStartTime": ["1:30:00 PM"],
		"bSinCsmEndTime": ["2:50:00 PM"],
		"rhythmenrolled": ["1", "0", "0", "0", "0"],
		"rhythmneeded": ["BASS"]
	},
	{
		"bSecTerm": "2025FA",
		"secInstrumentation_sectionname": "ENMX-220-01",
		"secInstrumentation_titlelongcrs": ["Rock Workshop"],
		"secInstrumentation_facnamepreffml": ["Farrell, Bob"],
		"secInstrumentation_activestucount": 2,
		"secInstrumentation_seatscap": 10,
		"secInstrumentation_seatsavail": 8,
		"style": "Rock"
	}
]`

// envelope mirrors the wire shape of every JSON response.
type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
	Metadata struct {
		RequestID string `json:"request_id"`
		Timestamp string `json:"timestamp"`
	} `json:"metadata"`
}

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	validator.Setup()

	dir := t.TempDir()
	dataPath := filepath.Join(dir, "ensembles.json")
	require.NoError(t, os.WriteFile(dataPath, []byte(apiFixture), 0644))
	contractsPath := filepath.Join(dir, "contracts.csv")
	require.NoError(t, os.WriteFile(contractsPath, []byte("faculty,contract\n\"Deng, Alice\",FT\n"), 0644))

	cfg := &config.Config{
		GinMode:        gin.TestMode,
		DataFile:       dataPath,
		ContractsFile:  contractsPath,
		UploadDir:      filepath.Join(dir, "uploads"),
		MaxUploadBytes: 1 << 20,
		ExportPrefix:   "ensemble_dashboard",
	}

	log := zerolog.Nop()
	store := dataset.NewStore(cfg.DataFile, log)
	require.NoError(t, store.Open())
	roster, err := dataset.LoadContracts(cfg.ContractsFile, log)
	require.NoError(t, err)

	ensembles := service.NewEnsembleService(store, roster)
	analytics := service.NewAnalyticsService()
	classifier := service.NewClassifierService()
	priority := service.NewPriorityService(roster)
	exporter := service.NewExportService(cfg.ExportPrefix)
	media := service.NewMediaService(cfg)

	return router.SetupRouter(&router.Handlers{
		Dashboard: handler.NewDashboardHandler(store, ensembles, analytics),
		Ensemble:  handler.NewEnsembleHandler(ensembles, analytics),
		Alert:     handler.NewAlertHandler(ensembles, classifier),
		Priority:  handler.NewPriorityHandler(ensembles, priority),
		Export:    handler.NewExportHandler(ensembles, classifier, priority, exporter, log),
		Media:     handler.NewMediaHandler(media),
		System:    handler.NewSystemHandler(store, log),
	}, cfg)
}

func doGet(t *testing.T, engine *gin.Engine, path string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func TestHealth(t *testing.T) {
	engine := newTestEngine(t)

	rec, env := doGet(t, engine, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, env.Error)
	assert.NotEmpty(t, env.Metadata.RequestID)
}

func TestGetMeta(t *testing.T) {
	engine := newTestEngine(t)

	rec, env := doGet(t, engine, "/api/v1/meta")
	require.Equal(t, http.StatusOK, rec.Code)

	var data struct {
		Terms       []string `json:"terms"`
		Styles      []string `json:"styles"`
		Ratings     []string `json:"ratings"`
		Instruments []string `json:"instruments"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, []string{"2025FA"}, data.Terms)
	assert.Equal(t, []string{"Jazz", "Rock"}, data.Styles)
	assert.Equal(t, []string{"4.5"}, data.Ratings)
	assert.Equal(t, []string{"GUIT", "PNO", "BASS", "DRUMS", "VOICE"}, data.Instruments)
}

func TestListEnsembles(t *testing.T) {
	engine := newTestEngine(t)

	rec, env := doGet(t, engine, "/api/v1/ensembles?term=2025FA")
	require.Equal(t, http.StatusOK, rec.Code)

	var data struct {
		Ensembles []struct {
			SectionName string `json:"section_name"`
		} `json:"ensembles"`
		Metrics struct {
			TotalEnsembles   int `json:"total_ensembles"`
			EnrolledStudents int `json:"enrolled_students"`
		} `json:"metrics"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Len(t, data.Ensembles, 2)
	assert.Equal(t, 2, data.Metrics.TotalEnsembles)
	assert.Equal(t, 10, data.Metrics.EnrolledStudents)
}

func TestListEnsemblesRequiresTerm(t *testing.T) {
	engine := newTestEngine(t)

	rec, env := doGet(t, engine, "/api/v1/ensembles")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Contains(t, env.Error.Fields, "term")
}

func TestListEnsemblesRejectsBadSortKey(t *testing.T) {
	engine := newTestEngine(t)

	rec, env := doGet(t, engine, "/api/v1/ensembles?term=2025FA&sort=sideways")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestGetDashboard(t *testing.T) {
	engine := newTestEngine(t)

	rec, env := doGet(t, engine, "/api/v1/dashboard?term=2025FA")
	require.Equal(t, http.StatusOK, rec.Code)

	var data struct {
		Metrics struct {
			TotalEnsembles int `json:"total_ensembles"`
		} `json:"metrics"`
		InstrumentSummary []struct {
			Instrument string `json:"instrument"`
		} `json:"instrument_summary"`
		RateDistribution []struct {
			Bucket string `json:"bucket"`
			Count  int    `json:"count"`
		} `json:"rate_distribution"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, 2, data.Metrics.TotalEnsembles)
	assert.Len(t, data.InstrumentSummary, 5)
	assert.Len(t, data.RateDistribution, 6)
}

func TestGetAlerts(t *testing.T) {
	engine := newTestEngine(t)

	rec, env := doGet(t, engine, "/api/v1/alerts?term=2025FA")
	require.Equal(t, http.StatusOK, rec.Code)

	var data struct {
		LowEnrollment []struct {
			Severity string `json:"severity"`
		} `json:"low_enrollment"`
		Summary struct {
			Total       int `json:"total"`
			TwoStudents int `json:"two_students"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.LowEnrollment, 1)
	assert.Equal(t, "WARNING", data.LowEnrollment[0].Severity)
	assert.Equal(t, 1, data.Summary.Total)
	assert.Equal(t, 1, data.Summary.TwoStudents)
}

func TestGetPriority(t *testing.T) {
	engine := newTestEngine(t)

	rec, env := doGet(t, engine, "/api/v1/priority?term=2025FA")
	require.Equal(t, http.StatusOK, rec.Code)

	var data struct {
		Ranking []struct {
			Rank    int    `json:"rank"`
			Section string `json:"section_name"`
			Score   int    `json:"score"`
		} `json:"ranking"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.Ranking, 2)
	assert.Equal(t, 1, data.Ranking[0].Rank)
	assert.Equal(t, "ENMX-210-01", data.Ranking[0].Section)
	assert.Equal(t, 84, data.Ranking[0].Score) // 8 students, FT faculty
}

func TestExportCSV(t *testing.T) {
	engine := newTestEngine(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/export/ensembles?term=2025FA", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")

	disposition := rec.Header().Get("Content-Disposition")
	assert.Contains(t, disposition, "attachment")
	assert.Contains(t, disposition, "ensemble_dashboard_ensembles_2025FA_")

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 3) // header + two sections
	assert.True(t, strings.HasPrefix(lines[0], "Section,"))
}

func TestExportUnknownReport(t *testing.T) {
	engine := newTestEngine(t)

	rec, env := doGet(t, engine, "/api/v1/export/bogus?term=2025FA")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "UNKNOWN_REPORT", env.Error.Code)
}

func TestReloadSnapshot(t *testing.T) {
	engine := newTestEngine(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/reload", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	var data struct {
		Sections int `json:"sections"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, 2, data.Sections)
}

func TestUploadFacultyMediaRejectsMissingFile(t *testing.T) {
	engine := newTestEngine(t)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/faculty/Deng%2C%20Alice/media", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.NotNil(t, env.Error)
	assert.Equal(t, "FILE_REQUIRED", env.Error.Code)
}
