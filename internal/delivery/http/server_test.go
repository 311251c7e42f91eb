package http_test

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/competition-service/internal/config"
	httpserver "github.com/competition-service/internal/delivery/http"
	"github.com/competition-service/internal/delivery/http/handler"
	"github.com/competition-service/internal/domain"
	"github.com/competition-service/internal/repository/memory"
	"github.com/competition-service/internal/sales"
	"github.com/competition-service/internal/usecase"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Meta  map[string]any  `json:"meta"`
	Error *struct {
		Code    string         `json:"code"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func testProject() *domain.Project {
	return &domain.Project{
		Markets: []domain.Market{
			{ID: 1, Name: "Nord", BusinessTypeNullfall: 2, BusinessTypePlanfall: 2, MunicipalityCode: "A"},
			{ID: 2, Name: "Süd", BusinessTypeNullfall: 2, BusinessTypePlanfall: 2, MunicipalityCode: "B"},
			{ID: 3, Name: "Neu", BusinessTypeNullfall: 0, BusinessTypePlanfall: 2, MunicipalityCode: "B"},
		},
		Cells: []domain.Cell{
			{ID: 10, PurchasingPower: 1000, SubAreaID: -1, MunicipalityCode: "A", Lon: 9.73, Lat: 52.37},
		},
		Relations: []domain.Relation{
			{MarketID: 1, CellID: 10, RoadDistance: 1000, BeelineDistance: 800},
			{MarketID: 2, CellID: 10, RoadDistance: 2000, BeelineDistance: 1500},
			{MarketID: 3, CellID: 10, RoadDistance: 1000, BeelineDistance: 900},
		},
	}
}

func testBaseData() domain.BaseData {
	base := domain.BaseData{
		SizeClasses: []domain.MunicipalitySizeClass{
			{MunicipalityCode: "A", SizeClass: 1},
			{MunicipalityCode: "B", SizeClass: 1},
		},
	}
	for bt := 1; bt <= 4; bt++ {
		base.DecayCoefficients = append(base.DecayCoefficients, domain.DecayCoefficient{
			SizeClass: 1, BusinessType: bt, Exponent: -1, ScaleFactor: 1,
		})
		base.DiscountCoefficients = append(base.DiscountCoefficients, domain.DiscountCoefficient{
			BusinessType: bt, OneNearby: 1, TwoNearby: 1, ThreeNearby: 1, SecondFar: 1, ThirdFarOneNear: 1, ThirdFarTwoNear: 1,
		})
	}
	return base
}

func newTestServer(t *testing.T, checks map[string]httpserver.HealthCheck) (*httpserver.Server, uuid.UUID) {
	t.Helper()
	logger := zap.NewNop()
	projectID := uuid.New()

	projects := memory.NewProjectStore()
	require.NoError(t, projects.SaveProject(context.Background(), projectID, testProject()))
	cache := memory.NewCacheStore()

	competitionUC := usecase.NewCompetitionUseCase(projects, memory.NewBaseDataStore(testBaseData()), cache, nil, sales.DefaultOptions(), time.Hour, logger)
	reportUC := usecase.NewReportUseCase(projects, competitionUC, logger)
	statsUC := usecase.NewStatsUseCase(projects, cache, time.Hour, logger)

	cfg := &config.Config{Server: config.ServerConfig{ReadTimeout: 5 * time.Second, WriteTimeout: 5 * time.Second}}
	srv := httpserver.NewServer(cfg, logger,
		handler.NewCompetitionHandler(competitionUC, logger),
		handler.NewReportHandler(reportUC, logger),
		handler.NewStatsHandler(statsUC, logger),
		checks,
	)
	return srv, projectID
}

func do(t *testing.T, srv *httpserver.Server, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := srv.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func decode(t *testing.T, raw []byte) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	return env
}

func TestCalculate(t *testing.T) {
	srv, projectID := newTestServer(t, nil)
	path := "/api/v1/projects/" + projectID.String() + "/competition/nullfall"

	resp, raw := do(t, srv, http.MethodPost, path, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	env := decode(t, raw)
	var data struct {
		Setting      string `json:"setting"`
		TotalRevenue string `json:"total_revenue"`
		Markets      []struct {
			MarketID int64  `json:"market_id"`
			Revenue  string `json:"revenue"`
		} `json:"markets"`
		Matrix json.RawMessage `json:"matrix"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "nullfall", data.Setting)
	assert.Equal(t, "1000", data.TotalRevenue)
	require.Len(t, data.Markets, 2)
	assert.Equal(t, "731.06", data.Markets[0].Revenue)
	assert.Empty(t, data.Matrix)
	assert.Nil(t, env.Meta["cached"])

	resp, raw = do(t, srv, http.MethodPost, path, `{"include_matrix":true}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	env = decode(t, raw)
	assert.Equal(t, true, env.Meta["cached"])
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.NotEmpty(t, data.Matrix)
}

func TestCalculate_Errors(t *testing.T) {
	srv, projectID := newTestServer(t, nil)

	tests := []struct {
		name   string
		path   string
		body   string
		status int
		code   string
	}{
		{"invalid project id", "/api/v1/projects/abc/competition/nullfall", "", http.StatusBadRequest, "INVALID_PROJECT_ID"},
		{"invalid setting", "/api/v1/projects/" + projectID.String() + "/competition/zukunft", "", http.StatusBadRequest, "INVALID_SETTING"},
		{"unknown project", "/api/v1/projects/" + uuid.NewString() + "/competition/planfall", "", http.StatusNotFound, "PROJECT_NOT_FOUND"},
		{"malformed body", "/api/v1/projects/" + projectID.String() + "/competition/planfall", "{", http.StatusBadRequest, "INVALID_REQUEST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, raw := do(t, srv, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			env := decode(t, raw)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
		})
	}
}

func TestInvalidate(t *testing.T) {
	srv, projectID := newTestServer(t, nil)
	calc := "/api/v1/projects/" + projectID.String() + "/competition/planfall"

	do(t, srv, http.MethodPost, calc, "")
	resp, _ := do(t, srv, http.MethodDelete, "/api/v1/projects/"+projectID.String()+"/competition/cache", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	_, raw := do(t, srv, http.MethodPost, calc, "")
	assert.Nil(t, decode(t, raw).Meta["cached"])
}

func TestReports(t *testing.T) {
	srv, projectID := newTestServer(t, nil)
	base := "/api/v1/projects/" + projectID.String()

	resp, raw := do(t, srv, http.MethodGet, base+"/reports/revenue", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	env := decode(t, raw)
	assert.Equal(t, float64(3), env.Meta["total"])

	resp, raw = do(t, srv, http.MethodGet, base+"/reports/centrality", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var centrality struct {
		Municipalities []struct {
			MunicipalityCode   string `json:"municipality_code"`
			NullfallCentrality string `json:"nullfall_centrality"`
		} `json:"municipalities"`
	}
	require.NoError(t, json.Unmarshal(decode(t, raw).Data, &centrality))
	require.Len(t, centrality.Municipalities, 2)
	assert.Equal(t, "A", centrality.Municipalities[0].MunicipalityCode)
	assert.Equal(t, "0.7311", centrality.Municipalities[0].NullfallCentrality)
}

func TestCatchment(t *testing.T) {
	srv, projectID := newTestServer(t, nil)
	base := "/api/v1/projects/" + projectID.String() + "/markets/"

	resp, raw := do(t, srv, http.MethodGet, base+"3/catchment", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.Equal(t, "application/geo+json", resp.Header.Get("Content-Type"))

	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(raw, &fc))
	assert.Equal(t, "FeatureCollection", fc.Type)
	require.Len(t, fc.Features, 1)
	assert.Equal(t, float64(10), fc.Features[0].Properties["cell_id"])

	resp, _ = do(t, srv, http.MethodGet, base+"3/catchment?setting=nullfall", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "market 3 is closed in the nullfall")

	resp, raw = do(t, srv, http.MethodGet, base+"1/catchment?setting=zukunft", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_REQUEST", decode(t, raw).Error.Code)

	resp, raw = do(t, srv, http.MethodGet, base+"x/catchment", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_MARKET_ID", decode(t, raw).Error.Code)
}

func TestStats(t *testing.T) {
	srv, projectID := newTestServer(t, nil)
	path := "/api/v1/projects/" + projectID.String() + "/stats"

	resp, raw := do(t, srv, http.MethodGet, path, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var stats struct {
		Markets struct {
			Total   int `json:"total"`
			Planned int `json:"planned"`
		} `json:"markets"`
	}
	require.NoError(t, json.Unmarshal(decode(t, raw).Data, &stats))
	assert.Equal(t, 3, stats.Markets.Total)
	assert.Equal(t, 1, stats.Markets.Planned)

	_, raw = do(t, srv, http.MethodGet, path, "")
	assert.Equal(t, true, decode(t, raw).Meta["cached"])
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, map[string]httpserver.HealthCheck{
		"postgres": func(context.Context) error { return nil },
	})
	resp, _ := do(t, srv, http.MethodGet, "/api/v1/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	srv, _ = newTestServer(t, map[string]httpserver.HealthCheck{
		"redis": func(context.Context) error { return stderrors.New("connection refused") },
	})
	resp, raw := do(t, srv, http.MethodGet, "/api/v1/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, string(raw), "degraded")
}

func TestUnknownRoute(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	resp, raw := do(t, srv, http.MethodGet, "/api/v1/nowhere", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decode(t, raw).Error.Code)
}
