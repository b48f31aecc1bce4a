package restapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/require"

	"github.com/carris-ui/carris/internal/app"
	"github.com/carris-ui/carris/internal/appconf"
	"github.com/carris-ui/carris/internal/logging"
	"github.com/carris-ui/carris/internal/models"
)

var testNow = time.Unix(1700000000, 0)

// fakeCarris is a carris.API serving canned stops and arrivals.
type fakeCarris struct {
	stops       []models.Stop
	arrivals    []models.Arrival
	arrivalsErr error
}

func (f *fakeCarris) ArrivalsByStop(ctx context.Context, stopID string) ([]models.Arrival, error) {
	if f.arrivalsErr != nil {
		return nil, f.arrivalsErr
	}
	return f.arrivals, nil
}

func (f *fakeCarris) AllStops(ctx context.Context) ([]models.Stop, error) {
	return f.stops, nil
}

func int64Ptr(v int64) *int64 { return &v }

func testStops() []models.Stop {
	return []models.Stop{
		{ID: "020387", LongName: "Av. Dom João V", TTSName: "Avenida Dom João Quinto", LineIDs: []string{"1604"}},
		{ID: "060001", LongName: "Cacilhas (Terminal)", TTSName: "Cacilhas Terminal", LineIDs: []string{"3001", "3002"}},
		{ID: "060002", LongName: "Cacilhas (Cais)", TTSName: "Cacilhas Cais", LineIDs: []string{"3001"}},
	}
}

func newFakeCarris() *fakeCarris {
	return &fakeCarris{
		stops: testStops(),
		arrivals: []models.Arrival{
			{LineID: 1604, Headsign: "Amadora"},
			{LineID: 3001, Headsign: "Costa da Caparica", ScheduledArrivalUnix: int64Ptr(testNow.Unix() + 600)},
			{LineID: 3002, Headsign: "Almada", EstimatedArrivalUnix: int64Ptr(testNow.Unix() + 120)},
		},
	}
}

func createTestApiWith(t *testing.T, fake *fakeCarris, rateLimit int) *RestAPI {
	t.Helper()

	cfg := app.DefaultConfig()
	cfg.Env = appconf.Test
	cfg.RateLimit = rateLimit
	root := t.TempDir()
	cfg.CacheDir = filepath.Join(root, "cache")
	cfg.ConfigDir = filepath.Join(root, "config")

	logger := logging.NewStructuredLogger(io.Discard, slog.LevelInfo)
	application, err := app.NewWithAPI(cfg, logger, fake)
	require.NoError(t, err)
	_, err = application.LoadStops(context.Background())
	require.NoError(t, err)

	api := NewRestAPI(application)
	api.now = func() time.Time { return testNow }
	t.Cleanup(func() {
		api.Close()
		_ = application.Close()
	})
	return api
}

func createTestApi(t *testing.T) *RestAPI {
	return createTestApiWith(t, newFakeCarris(), 1000)
}

func testHandler(api *RestAPI) http.Handler {
	router := httprouter.New()
	api.SetRoutes(router)
	return api.Handler(router)
}

// serveAndRetrieveEndpoint sets up a test server, makes a request to the specified endpoint, and returns the response
// and decoded model.
func serveAndRetrieveEndpoint(t *testing.T, endpoint string) (*RestAPI, *http.Response, models.ResponseModel) {
	api := createTestApi(t)
	resp, model := serveApiAndRetrieveEndpoint(t, api, endpoint)
	return api, resp, model
}

func serveApiAndRetrieveEndpoint(t *testing.T, api *RestAPI, endpoint string) (*http.Response, models.ResponseModel) {
	server := httptest.NewServer(testHandler(api))
	defer server.Close()

	resp, err := http.Get(server.URL + endpoint)
	require.NoError(t, err)
	defer logging.SafeCloseWithLogging(resp.Body,
		slog.Default().With(slog.String("component", "test")),
		"http_response_body")

	var response models.ResponseModel
	err = json.NewDecoder(resp.Body).Decode(&response)
	require.NoError(t, err)

	return resp, response
}

// serveAndDecode is serveApiAndRetrieveEndpoint for bodies that are not a
// ResponseModel.
func serveAndDecode(t *testing.T, api *RestAPI, endpoint string, out any) *http.Response {
	server := httptest.NewServer(testHandler(api))
	defer server.Close()

	resp, err := http.Get(server.URL + endpoint)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	return resp
}
