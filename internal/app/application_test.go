package app

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carris-ui/carris/internal/appconf"
	"github.com/carris-ui/carris/internal/carris"
	"github.com/carris-ui/carris/internal/localstore"
	"github.com/carris-ui/carris/internal/models"
)

// fakeAPI is a carris.API with canned data. It records overlapping calls so
// serialisation can be asserted.
type fakeAPI struct {
	arrivals   []models.Arrival
	stops      []models.Stop
	block      bool
	delay      time.Duration
	stopsCalls atomic.Int32
	inFlight   atomic.Int32
	overlapped atomic.Bool
}

func (f *fakeAPI) enter() func() {
	if f.inFlight.Add(1) > 1 {
		f.overlapped.Store(true)
	}
	return func() { f.inFlight.Add(-1) }
}

func (f *fakeAPI) ArrivalsByStop(ctx context.Context, stopID string) ([]models.Arrival, error) {
	defer f.enter()()
	if f.block {
		<-ctx.Done()
		return nil, &carris.TransportError{URL: stopID, Err: ctx.Err()}
	}
	time.Sleep(f.delay)
	return f.arrivals, nil
}

func (f *fakeAPI) AllStops(ctx context.Context) ([]models.Stop, error) {
	defer f.enter()()
	f.stopsCalls.Add(1)
	return f.stops, nil
}

func testConfig(t *testing.T) Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Env = appconf.Test
	root := t.TempDir()
	cfg.CacheDir = filepath.Join(root, "cache")
	cfg.ConfigDir = filepath.Join(root, "config")
	return cfg
}

func newTestApplication(t *testing.T, api carris.API) *Application {
	t.Helper()
	application, err := NewWithAPI(testConfig(t), nil, api)
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.Close() })
	return application
}

func ptr[T any](v T) *T { return &v }

func TestNewSelectsBackend(t *testing.T) {
	cfg := testConfig(t)

	application, err := New(cfg, nil)
	require.NoError(t, err)
	defer func() { _ = application.Close() }()
	assert.IsType(t, &carris.Client{}, application.API)

	cfg.Backend = BackendEmbedded
	cfg.RxBufferSize = 512
	cfg.BodyBufferSize = 1024
	application, err = New(cfg, nil)
	require.NoError(t, err)
	defer func() { _ = application.Close() }()
	assert.IsType(t, &SerializedAPI{}, application.API)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "unknown backend", mutate: func(c *Config) { c.Backend = "quantum" }},
		{name: "embedded without buffers", mutate: func(c *Config) { c.Backend = BackendEmbedded; c.RxBufferSize = 0 }},
		{name: "negative timeout", mutate: func(c *Config) { c.RequestTimeout = -time.Second }},
		{name: "bad port", mutate: func(c *Config) { c.Port = 70000 }},
		{name: "file db in test env", mutate: func(c *Config) { c.DBPath = filepath.Join(t.TempDir(), "x.db") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			tt.mutate(&cfg)
			_, err := New(cfg, nil)
			assert.Error(t, err)
		})
	}
}

func TestParseBackend(t *testing.T) {
	b, err := ParseBackend("")
	require.NoError(t, err)
	assert.Equal(t, BackendStd, b)

	b, err = ParseBackend("embedded")
	require.NoError(t, err)
	assert.Equal(t, BackendEmbedded, b)

	_, err = ParseBackend("EMBEDDED")
	assert.Error(t, err)
}

func TestSerializedAPIRunsOneCallAtATime(t *testing.T) {
	fake := &fakeAPI{arrivals: []models.Arrival{}, delay: 5 * time.Millisecond}
	api := NewSerializedAPI(fake)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := api.ArrivalsByStop(context.Background(), "1")
			assert.NoError(t, err)
			_, err = api.AllStops(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.False(t, fake.overlapped.Load())
	assert.EqualValues(t, 8, fake.stopsCalls.Load())
}

func TestLoadStopsCachesAndIndexes(t *testing.T) {
	fake := &fakeAPI{stops: []models.Stop{
		{ID: "020387", LongName: "Av. Dom João V", LineIDs: []string{"1604"}, ShortName: json.RawMessage(`null`)},
	}}
	application := newTestApplication(t, fake)
	ctx := context.Background()

	stops, err := application.LoadStops(ctx)
	require.NoError(t, err)
	assert.Len(t, stops, 1)
	assert.FileExists(t, application.Store.StopsPath())

	_, err = application.LoadStops(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, fake.stopsCalls.Load())

	id, err := application.StopDB.FindStopIDByName(ctx, "Av. Dom João V")
	require.NoError(t, err)
	assert.Equal(t, "020387", id)
}

func TestArrivalsAppliesRequestTimeout(t *testing.T) {
	application := newTestApplication(t, &fakeAPI{block: true})
	application.Config.RequestTimeout = 20 * time.Millisecond

	_, err := application.Arrivals(context.Background(), "1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestBoardIsSorted(t *testing.T) {
	now := time.Unix(1700000000, 0)
	fake := &fakeAPI{arrivals: []models.Arrival{
		{LineID: 1, Headsign: "no time"},
		{LineID: 2, Headsign: "later", ScheduledArrivalUnix: ptr(int64(1700000600))},
		{LineID: 3, Headsign: "sooner", EstimatedArrivalUnix: ptr(int64(1700000120)), ScheduledArrival: ptr("08:02")},
	}}
	application := newTestApplication(t, fake)

	rows, err := application.Board(context.Background(), "1", now)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "sooner", rows[0].Direction)
	assert.Equal(t, "08:02", rows[0].ArrivalTime)
	assert.Equal(t, 2, *rows[0].MinutesAway)
	assert.Equal(t, "later", rows[1].Direction)
	assert.Equal(t, models.NoArrivalTime, rows[1].ArrivalTime)
	assert.Equal(t, "no time", rows[2].Direction)
	assert.Nil(t, rows[2].MinutesAway)
}

func TestResolveStopID(t *testing.T) {
	application := newTestApplication(t, &fakeAPI{})

	id, err := application.ResolveStopID("123")
	require.NoError(t, err)
	assert.Equal(t, "123", id)

	_, err = application.ResolveStopID("")
	assert.ErrorIs(t, err, ErrNoHomeStop)

	require.NoError(t, application.Store.SaveSettings(localstore.Settings{HomeStop: "020387"}))
	id, err = application.ResolveStopID("")
	require.NoError(t, err)
	assert.Equal(t, "020387", id)
}
