package carris

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

const arrivalsJSON = `[
  {"estimated_arrival_unix": 1700000100, "observed_arrival_unix": null, "scheduled_arrival_unix": 1700000000,
   "line_id": "742", "headsign": "Lisboa (Marquês)", "scheduled_arrival": "08:15:00"},
  {"estimated_arrival_unix": null, "observed_arrival_unix": null, "scheduled_arrival_unix": null,
   "line_id": "1604", "headsign": "Amadora", "scheduled_arrival": null}
]`

const stopsJSON = `[
  {"district_id": "11", "facilities": ["school"], "id": "020387", "lat": 38.7, "line_ids": ["1604"],
   "lon": -9.2, "long_name": "Av. Dom João V", "municipality_id": "1115", "pattern_ids": ["1604_0_1"],
   "region_id": "PT170", "route_ids": ["1604_0"], "short_name": null, "tts_name": "Avenida Dom João Quinto",
   "wheelchair_boarding": true}
]`

// mockAPI serves fixed bodies by path and counts requests.
type mockAPI struct {
	server *httptest.Server
	hits   atomic.Int32
	paths  chan string
}

func newMockAPI(t *testing.T, handler http.HandlerFunc) *mockAPI {
	t.Helper()
	m := &mockAPI{paths: make(chan string, 16)}
	m.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.hits.Add(1)
		select {
		case m.paths <- r.URL.EscapedPath():
		default:
		}
		handler(w, r)
	}))
	t.Cleanup(m.server.Close)
	return m
}

func jsonBody(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}
