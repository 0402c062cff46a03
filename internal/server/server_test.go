package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisconley/greencity/internal"
	"github.com/chrisconley/greencity/internal/infra"
	"github.com/chrisconley/greencity/internal/metrics"
	"github.com/chrisconley/greencity/internal/session"
	"github.com/chrisconley/greencity/specs"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// zeroSampler always draws the lower bound, so every battery is Hazardous
// (ocv 1.20 V, resistance 2.00 Ω).
type zeroSampler struct{}

func (zeroSampler) Float64() float64 { return 0 }

func newTestServer(t *testing.T) *Server {
	t.Helper()
	bus := infra.NewBus()
	collector := metrics.NewCollector()
	collector.Subscribe(bus)
	topology := internal.DefaultTopology()
	registry := session.NewRegistry(func() *internal.Dashboard {
		return internal.NewDashboard(topology, internal.WithSampler(zeroSampler{}), internal.WithPublisher(bus))
	}, bus)
	return New(registry, topology, collector.Handler())
}

func do(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func openSession(t *testing.T, s *Server) string {
	t.Helper()
	rec := do(t, s, http.MethodPost, "/api/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	return decode[map[string]string](t, rec)["session_id"]
}

func addBattery(t *testing.T, s *Server, id, ward, zone string) *httptest.ResponseRecorder {
	t.Helper()
	return do(t, s, http.MethodPost, "/api/sessions/"+id+"/batteries", map[string]string{"ward_id": ward, "zone": zone})
}

func TestServer_Topology(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/topology", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	topology := decode[specs.TopologySpec](t, rec)
	require.Len(t, topology.Zones, 4)
	assert.Equal(t, "Public Services", topology.Zones[3].Name)
	assert.Equal(t, []string{"Pub-W1", "Pub-W2"}, topology.Zones[3].Wards)
}

func TestServer_Batteries(t *testing.T) {
	t.Run("adds a battery and lists it", func(t *testing.T) {
		s := newTestServer(t)
		id := openSession(t, s)

		rec := addBattery(t, s, id, "Res-W1", "Residential")

		require.Equal(t, http.StatusCreated, rec.Code)
		record := decode[specs.BatteryRecordSpec](t, rec)
		assert.Equal(t, "BAT1", record.ID)
		assert.Equal(t, "Res-W1", record.WardID)
		assert.Equal(t, "Hazardous", record.Status)
		assert.Equal(t, "2.00", record.InternalResistance)

		list := do(t, s, http.MethodGet, "/api/sessions/"+id+"/batteries", nil)
		require.Equal(t, http.StatusOK, list.Code)
		body := decode[map[string][]specs.BatteryRecordSpec](t, list)
		require.Len(t, body["batteries"], 1)
		assert.Equal(t, "BAT1", body["batteries"][0].ID)
	})

	t.Run("ward outside its zone returns bad request", func(t *testing.T) {
		s := newTestServer(t)
		id := openSession(t, s)

		rec := addBattery(t, s, id, "Res-W1", "Industrial")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decode[map[string]string](t, rec)["error"], "invalid ward")
	})

	t.Run("missing fields return bad request", func(t *testing.T) {
		s := newTestServer(t)
		id := openSession(t, s)

		rec := do(t, s, http.MethodPost, "/api/sessions/"+id+"/batteries", map[string]string{"ward_id": "Res-W1"})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("sessions do not share counters", func(t *testing.T) {
		s := newTestServer(t)
		a := openSession(t, s)
		b := openSession(t, s)

		require.Equal(t, http.StatusCreated, addBattery(t, s, a, "Res-W1", "Residential").Code)
		rec := addBattery(t, s, b, "Com-W2", "Commercial")

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "BAT1", decode[specs.BatteryRecordSpec](t, rec).ID)
	})
}

func TestServer_Sessions(t *testing.T) {
	t.Run("unknown session returns not found", func(t *testing.T) {
		s := newTestServer(t)

		rec := do(t, s, http.MethodGet, "/api/sessions/6f1c2f0e-3c55-4c4f-9d0e-2b7f0f5c9a11/grid", nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed session ID returns not found", func(t *testing.T) {
		s := newTestServer(t)

		rec := addBattery(t, s, "nope", "Res-W1", "Residential")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("deleted session is gone", func(t *testing.T) {
		s := newTestServer(t)
		id := openSession(t, s)

		rec := do(t, s, http.MethodDelete, "/api/sessions/"+id, nil)
		require.Equal(t, http.StatusNoContent, rec.Code)

		assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/api/sessions/"+id+"/batteries", nil).Code)
		assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodDelete, "/api/sessions/"+id, nil).Code)
	})
}

func TestServer_Summary(t *testing.T) {
	t.Run("ward scope counts only that ward", func(t *testing.T) {
		s := newTestServer(t)
		id := openSession(t, s)
		addBattery(t, s, id, "Res-W1", "Residential")
		addBattery(t, s, id, "Res-W1", "Residential")
		addBattery(t, s, id, "Ind-W1", "Industrial")

		rec := do(t, s, http.MethodGet, "/api/sessions/"+id+"/summary?scope=ward:Res-W1", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		summary := decode[specs.SummarySpec](t, rec)
		assert.Equal(t, 2, summary.Total)
		assert.Equal(t, 2, summary.Hazardous)
		assert.Equal(t, "100", summary.HazardPercent)
	})

	t.Run("no scope means the whole city", func(t *testing.T) {
		s := newTestServer(t)
		id := openSession(t, s)
		addBattery(t, s, id, "Res-W1", "Residential")
		addBattery(t, s, id, "Pub-W2", "Public Services")

		rec := do(t, s, http.MethodGet, "/api/sessions/"+id+"/summary", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 2, decode[specs.SummarySpec](t, rec).Total)
	})

	t.Run("empty scope is a zero summary", func(t *testing.T) {
		s := newTestServer(t)
		id := openSession(t, s)

		rec := do(t, s, http.MethodGet, "/api/sessions/"+id+"/summary?scope=zone:Commercial", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		summary := decode[specs.SummarySpec](t, rec)
		assert.Equal(t, 0, summary.Total)
		assert.Equal(t, "0", summary.HazardPercent)
	})

	t.Run("unknown zone returns bad request", func(t *testing.T) {
		s := newTestServer(t)
		id := openSession(t, s)

		rec := do(t, s, http.MethodGet, "/api/sessions/"+id+"/summary?scope=zone:Harbor", nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed scope returns bad request", func(t *testing.T) {
		s := newTestServer(t)
		id := openSession(t, s)

		rec := do(t, s, http.MethodGet, "/api/sessions/"+id+"/summary?scope=district:5", nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestServer_Grid(t *testing.T) {
	s := newTestServer(t)
	id := openSession(t, s)
	addBattery(t, s, id, "Pub-W2", "Public Services")

	rec := do(t, s, http.MethodGet, "/api/sessions/"+id+"/grid", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	grid := decode[specs.GridSpec](t, rec)
	require.Len(t, grid.Wards, 8)
	assert.Equal(t, "Res-W1", grid.Wards[0].WardID)
	assert.Equal(t, 0, grid.Wards[0].Summary.Total)
	assert.Equal(t, "Pub-W2", grid.Wards[7].WardID)
	assert.Equal(t, 1, grid.Wards[7].Summary.Hazardous)
}

func TestServer_ZoneGrid(t *testing.T) {
	s := newTestServer(t)
	id := openSession(t, s)
	addBattery(t, s, id, "Ind-W2", "Industrial")

	rec := do(t, s, http.MethodGet, "/api/sessions/"+id+"/zones", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	grid := decode[specs.ZoneGridSpec](t, rec)
	require.Len(t, grid.Zones, 4)
	assert.Equal(t, "Residential", grid.Zones[0].Zone)
	assert.Equal(t, 0, grid.Zones[0].Summary.Total)
	assert.Equal(t, "Industrial", grid.Zones[1].Zone)
	assert.Equal(t, 1, grid.Zones[1].Summary.Hazardous)
	assert.Equal(t, "100", grid.Zones[1].Summary.HazardPercent)
}

func TestServer_Scopes(t *testing.T) {
	t.Run("new session offers only the city", func(t *testing.T) {
		s := newTestServer(t)
		id := openSession(t, s)

		rec := do(t, s, http.MethodGet, "/api/sessions/"+id+"/scopes", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		got := decode[map[string][]specs.ScopeSpec](t, rec)["scopes"]
		assert.Equal(t, []specs.ScopeSpec{specs.NewCityScope()}, got)
	})

	t.Run("lists observed zones then wards", func(t *testing.T) {
		s := newTestServer(t)
		id := openSession(t, s)
		addBattery(t, s, id, "Pub-W1", "Public Services")
		addBattery(t, s, id, "Res-W2", "Residential")
		addBattery(t, s, id, "Pub-W1", "Public Services")

		rec := do(t, s, http.MethodGet, "/api/sessions/"+id+"/scopes", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []specs.ScopeSpec{
			specs.NewCityScope(),
			specs.NewZoneScope("Public Services"),
			specs.NewZoneScope("Residential"),
			specs.NewWardScope("Pub-W1"),
			specs.NewWardScope("Res-W2"),
		}, decode[map[string][]specs.ScopeSpec](t, rec)["scopes"])
	})

	t.Run("unknown session returns not found", func(t *testing.T) {
		s := newTestServer(t)

		rec := do(t, s, http.MethodGet, "/api/sessions/00000000-0000-0000-0000-000000000000/scopes", nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestServer_Series(t *testing.T) {
	t.Run("returns one point per battery in scope", func(t *testing.T) {
		s := newTestServer(t)
		id := openSession(t, s)
		addBattery(t, s, id, "Res-W1", "Residential")
		addBattery(t, s, id, "Ind-W1", "Industrial")

		rec := do(t, s, http.MethodGet, "/api/sessions/"+id+"/series?scope=zone:Industrial&metric=temperature", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		series := decode[specs.MetricSeriesSpec](t, rec)
		assert.Equal(t, "temperature", series.Metric)
		assert.Equal(t, specs.NewZoneScope("Industrial"), series.Scope)
		require.Len(t, series.Points, 1)
		assert.Equal(t, "BAT2", series.Points[0].BatteryID)
		assert.Equal(t, "20.0", series.Points[0].Value)
	})

	t.Run("unknown metric returns bad request", func(t *testing.T) {
		s := newTestServer(t)
		id := openSession(t, s)

		rec := do(t, s, http.MethodGet, "/api/sessions/"+id+"/series?metric=humidity", nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestServer_Metrics(t *testing.T) {
	s := newTestServer(t)
	id := openSession(t, s)
	addBattery(t, s, id, "Com-W1", "Commercial")

	rec := do(t, s, http.MethodGet, "/metrics", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "greencity_batteries_classified_total")
	assert.Contains(t, rec.Body.String(), "greencity_sessions_active 1")
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, statusFor(session.ErrSessionNotFound))
	assert.Equal(t, http.StatusBadRequest, statusFor(internal.ErrInvalidWard))
	assert.Equal(t, http.StatusBadRequest, statusFor(internal.ErrUnknownScope))
	assert.Equal(t, http.StatusInternalServerError, statusFor(assert.AnError))
}
