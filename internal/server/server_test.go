package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/featureql/internal/crs"
	"github.com/roach88/featureql/internal/features"
	"github.com/roach88/featureql/internal/queryir"
	"github.com/roach88/featureql/internal/testutil"
)

func newTestServer(exec *testutil.FakeExecutor, opts ...Option) *Server {
	svc := features.NewService(testutil.Catalog(), testutil.Registry(), exec,
		features.WithClock(testutil.NewFixedClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))),
	)
	opts = append([]Option{WithRequestIDGenerator(testutil.NewFixedRequestIDGenerator("req-1"))}, opts...)
	return New(svc, opts...)
}

func get(t *testing.T, h http.Handler, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var body map[string]any
	if strings.Contains(rec.Header().Get("Content-Type"), "json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	}
	return rec, body
}

func linkHref(t *testing.T, body map[string]any, rel string) string {
	t.Helper()
	links, ok := body["links"].([]any)
	require.True(t, ok, "links missing")
	for _, l := range links {
		m := l.(map[string]any)
		if m["rel"] == rel {
			return m["href"].(string)
		}
	}
	return ""
}

func TestListCollections(t *testing.T) {
	rec, body := get(t, newTestServer(testutil.NewFakeExecutor()), "/collections")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	colls := body["collections"].([]any)
	require.Len(t, colls, 2)

	first := colls[0].(map[string]any)
	assert.Equal(t, "buildings", first["id"])
	assert.Equal(t, true, first["datetime"])
	assert.Contains(t, first["crs"], crs.CRS84URI)
	assert.Contains(t, first["crs"], "http://www.opengis.net/def/crs/EPSG/0/3857")
	assert.Equal(t, "http://example.com/collections", linkHref(t, body, "self"))
}

func TestGetCollection(t *testing.T) {
	rec, body := get(t, newTestServer(testutil.NewFakeExecutor()), "/collections/parcels")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "parcels", body["id"])
	assert.Equal(t, "feature", body["itemType"])
	assert.Equal(t, "http://www.opengis.net/def/crs/EPSG/0/25832", body["storageCrs"])
	assert.Equal(t, false, body["datetime"])
	assert.Equal(t, "http://example.com/collections/parcels/items", linkHref(t, body, "items"))
}

func TestGetCollection_NotFound(t *testing.T) {
	rec, body := get(t, newTestServer(testutil.NewFakeExecutor()), "/collections/roads")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", body["code"])
	assert.Contains(t, body["description"], "roads")
}

func TestListItems(t *testing.T) {
	srv := newTestServer(testutil.NewFakeExecutor(testutil.SequentialRows(25)...))

	rec, body := get(t, srv, "/collections/buildings/items?limit=10")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/geo+json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "<"+crs.CRS84URI+">", rec.Header().Get("Content-Crs"))
	assert.Equal(t, "req-1", rec.Header().Get(RequestIDHeader))

	assert.Equal(t, "FeatureCollection", body["type"])
	assert.Equal(t, 25.0, body["numberMatched"])
	assert.Equal(t, 10.0, body["numberReturned"])
	assert.Equal(t, "2024-03-01T12:00:00Z", body["timeStamp"])
	assert.Len(t, body["features"], 10)

	assert.Equal(t, "http://example.com/collections/buildings/items?cursor=10&limit=10", linkHref(t, body, "next"))
	assert.Equal(t, "http://example.com/collections/buildings/items?limit=10", linkHref(t, body, "self"))
	assert.Equal(t, "http://example.com/collections/buildings", linkHref(t, body, "collection"))
}

func TestListItems_FollowNextLinks(t *testing.T) {
	srv := newTestServer(testutil.NewFakeExecutor(testutil.SequentialRows(23)...))

	target := "/collections/buildings/items?limit=10"
	var ids []float64
	for pages := 0; target != ""; pages++ {
		require.Less(t, pages, 5)

		rec, body := get(t, srv, target)
		require.Equal(t, http.StatusOK, rec.Code)
		for _, f := range body["features"].([]any) {
			ids = append(ids, f.(map[string]any)["id"].(float64))
		}

		target = ""
		if next := linkHref(t, body, "next"); next != "" {
			u, err := url.Parse(next)
			require.NoError(t, err)
			target = u.RequestURI()
		}
	}

	require.Len(t, ids, 23)
	for i, id := range ids {
		assert.Equal(t, float64(i+1), id)
	}
}

func TestListItems_OutputCRS(t *testing.T) {
	srv := newTestServer(testutil.NewFakeExecutor(testutil.SequentialRows(1)...))

	rec, _ := get(t, srv, "/collections/buildings/items?crs="+url.QueryEscape("http://www.opengis.net/def/crs/EPSG/0/3857"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<http://www.opengis.net/def/crs/EPSG/0/3857>", rec.Header().Get("Content-Crs"))
}

func TestListItems_Errors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		status int
		code   string
		param  string
	}{
		{"bad bbox", "/collections/buildings/items?bbox=1,2,3", http.StatusBadRequest, "INVALID_PARAMETER", "bbox"},
		{"limit zero", "/collections/buildings/items?limit=0", http.StatusBadRequest, "INVALID_PARAMETER", "limit"},
		{"cursor below sentinel", "/collections/buildings/items?cursor=-5", http.StatusBadRequest, "INVALID_PARAMETER", "cursor"},
		{"unknown column", "/collections/buildings/items?filter=colour%3Dred", http.StatusBadRequest, "INVALID_PARAMETER", "filter"},
		{"repeated parameter", "/collections/buildings/items?limit=1&limit=2", http.StatusBadRequest, "INVALID_PARAMETER", "limit"},
		{"datetime unsupported", "/collections/parcels/items?datetime=2020-01-01T00:00:00Z", http.StatusBadRequest, "UNSUPPORTED_PARAMETER", "datetime"},
		{"unknown collection", "/collections/roads/items", http.StatusNotFound, "NOT_FOUND", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := testutil.NewFakeExecutor(testutil.SequentialRows(3)...)
			rec, body := get(t, newTestServer(exec), tt.target)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, body["code"])
			if tt.param != "" {
				assert.True(t, strings.HasPrefix(body["description"].(string), tt.param+": "), body["description"])
			}
			assert.Empty(t, exec.Calls())
		})
	}
}

func TestListItems_ExecutionFailureHidesCause(t *testing.T) {
	exec := testutil.NewFakeExecutor()
	exec.Err = errors.New(`password authentication failed for user "gis"`)

	rec, body := get(t, newTestServer(exec), "/collections/buildings/items")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "QUERY_EXECUTION_FAILED", body["code"])
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestMetricsEndpoint(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("featureql_store_queries_total 0\n"))
	})
	srv := newTestServer(testutil.NewFakeExecutor(), WithMetricsHandler(metrics))

	rec, _ := get(t, srv, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "featureql_store_queries_total")
}

func TestUnknownRoute(t *testing.T) {
	rec, body := get(t, newTestServer(testutil.NewFakeExecutor()), "/nope")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestMethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/collections/buildings/items", nil)
	rec := httptest.NewRecorder()
	newTestServer(testutil.NewFakeExecutor()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(queryir.CodeInvalidParameter))
	assert.Equal(t, http.StatusBadRequest, statusFor(queryir.CodeUnsupportedParameter))
	assert.Equal(t, http.StatusNotFound, statusFor(queryir.CodeNotFound))
	assert.Equal(t, http.StatusInternalServerError, statusFor(queryir.CodeQueryExecutionFailed))
	assert.Equal(t, http.StatusInternalServerError, statusFor(""))
}

func TestWriteError_UntypedError(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	writeError(rec, req, errors.New("disk on fire"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"code":"INTERNAL","description":"internal error"}`, rec.Body.String())
}

func TestBaseURL(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/collections", nil)
	assert.Equal(t, "http://example.com", baseURL(req))

	req.Header.Set("X-Forwarded-Proto", "https")
	assert.Equal(t, "https://example.com", baseURL(req))
}
