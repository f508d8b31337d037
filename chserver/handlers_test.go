package chserver_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lintang-b-s/chx/chserver"
	"github.com/lintang-b-s/chx/contractor"
	"github.com/lintang-b-s/chx/edgelist"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	labels := edgelist.NewLabels()
	g, err := edgelist.ParseEdges(bytes.NewBufferString("a b 1\nb c 1\n"), labels)
	require.NoError(t, err)

	ch := contractor.New(g, nil)
	ch.Contract(1e18)

	r := chi.NewRouter()
	chserver.NewHandler(ch, labels).Mount(r)
	return httptest.NewServer(r)
}

func postDistance(t *testing.T, srv *httptest.Server, src, dst string) *http.Response {
	t.Helper()
	body, err := json.Marshal(chserver.DistanceRequest{Src: src, Dst: dst})
	require.NoError(t, err)
	resp, err := http.Post(srv.URL+"/api/ch/distance", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	return resp
}

func TestDistanceEndpointReachable(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	resp := postDistance(t, srv, "a", "c")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var out chserver.DistanceResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.True(t, out.Reachable)
	assert.Equal(t, uint32(2), out.Distance)
}

func TestDistanceEndpointUnknownLabel(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	resp := postDistance(t, srv, "a", "nope")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDistanceEndpointRejectsEmptyFields(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	resp := postDistance(t, srv, "", "c")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
