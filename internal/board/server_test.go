package board

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"uploadsim/internal/progress"
	"uploadsim/internal/simulator"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testingclock "k8s.io/utils/clock/testing"
)

type fixture struct {
	clock *testingclock.FakeClock
	sim   *simulator.Simulator
	view  *View
	srv   *httptest.Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		clock: testingclock.NewFakeClock(time.Unix(0, 0)),
		view:  NewView(),
	}
	logger := log.New(io.Discard)
	f.sim = simulator.New(nil, f.view.List(), f.view.Bars(), simulator.WithClock(f.clock), simulator.WithLogger(logger))
	f.srv = httptest.NewServer(NewServer(f.sim, f.view, logger).Handler())
	t.Cleanup(func() {
		f.srv.Close()
		f.sim.Close()
	})
	return f
}

func (f *fixture) tick(t *testing.T, wantTicks int) {
	t.Helper()
	f.clock.Step(progress.DefaultInterval)
	require.Eventually(t, func() bool {
		for _, st := range f.sim.Snapshot() {
			if !st.State.Finished() && st.Ticks < wantTicks {
				return false
			}
		}
		return true
	}, 2*time.Second, time.Millisecond)
}

func doJSON(t *testing.T, method, url, body string, out any) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestSelectionLifecycle(t *testing.T) {
	f := newFixture(t)

	var created filesResponse
	resp := doJSON(t, http.MethodPost, f.srv.URL+"/selection", `{"files":[{"name":"a.txt","size":2048},{"name":"empty","size":0}]}`, &created)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Len(t, created.Files, 2)
	assert.Equal(t, "a.txt (2 KB)", created.Files[0].Label)
	assert.Equal(t, progress.StatePending, created.Files[0].State)
	assert.Equal(t, progress.Summary{Files: 2, TotalBytes: 2048}, created.Summary)

	f.tick(t, 1)

	var st progress.Status
	resp = doJSON(t, http.MethodGet, f.srv.URL+"/files/"+created.Files[0].ID, "", &st)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 50.0, st.Percent)
	assert.Equal(t, progress.StateTicking, st.State)

	var dash Dashboard
	doJSON(t, http.MethodGet, f.srv.URL+"/dashboard", "", &dash)
	assert.Equal(t, []string{"a.txt (2 KB)", "empty (0 Bytes)"}, dash.Files)
	assert.Equal(t, []BarView{{Name: "a.txt", Width: 50}, {Name: "empty", Width: 0}}, dash.Bars)

	f.tick(t, 2)
	f.tick(t, 3)

	var list filesResponse
	doJSON(t, http.MethodGet, f.srv.URL+"/files", "", &list)
	assert.Equal(t, progress.Summary{Files: 2, Completed: 2, TotalBytes: 2048, UploadedBytes: 2048}, list.Summary)
	assert.Equal(t, progress.StateDone, list.Files[1].State)
	assert.Equal(t, 1, list.Files[1].Ticks)
}

func TestReselectDropsOldIDs(t *testing.T) {
	f := newFixture(t)

	var first filesResponse
	doJSON(t, http.MethodPost, f.srv.URL+"/selection", `{"files":[{"name":"one","size":100}]}`, &first)
	var second filesResponse
	doJSON(t, http.MethodPost, f.srv.URL+"/selection", `{"files":[{"name":"two","size":100},{"name":"three","size":5}]}`, &second)

	var e errorResponse
	resp := doJSON(t, http.MethodGet, f.srv.URL+"/files/"+first.Files[0].ID, "", &e)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", e.Code)

	var dash Dashboard
	doJSON(t, http.MethodGet, f.srv.URL+"/dashboard", "", &dash)
	assert.Equal(t, []string{"two (100 Bytes)", "three (5 Bytes)"}, dash.Files)
}

func TestSelectionRejectsBadInput(t *testing.T) {
	f := newFixture(t)

	testCases := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"Malformed JSON", `{"files":`, http.StatusBadRequest, "INVALID_FORMAT"},
		{"Unknown field", `{"files":[],"extra":1}`, http.StatusBadRequest, "INVALID_FORMAT"},
		{"Negative size", `{"files":[{"name":"x","size":-1}]}`, http.StatusUnprocessableEntity, "INVALID_INPUT"},
		{"Missing name", `{"files":[{"size":3}]}`, http.StatusUnprocessableEntity, "INVALID_INPUT"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var e errorResponse
			resp := doJSON(t, http.MethodPost, f.srv.URL+"/selection", tc.body, &e)
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.code, e.Code)
		})
	}
	assert.Empty(t, f.sim.Snapshot())
}

func TestEmptySelection(t *testing.T) {
	f := newFixture(t)

	var created filesResponse
	resp := doJSON(t, http.MethodPost, f.srv.URL+"/selection", `{"files":[]}`, &created)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Empty(t, created.Files)

	var dash Dashboard
	doJSON(t, http.MethodGet, f.srv.URL+"/dashboard", "", &dash)
	assert.Empty(t, dash.Files)
	assert.Empty(t, dash.Bars)
}

func TestHealthAndCORS(t *testing.T) {
	f := newFixture(t)

	req, err := http.NewRequest(http.MethodGet, f.srv.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://example.com")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestAsError(t *testing.T) {
	e := asError(io.EOF)
	assert.Equal(t, CodeInternal, e.Code())
	assert.Equal(t, http.StatusInternalServerError, e.StatusCode())
	assert.ErrorIs(t, e, io.EOF)

	nf := asError(newNotFound("gone"))
	assert.Equal(t, http.StatusNotFound, nf.StatusCode())
	assert.Equal(t, "gone", nf.Msg())
}
