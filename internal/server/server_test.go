package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/chartcore/pkg/cache"
	"github.com/matzehuels/chartcore/pkg/observability"
	"github.com/matzehuels/chartcore/pkg/pipeline"
	"github.com/matzehuels/chartcore/pkg/snapshot"
)

const snapshotBody = `{
	"spec": {
		"type": "area",
		"width": 400,
		"height": 300,
		"axes": [
			{"primary": true, "position": "bottom"},
			{"position": "left", "stacked": true}
		]
	},
	"data": [
		{"label": "a", "data": [[0, 1], [1, 2], [2, 3]]},
		{"label": "b", "data": [[0, 4], [1, 5], [2, 6]]}
	]
}`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	logger := log.New(io.Discard)
	s := New(pipeline.NewRunner(fc, nil, logger), Options{Logger: logger, MaxBatch: 2})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, ts *httptest.Server, path, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var eb errorBody
	if err := json.NewDecoder(resp.Body).Decode(&eb); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return eb.Error.Code
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var h healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		t.Fatal(err)
	}
	if h.Status != "ok" || h.RequestID == "" || h.RequestID != resp.Header.Get(RequestIDHeader) {
		t.Errorf("health = %+v, header %q", h, resp.Header.Get(RequestIDHeader))
	}
}

func TestRequestIDPropagation(t *testing.T) {
	ts := newTestServer(t)
	tests := []struct {
		name string
		in   string
		keep bool
	}{
		{"valid id kept", "0b7f5c2e-8a43-4c1f-9d56-2f3a1e4b6c7d", true},
		{"garbage replaced", "not a uuid", false},
		{"missing assigned", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
			if tt.in != "" {
				req.Header.Set(RequestIDHeader, tt.in)
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()
			got := resp.Header.Get(RequestIDHeader)
			if tt.keep && got != tt.in {
				t.Errorf("id = %q, want %q", got, tt.in)
			}
			if _, err := uuid.Parse(got); err != nil {
				t.Errorf("id %q is not a uuid", got)
			}
		})
	}
}

func TestCreateSnapshot(t *testing.T) {
	ts := newTestServer(t)

	resp := post(t, ts, "/v1/snapshots", snapshotBody)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if got := resp.Header.Get("X-Cache"); got != "miss" {
		t.Errorf("X-Cache = %q, want miss", got)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	doc, err := snapshot.Unmarshal(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Series) != 2 || doc.Series[1].Datums[2].TotalValue != 9 {
		t.Errorf("document = %+v", doc.Series)
	}

	again := post(t, ts, "/v1/snapshots", snapshotBody)
	if got := again.Header.Get("X-Cache"); got != "hit" {
		t.Errorf("second X-Cache = %q, want hit", got)
	}
}

func TestCreateSnapshotHover(t *testing.T) {
	ts := newTestServer(t)

	resp := post(t, ts, "/v1/snapshots", snapshotBody)
	data, _ := io.ReadAll(resp.Body)
	base, err := snapshot.Unmarshal(data)
	if err != nil {
		t.Fatal(err)
	}
	f := base.Series[0].Datums[1].Focus

	body := strings.Replace(snapshotBody, `"data":`,
		`"hover": true, "pointer": {"x": `+ftoa(f.X)+`, "y": `+ftoa(f.Y)+`, "active": true}, "data":`, 1)
	resp = post(t, ts, "/v1/snapshots", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	data, _ = io.ReadAll(resp.Body)
	doc, err := snapshot.Unmarshal(data)
	if err != nil {
		t.Fatal(err)
	}
	if !doc.Hovered.Active || len(doc.Hovered.Datums) != 2 {
		t.Errorf("hovered = %+v", doc.Hovered)
	}
	if doc.Tooltip == nil || !doc.Tooltip.Show {
		t.Errorf("tooltip = %+v", doc.Tooltip)
	}
}

func ftoa(f float64) string {
	b, _ := json.Marshal(f)
	return string(b)
}

func TestCreateSnapshotErrors(t *testing.T) {
	ts := newTestServer(t)
	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"malformed", `{`, http.StatusBadRequest, "invalid_format"},
		{"unknown field", `{"spec": {}, "colour": 1}`, http.StatusBadRequest, "invalid_format"},
		{"missing spec", `{"data": []}`, http.StatusBadRequest, "invalid_input"},
		{"unknown type", `{"spec": {"type": "pie"}}`, http.StatusUnprocessableEntity, "unknown_series_type"},
		{"missing axis", `{"spec": {"axes": [{"primary": true, "position": "bottom"}]}}`, http.StatusUnprocessableEntity, "missing_axis"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts, "/v1/snapshots", tt.body)
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if got := errorCode(t, resp); got != tt.code {
				t.Errorf("code = %q, want %q", got, tt.code)
			}
		})
	}
}

func TestRequireJSON(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Post(ts.URL+"/v1/snapshots", "text/plain", strings.NewReader(snapshotBody))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnsupportedMediaType {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestRoutingErrors(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/v2/nothing")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound || errorCode(t, resp) != "not_found" {
		t.Errorf("not found status = %d", resp.StatusCode)
	}

	resp2, err := http.Get(ts.URL + "/v1/snapshots")
	if err != nil {
		t.Fatal(err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("method status = %d", resp2.StatusCode)
	}
}

func TestCreateBatch(t *testing.T) {
	ts := newTestServer(t)

	body := `{"items": [` + snapshotBody + `, {"spec": {}}]}`
	resp := post(t, ts, "/v1/snapshots/batch", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var out struct {
		Items []snapshot.Document `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if len(out.Items) != 2 || len(out.Items[0].Series) != 2 || !out.Items[1].Empty {
		t.Errorf("batch = %+v", out.Items)
	}

	tests := []struct {
		name string
		body string
		code string
	}{
		{"empty", `{"items": []}`, "invalid_input"},
		{"too many", `{"items": [{"spec": {}}, {"spec": {}}, {"spec": {}}]}`, "invalid_input"},
		{"bad item", `{"items": [{"spec": {}}, {"spec": {"type": "pie"}}]}`, "unknown_series_type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts, "/v1/snapshots/batch", tt.body)
			if got := errorCode(t, resp); got != tt.code {
				t.Errorf("code = %q, want %q", got, tt.code)
			}
		})
	}
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{context.Canceled, http.StatusServiceUnavailable},
		{io.EOF, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusOf(tt.err); got != tt.want {
			t.Errorf("statusOf(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

type httpRecorder struct {
	observability.NoopHTTPHooks

	mu        sync.Mutex
	requests  []string
	responses []string
	errs      int
}

func (h *httpRecorder) OnRequest(_ context.Context, method, route string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.requests = append(h.requests, method+" "+route)
}

func (h *httpRecorder) OnResponse(_ context.Context, method, route string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.responses = append(h.responses, method+" "+route+" "+http.StatusText(status))
}

func (h *httpRecorder) OnError(context.Context, string, string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errs++
}

func TestHTTPHooks(t *testing.T) {
	rec := &httpRecorder{}
	observability.SetHTTPHooks(rec)
	t.Cleanup(observability.Reset)

	// Served in-process so the hooks have run when ServeHTTP returns.
	h := New(nil, Options{Logger: log.New(io.Discard)}).Handler()
	for _, body := range []string{snapshotBody, `{"spec": {"type": "pie"}}`} {
		req := httptest.NewRequest(http.MethodPost, "/v1/snapshots", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		h.ServeHTTP(httptest.NewRecorder(), req)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	want := []string{
		"POST /v1/snapshots OK",
		"POST /v1/snapshots Unprocessable Entity",
	}
	if len(rec.responses) != len(want) {
		t.Fatalf("responses = %v", rec.responses)
	}
	for i := range want {
		if rec.responses[i] != want[i] {
			t.Errorf("response %d = %q, want %q", i, rec.responses[i], want[i])
		}
	}
	if rec.errs != 1 {
		t.Errorf("errors = %d, want 1", rec.errs)
	}
	for i, got := range rec.requests {
		if want := "POST /v1/snapshots"; got != want {
			t.Errorf("request %d = %q, want %q", i, got, want)
		}
	}
	if len(rec.requests) != 2 {
		t.Errorf("requests = %v", rec.requests)
	}
}

func TestHTTPHooksRouteMatchesAcrossEvents(t *testing.T) {
	rec := &httpRecorder{}
	observability.SetHTTPHooks(rec)
	t.Cleanup(observability.Reset)

	h := New(nil, Options{Logger: log.New(io.Discard)}).Handler()
	tests := []struct {
		method, path, route string
	}{
		{http.MethodGet, "/healthz", "/healthz"},
		{http.MethodPost, "/v1/snapshots/batch", "/v1/snapshots/batch"},
		{http.MethodGet, "/missing", "/missing"},
	}
	for _, tt := range tests {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(tt.method, tt.path, nil))
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.requests) != len(tests) || len(rec.responses) != len(tests) {
		t.Fatalf("requests = %v, responses = %v", rec.requests, rec.responses)
	}
	for i, tt := range tests {
		want := tt.method + " " + tt.route
		if rec.requests[i] != want {
			t.Errorf("request %d = %q, want %q", i, rec.requests[i], want)
		}
		if !strings.HasPrefix(rec.responses[i], want+" ") {
			t.Errorf("response %d = %q, want route %q", i, rec.responses[i], tt.route)
		}
	}
}
