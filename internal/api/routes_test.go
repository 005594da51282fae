package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/atlas-demo/atlas/internal/animation"
	"github.com/atlas-demo/atlas/internal/db"
	"github.com/atlas-demo/atlas/internal/logging"
	"github.com/atlas-demo/atlas/internal/player"
	"github.com/atlas-demo/atlas/internal/project"
)

const testToken = "test-token-0123456789"

type testEnv struct {
	cfg     ServerConfig
	svc     *project.Service
	handler http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	database, err := db.New(context.Background(), filepath.Join(t.TempDir(), "test.db"), nil)
	if err != nil {
		t.Fatalf("db.New() error = %v", err)
	}
	t.Cleanup(func() { database.Close() })

	repo := project.NewRepository(database.Conn())
	if err := repo.SetConfig(context.Background(), project.AuthTokenKey, testToken); err != nil {
		t.Fatalf("SetConfig() error = %v", err)
	}

	logger := logging.Discard()
	svc := project.NewService(repo, 30, logger)
	cfg := ServerConfig{
		ExportDir:      filepath.Join(t.TempDir(), "exports"),
		ProjectService: svc,
		Repository:     repo,
		Logger:         logger,
		StartTime:      time.Now(),
		Version:        "test",
	}
	return &testEnv{cfg: cfg, svc: svc, handler: NewRouter(cfg)}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json.Marshal error: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer "+testToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr
}

func (e *testEnv) seedDemo(t *testing.T) *project.Project {
	t.Helper()
	p, err := e.svc.SeedDemo(context.Background())
	if err != nil {
		t.Fatalf("SeedDemo() error = %v", err)
	}
	return p
}

func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("json.Unmarshal error: %v (body %q)", err, rr.Body.String())
	}
}

func TestHealthHandler(t *testing.T) {
	env := newTestEnv(t)

	rr := httptest.NewRecorder()
	env.handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusOK)
	}
	var resp HealthResponse
	decodeJSON(t, rr, &resp)
	if resp.Status != "ok" || resp.Version != "test" {
		t.Errorf("health = %+v", resp)
	}
}

func TestSchemasHandler(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodGet, "/schemas", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusOK)
	}

	var resp SchemasResponse
	decodeJSON(t, rr, &resp)
	if len(resp.Schemas) != 4 {
		t.Fatalf("schemas = %d, want 4", len(resp.Schemas))
	}

	var grading *SchemaResponse
	for i := range resp.Schemas {
		if resp.Schemas[i].Name == "Grading" {
			grading = &resp.Schemas[i]
		}
	}
	if grading == nil {
		t.Fatal("Grading schema missing")
	}
	if got := grading.Groups[1].Properties[0].Path; got != "grading.curve" {
		t.Errorf("path = %q, want grading.curve", got)
	}
	if got := grading.Groups[1].Properties[0].Default.Type(); got != animation.TypeVec3 {
		t.Errorf("default type = %s, want vec3", got)
	}
}

func TestProjectsCRUD(t *testing.T) {
	env := newTestEnv(t)

	doc, err := project.DemoDocument()
	if err != nil {
		t.Fatalf("DemoDocument() error = %v", err)
	}

	rr := env.do(t, http.MethodPost, "/projects", CreateProjectRequest{Name: "Scene", FrameRate: 24, Document: doc})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rr.Code, rr.Body.String())
	}
	var created ProjectResponse
	decodeJSON(t, rr, &created)
	if created.Clips != 7 || created.DurationFrames != 240 || created.FrameRate != 24 {
		t.Errorf("created = %+v", created.ProjectSummaryResponse)
	}

	rr = env.do(t, http.MethodGet, "/projects", nil)
	var list ProjectsResponse
	decodeJSON(t, rr, &list)
	if len(list.Projects) != 1 || list.Projects[0].ID != created.ID {
		t.Fatalf("list = %+v", list)
	}

	rr = env.do(t, http.MethodPut, "/projects/"+created.ID, UpdateProjectRequest{Name: "Renamed"})
	if rr.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", rr.Code, rr.Body.String())
	}
	var updated ProjectResponse
	decodeJSON(t, rr, &updated)
	if updated.Name != "Renamed" || updated.Clips != 7 {
		t.Errorf("updated = %+v", updated.ProjectSummaryResponse)
	}

	rr = env.do(t, http.MethodGet, "/projects/"+created.ID, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("get status = %d", rr.Code)
	}

	rr = env.do(t, http.MethodDelete, "/projects/"+created.ID, nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rr.Code)
	}

	rr = env.do(t, http.MethodGet, "/projects/"+created.ID, nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d, want 404", rr.Code)
	}
}

func TestCreateProject_Invalid(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		body any
		code string
	}{
		{"missing name", CreateProjectRequest{}, "BAD_REQUEST"},
		{"negative frame rate", CreateProjectRequest{Name: "x", FrameRate: -5}, "BAD_REQUEST"},
		{"unknown schema", CreateProjectRequest{Name: "x", Document: &project.Document{
			Tracks: []project.TrackDoc{{Clips: []project.ClipDoc{{ID: 1, Schema: "Fluid Sim"}}}},
		}}, "INVALID_DOCUMENT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(t, http.MethodPost, "/projects", tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status code = %d, want 400", rr.Code)
			}
			var resp ErrorResponse
			decodeJSON(t, rr, &resp)
			if resp.Code != tt.code {
				t.Errorf("code = %q, want %q", resp.Code, tt.code)
			}
		})
	}
}

func TestFrameHandler(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedDemo(t)

	rr := env.do(t, http.MethodGet, "/projects/"+p.ID+"/frames/120", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status code = %d, body %s", rr.Code, rr.Body.String())
	}

	var snap player.Snapshot
	decodeJSON(t, rr, &snap)
	if snap.Frame != 120 || len(snap.Clips) != 7 {
		t.Fatalf("snapshot frame %d with %d clips", snap.Frame, len(snap.Clips))
	}

	camera, ok := snap.Clip(1)
	if !ok {
		t.Fatal("camera clip missing")
	}
	arm, ok := camera.Property("arm length")
	if !ok {
		t.Fatal("arm length missing")
	}
	if v, _ := arm.Value.Float(); v != 7 {
		t.Errorf("arm length = %v, want 7", v)
	}
	if arm.TargetedBy == nil || *arm.TargetedBy != 4 {
		t.Errorf("arm length targeted_by = %v, want 4", arm.TargetedBy)
	}
	if _, ok := snap.Outputs["camera.position"]; !ok {
		t.Error("camera.position missing from outputs")
	}
}

func TestFrameHandler_BadInput(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedDemo(t)

	if rr := env.do(t, http.MethodGet, "/projects/"+p.ID+"/frames/-1", nil); rr.Code != http.StatusBadRequest {
		t.Errorf("negative frame status = %d, want 400", rr.Code)
	}
	if rr := env.do(t, http.MethodGet, "/projects/nope/frames/1", nil); rr.Code != http.StatusNotFound {
		t.Errorf("unknown project status = %d, want 404", rr.Code)
	}
}

func TestFrameRangeHandler(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedDemo(t)

	rr := env.do(t, http.MethodGet, "/projects/"+p.ID+"/frames?from=10&to=14", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status code = %d, body %s", rr.Code, rr.Body.String())
	}
	var resp FrameRangeResponse
	decodeJSON(t, rr, &resp)
	if len(resp.Frames) != 4 || resp.Frames[0].Frame != 10 || resp.Frames[3].Frame != 13 {
		t.Errorf("frames = %d starting at %d", len(resp.Frames), resp.Frames[0].Frame)
	}

	if rr := env.do(t, http.MethodGet, "/projects/"+p.ID+"/frames?from=0&to=5000", nil); rr.Code != http.StatusBadRequest {
		t.Errorf("oversized range status = %d, want 400", rr.Code)
	}
	if rr := env.do(t, http.MethodGet, "/projects/"+p.ID+"/frames?from=9&to=3", nil); rr.Code != http.StatusBadRequest {
		t.Errorf("inverted range status = %d, want 400", rr.Code)
	}
}

func TestFrameRangeHandler_DefaultEnd(t *testing.T) {
	env := newTestEnv(t)
	doc := &project.Document{Tracks: []project.TrackDoc{{Clips: []project.ClipDoc{{
		ID: 1, Schema: "World Light", DurationFrames: 1000,
		Properties: []project.PropertyDoc{{Path: "ambient", Value: animation.FloatValue(0.3)}},
	}}}}}
	p, err := env.svc.CreateProject(context.Background(), "Long", 60, doc)
	if err != nil {
		t.Fatalf("CreateProject() error = %v", err)
	}

	tests := []struct {
		name     string
		query    string
		from, to uint32
	}{
		{"bare request is clamped", "", 0, maxRangeFrames},
		{"tail of timeline", "?from=900", 900, 1000},
		{"from past the end", "?from=1200", 1200, 1200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(t, http.MethodGet, "/projects/"+p.ID+"/frames"+tt.query, nil)
			if rr.Code != http.StatusOK {
				t.Fatalf("status code = %d, body %s", rr.Code, rr.Body.String())
			}
			var resp FrameRangeResponse
			decodeJSON(t, rr, &resp)
			if resp.From != tt.from || resp.To != tt.to {
				t.Errorf("range = [%d, %d), want [%d, %d)", resp.From, resp.To, tt.from, tt.to)
			}
			if len(resp.Frames) != int(tt.to-tt.from) {
				t.Errorf("frames = %d, want %d", len(resp.Frames), tt.to-tt.from)
			}
		})
	}
}

func TestDefaultRangeEnd(t *testing.T) {
	tests := []struct {
		from, duration, want uint32
	}{
		{0, 240, 240},
		{0, 5000, maxRangeFrames},
		{100, 5000, 100 + maxRangeFrames},
		{300, 240, 300},
		{math.MaxUint32 - 10, math.MaxUint32, math.MaxUint32},
	}
	for _, tt := range tests {
		if got := defaultRangeEnd(tt.from, tt.duration); got != tt.want {
			t.Errorf("defaultRangeEnd(%d, %d) = %d, want %d", tt.from, tt.duration, got, tt.want)
		}
	}
}
