package api

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	exportpkg "github.com/atlas-demo/atlas/internal/export"
	"github.com/atlas-demo/atlas/internal/project"
)

func TestExport_HappyPath(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedDemo(t)
	outDir := t.TempDir()

	rr := env.do(t, http.MethodPost, "/projects/"+p.ID+"/export", exportpkg.ExportRequest{
		Format:    "EDL",
		OutputDir: outDir,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status code = %d, body %s", rr.Code, rr.Body.String())
	}

	var resp exportpkg.ExportResponse
	decodeJSON(t, rr, &resp)
	if resp.EventCount != 7 {
		t.Errorf("event_count = %d, want 7", resp.EventCount)
	}
	if resp.OutputPath != filepath.Join(outDir, "Demo.edl") {
		t.Errorf("output_path = %q", resp.OutputPath)
	}

	data, err := os.ReadFile(resp.OutputPath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), "TITLE: Demo") {
		t.Errorf("edl missing title: %q", data)
	}
	if !strings.Contains(string(data), "* ANIMATES CLIP:  1") {
		t.Errorf("edl missing animation target: %q", data)
	}

	exports, err := env.svc.ListExports(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("ListExports() error = %v", err)
	}
	if len(exports) != 1 || exports[0].Status != project.ExportStatusCompleted || exports[0].ID != resp.ExportID {
		t.Errorf("exports = %+v", exports)
	}

	rr = env.do(t, http.MethodGet, "/projects/"+p.ID+"/exports", nil)
	var list ExportsResponse
	decodeJSON(t, rr, &list)
	if len(list.Exports) != 1 || list.Exports[0].OutputPath != resp.OutputPath {
		t.Errorf("exports response = %+v", list)
	}
}

func TestExport_DefaultDir(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedDemo(t)

	rr := env.do(t, http.MethodPost, "/projects/"+p.ID+"/export", exportpkg.ExportRequest{FileName: "cut one"})
	if rr.Code != http.StatusOK {
		t.Fatalf("status code = %d, body %s", rr.Code, rr.Body.String())
	}
	var resp exportpkg.ExportResponse
	decodeJSON(t, rr, &resp)
	if resp.OutputPath != filepath.Join(env.cfg.ExportDir, "cut_one.edl") {
		t.Errorf("output_path = %q", resp.OutputPath)
	}
}

func TestExport_Invalid(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedDemo(t)
	empty, err := env.svc.CreateProject(context.Background(), "Empty", 0, nil)
	if err != nil {
		t.Fatalf("CreateProject() error = %v", err)
	}

	tests := []struct {
		name    string
		project string
		req     exportpkg.ExportRequest
		want    int
	}{
		{"invalid format", p.ID, exportpkg.ExportRequest{Format: "xml"}, http.StatusBadRequest},
		{"missing dir", p.ID, exportpkg.ExportRequest{OutputDir: "/path/does/not/exist"}, http.StatusBadRequest},
		{"path traversal", p.ID, exportpkg.ExportRequest{OutputDir: "/tmp/../etc"}, http.StatusBadRequest},
		{"unknown project", "nope", exportpkg.ExportRequest{OutputDir: t.TempDir()}, http.StatusNotFound},
		{"empty timeline", empty.ID, exportpkg.ExportRequest{OutputDir: t.TempDir()}, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(t, http.MethodPost, "/projects/"+tt.project+"/export", tt.req)
			if rr.Code != tt.want {
				t.Errorf("status code = %d, want %d (body %s)", rr.Code, tt.want, rr.Body.String())
			}
		})
	}
}
