package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"

	"github.com/atlas-demo/atlas/internal/generator"
	"github.com/atlas-demo/atlas/internal/player"
	"github.com/atlas-demo/atlas/internal/project"
)

const (
	maxDocumentBytes = 8 << 20
	maxRangeFrames   = 600
)

func NewRouter(cfg ServerConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))

	r.Get("/health", healthHandler(cfg))

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.Repository, cfg.Logger))

		r.Get("/schemas", schemasHandler(cfg))
		r.Get("/projects", listProjectsHandler(cfg))
		r.Post("/projects", createProjectHandler(cfg))
		r.Get("/projects/{id}", getProjectHandler(cfg))
		r.Put("/projects/{id}", updateProjectHandler(cfg))
		r.Delete("/projects/{id}", deleteProjectHandler(cfg))
		r.Get("/projects/{id}/frames", frameRangeHandler(cfg))
		r.Get("/projects/{id}/frames/{frame}", frameHandler(cfg))
		r.Post("/projects/{id}/export", exportHandler(cfg))
		r.Get("/projects/{id}/exports", listExportsHandler(cfg))
	})

	return r
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		version := cfg.Version
		if version == "" {
			version = "dev"
		}
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Version: version,
			UptimeS: int64(time.Since(cfg.StartTime).Seconds()),
			Uptime:  humanize.RelTime(cfg.StartTime, time.Now(), "", ""),
		})
	}
}

func schemasHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		schemas := generator.Schemas()
		resp := SchemasResponse{Schemas: make([]SchemaResponse, len(schemas))}
		for i, s := range schemas {
			resp.Schemas[i] = SchemaToResponse(s)
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func listProjectsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := cfg.ProjectService.ListProjects(r.Context())
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to list projects", "INTERNAL_ERROR")
			return
		}

		resp := ProjectsResponse{Projects: make([]ProjectSummaryResponse, len(projects))}
		for i, p := range projects {
			resp.Projects[i] = ProjectToSummary(p)
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func createProjectHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateProjectRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxDocumentBytes)).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		if req.Name == "" {
			WriteError(w, http.StatusBadRequest, "name is required", "BAD_REQUEST")
			return
		}

		p, err := cfg.ProjectService.CreateProject(r.Context(), req.Name, req.FrameRate, req.Document)
		if err != nil {
			writeProjectError(w, err)
			return
		}

		WriteJSON(w, http.StatusCreated, ProjectToResponse(p))
	}
}

func getProjectHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := cfg.ProjectService.GetProject(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeProjectError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, ProjectToResponse(p))
	}
}

func updateProjectHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpdateProjectRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxDocumentBytes)).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		p, err := cfg.ProjectService.UpdateProject(r.Context(), chi.URLParam(r, "id"), req.Name, req.FrameRate, req.Document)
		if err != nil {
			writeProjectError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, ProjectToResponse(p))
	}
}

func deleteProjectHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := cfg.ProjectService.DeleteProject(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeProjectError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func frameHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		frame, err := parseFrame(chi.URLParam(r, "frame"))
		if err != nil {
			WriteError(w, http.StatusBadRequest, "frame must be a non-negative integer", "BAD_REQUEST")
			return
		}

		p, tl, err := cfg.ProjectService.Timeline(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeProjectError(w, err)
			return
		}

		pl := player.New(tl, p.FrameRate, cfg.Logger)
		WriteJSON(w, http.StatusOK, pl.RenderFrame(frame).Snapshot(tl))
	}
}

// frameRangeHandler resolves frames [from, to). An explicit range longer than
// maxRangeFrames is rejected; an omitted to runs to the end of the timeline
// or maxRangeFrames past from, whichever comes first.
func frameRangeHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, tl, err := cfg.ProjectService.Timeline(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeProjectError(w, err)
			return
		}

		q := r.URL.Query()
		var from uint32
		if s := q.Get("from"); s != "" {
			if from, err = parseFrame(s); err != nil {
				WriteError(w, http.StatusBadRequest, "from must be a non-negative integer", "BAD_REQUEST")
				return
			}
		}
		to := defaultRangeEnd(from, tl.DurationFrames())
		if s := q.Get("to"); s != "" {
			if to, err = parseFrame(s); err != nil {
				WriteError(w, http.StatusBadRequest, "to must be a non-negative integer", "BAD_REQUEST")
				return
			}
		}
		if to < from {
			WriteError(w, http.StatusBadRequest, "to must not be before from", "BAD_REQUEST")
			return
		}
		if to-from > maxRangeFrames {
			WriteError(w, http.StatusBadRequest, "range exceeds "+strconv.Itoa(maxRangeFrames)+" frames", "RANGE_TOO_LARGE")
			return
		}

		resp := FrameRangeResponse{From: from, To: to, Frames: make([]*player.Snapshot, 0, to-from)}
		pl := player.New(tl, p.FrameRate, cfg.Logger)
		err = pl.Range(r.Context(), from, to, func(s *player.Snapshot) error {
			resp.Frames = append(resp.Frames, s)
			return nil
		})
		if err != nil {
			WriteError(w, http.StatusServiceUnavailable, err.Error(), "CANCELLED")
			return
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func listExportsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if _, err := cfg.ProjectService.GetProject(r.Context(), id); err != nil {
			writeProjectError(w, err)
			return
		}

		exports, err := cfg.ProjectService.ListExports(r.Context(), id)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to list exports", "INTERNAL_ERROR")
			return
		}

		resp := ExportsResponse{Exports: make([]ExportResponse, len(exports))}
		for i, e := range exports {
			resp.Exports[i] = ExportToResponse(e)
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func defaultRangeEnd(from, duration uint32) uint32 {
	end := min(uint64(duration), uint64(from)+maxRangeFrames)
	return uint32(max(end, uint64(from)))
}

func parseFrame(s string) (uint32, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	return uint32(n), err
}

func writeProjectError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, project.ErrProjectNotFound):
		WriteError(w, http.StatusNotFound, "project not found", "NOT_FOUND")
	case errors.Is(err, project.ErrInvalidDocument):
		WriteError(w, http.StatusBadRequest, err.Error(), "INVALID_DOCUMENT")
	case errors.Is(err, project.ErrInvalidProject):
		WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
	default:
		WriteError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
	}
}
