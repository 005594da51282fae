package api

import (
	"time"

	"github.com/atlas-demo/atlas/internal/animation"
	"github.com/atlas-demo/atlas/internal/player"
	"github.com/atlas-demo/atlas/internal/project"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	UptimeS int64  `json:"uptime_s"`
	Uptime  string `json:"uptime"`
}

type SchemaPropertyResponse struct {
	Name    string                  `json:"name"`
	Path    string                  `json:"path"`
	Type    string                  `json:"type"`
	Default animation.PropertyValue `json:"default"`
}

type SchemaGroupResponse struct {
	Name       string                   `json:"name"`
	Properties []SchemaPropertyResponse `json:"properties"`
}

type SchemaResponse struct {
	Name   string                `json:"name"`
	Groups []SchemaGroupResponse `json:"groups"`
}

type SchemasResponse struct {
	Schemas []SchemaResponse `json:"schemas"`
}

type CreateProjectRequest struct {
	Name      string            `json:"name"`
	FrameRate float64           `json:"frame_rate,omitempty"`
	Document  *project.Document `json:"document,omitempty"`
}

type UpdateProjectRequest struct {
	Name      string            `json:"name,omitempty"`
	FrameRate float64           `json:"frame_rate,omitempty"`
	Document  *project.Document `json:"document,omitempty"`
}

type ProjectSummaryResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	FrameRate      float64 `json:"frame_rate"`
	Tracks         int     `json:"tracks"`
	Clips          int     `json:"clips"`
	DurationFrames uint32  `json:"duration_frames"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

type ProjectResponse struct {
	ProjectSummaryResponse
	Document *project.Document `json:"document"`
}

type ProjectsResponse struct {
	Projects []ProjectSummaryResponse `json:"projects"`
}

type FrameRangeResponse struct {
	From   uint32             `json:"from"`
	To     uint32             `json:"to"`
	Frames []*player.Snapshot `json:"frames"`
}

type ExportResponse struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	OutputPath string `json:"output_path,omitempty"`
	Error      string `json:"error,omitempty"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

type ExportsResponse struct {
	Exports []ExportResponse `json:"exports"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func SchemaToResponse(s *animation.Schema) SchemaResponse {
	resp := SchemaResponse{Name: s.Name, Groups: make([]SchemaGroupResponse, len(s.Groups))}
	for g, group := range s.Groups {
		props := make([]SchemaPropertyResponse, len(group.Properties))
		for p, prop := range group.Properties {
			props[p] = SchemaPropertyResponse{
				Name:    prop.Name,
				Path:    s.PathName(g, p),
				Type:    prop.Type.String(),
				Default: prop.Type.DefaultValue(),
			}
		}
		resp.Groups[g] = SchemaGroupResponse{Name: group.Name, Properties: props}
	}
	return resp
}

// ProjectToSummary fills in the timeline shape. A document that no longer
// builds reports zero duration.
func ProjectToSummary(p *project.Project) ProjectSummaryResponse {
	resp := ProjectSummaryResponse{
		ID:        p.ID,
		Name:      p.Name,
		FrameRate: p.FrameRate,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.Format(time.RFC3339),
	}
	if p.Document != nil {
		resp.Tracks = len(p.Document.Tracks)
		resp.Clips = p.Document.ClipCount()
		if tl, err := p.Document.Timeline(); err == nil {
			resp.DurationFrames = tl.DurationFrames()
		}
	}
	return resp
}

func ProjectToResponse(p *project.Project) ProjectResponse {
	return ProjectResponse{ProjectSummaryResponse: ProjectToSummary(p), Document: p.Document}
}

func ExportToResponse(e *project.Export) ExportResponse {
	return ExportResponse{
		ID:         e.ID,
		Status:     e.Status,
		OutputPath: e.Path,
		Error:      e.Error,
		CreatedAt:  e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  e.UpdatedAt.Format(time.RFC3339),
	}
}
