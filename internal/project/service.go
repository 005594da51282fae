package project

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atlas-demo/atlas/internal/animation"
	"github.com/atlas-demo/atlas/internal/logging"
)

type ProjectService interface {
	CreateProject(ctx context.Context, name string, frameRate float64, doc *Document) (*Project, error)
	GetProject(ctx context.Context, id string) (*Project, error)
	ListProjects(ctx context.Context) ([]*Project, error)
	UpdateProject(ctx context.Context, id, name string, frameRate float64, doc *Document) (*Project, error)
	DeleteProject(ctx context.Context, id string) error
	Timeline(ctx context.Context, id string) (*Project, *animation.Timeline, error)

	BeginExport(ctx context.Context, projectID string) (*Export, error)
	CompleteExport(ctx context.Context, exportID, path string) error
	FailExport(ctx context.Context, exportID string, cause error) error
	ListExports(ctx context.Context, projectID string) ([]*Export, error)
}

type Service struct {
	repo      Repository
	frameRate float64
	logger    *slog.Logger
}

// NewService returns a Service. frameRate is used for projects created
// without one.
func NewService(repo Repository, frameRate float64, logger *slog.Logger) *Service {
	return &Service{repo: repo, frameRate: frameRate, logger: logger}
}

func (s *Service) CreateProject(ctx context.Context, name string, frameRate float64, doc *Document) (*Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidProject)
	}
	if frameRate < 0 {
		return nil, fmt.Errorf("%w: frame rate must be positive", ErrInvalidProject)
	}
	if frameRate == 0 {
		frameRate = s.frameRate
	}
	if doc == nil {
		doc = &Document{}
	}
	if _, err := doc.Timeline(); err != nil {
		return nil, err
	}

	now := time.Now().UTC().Truncate(time.Second)
	p := &Project{
		ID:        NewID(),
		Name:      name,
		FrameRate: frameRate,
		Document:  doc,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateProject(ctx, p); err != nil {
		return nil, err
	}

	if s.logger != nil {
		logging.WithProjectID(s.logger, p.ID).Info("project created",
			"name", p.Name, "clips", doc.ClipCount())
	}
	return p, nil
}

func (s *Service) GetProject(ctx context.Context, id string) (*Project, error) {
	p, err := s.repo.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProjectNotFound
	}
	return p, nil
}

func (s *Service) ListProjects(ctx context.Context) ([]*Project, error) {
	return s.repo.ListProjects(ctx)
}

// UpdateProject replaces the fields that are set: a blank name, a zero frame
// rate or a nil document keep the stored value.
func (s *Service) UpdateProject(ctx context.Context, id, name string, frameRate float64, doc *Document) (*Project, error) {
	p, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}

	if name = strings.TrimSpace(name); name != "" {
		p.Name = name
	}
	if frameRate < 0 {
		return nil, fmt.Errorf("%w: frame rate must be positive", ErrInvalidProject)
	}
	if frameRate > 0 {
		p.FrameRate = frameRate
	}
	if doc != nil {
		if _, err := doc.Timeline(); err != nil {
			return nil, err
		}
		p.Document = doc
	}
	p.UpdatedAt = time.Now().UTC().Truncate(time.Second)

	if err := s.repo.UpdateProject(ctx, p); err != nil {
		return nil, err
	}
	if s.logger != nil {
		logging.WithProjectID(s.logger, p.ID).Info("project updated", "clips", p.Document.ClipCount())
	}
	return p, nil
}

func (s *Service) DeleteProject(ctx context.Context, id string) error {
	if _, err := s.GetProject(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteProject(ctx, id); err != nil {
		return err
	}
	if s.logger != nil {
		logging.WithProjectID(s.logger, id).Info("project deleted")
	}
	return nil
}

// Timeline loads a project and builds its timeline.
func (s *Service) Timeline(ctx context.Context, id string) (*Project, *animation.Timeline, error) {
	p, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	tl, err := p.Document.Timeline()
	if err != nil {
		return nil, nil, fmt.Errorf("project %s: %w", id, err)
	}
	return p, tl, nil
}

func (s *Service) BeginExport(ctx context.Context, projectID string) (*Export, error) {
	now := time.Now().UTC().Truncate(time.Second)
	e := &Export{
		ID:        NewID(),
		ProjectID: projectID,
		Status:    ExportStatusRunning,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateExport(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) CompleteExport(ctx context.Context, exportID, path string) error {
	return s.repo.UpdateExportStatus(ctx, exportID, ExportStatusCompleted, path, "")
}

func (s *Service) FailExport(ctx context.Context, exportID string, cause error) error {
	return s.repo.UpdateExportStatus(ctx, exportID, ExportStatusFailed, "", cause.Error())
}

func (s *Service) ListExports(ctx context.Context, projectID string) ([]*Export, error) {
	return s.repo.ListExports(ctx, projectID)
}

// SeedDemo creates the demo project when the store is empty. It returns nil
// when projects already exist.
func (s *Service) SeedDemo(ctx context.Context) (*Project, error) {
	n, err := s.repo.CountProjects(ctx)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, nil
	}

	doc, err := DemoDocument()
	if err != nil {
		return nil, fmt.Errorf("build demo document: %w", err)
	}
	return s.CreateProject(ctx, "Demo", s.frameRate, doc)
}
