// Package project stores timeline projects and converts their JSON documents
// to and from animation timelines.
package project

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrInvalidDocument = errors.New("invalid document")
	ErrInvalidProject  = errors.New("invalid project")
)

// AuthTokenKey is the config key holding the API bearer token.
const AuthTokenKey = "auth_token"

type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	FrameRate float64   `json:"frame_rate"`
	Document  *Document `json:"document"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	ExportStatusRunning   = "running"
	ExportStatusCompleted = "completed"
	ExportStatusFailed    = "failed"
)

// Export records one EDL export of a project.
type Export struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Status    string    `json:"status"`
	Path      string    `json:"path,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewID() string {
	return uuid.NewString()
}
