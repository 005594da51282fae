// Package export writes timelines out as CMX3600-style edit decision lists.
package export

type ExportRequest struct {
	Format    string `json:"format"`
	OutputDir string `json:"output_dir,omitempty"`
	FileName  string `json:"file_name,omitempty"`
}

// Event is one clip placed on the record timeline.
type Event struct {
	ClipID     uint32
	ClipName   string
	Schema     string
	Track      int
	StartFrame uint32
	EndFrame   uint32

	// Target is set for animation clips.
	Target *uint32
}

type ExportResponse struct {
	Status     string `json:"status"`
	Format     string `json:"format"`
	ExportID   string `json:"export_id"`
	OutputPath string `json:"output_path"`
	EventCount int    `json:"event_count"`
}
