package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"

	"github.com/atlas-demo/atlas/internal/export"
	"github.com/atlas-demo/atlas/internal/logging"
)

func exportHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req export.ExportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		if req.Format == "" {
			req.Format = export.FormatEDL
		}
		if strings.ToLower(req.Format) != export.FormatEDL {
			WriteError(w, http.StatusBadRequest, "format must be edl", "BAD_REQUEST")
			return
		}

		outputDir := req.OutputDir
		if outputDir == "" {
			outputDir = cfg.ExportDir
			if err := os.MkdirAll(outputDir, 0o755); err != nil {
				WriteError(w, http.StatusInternalServerError, "failed to create export directory", "INTERNAL_ERROR")
				return
			}
		}
		if err := export.ValidateOutputDir(outputDir); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "INVALID_OUTPUT_DIR")
			return
		}

		p, tl, err := cfg.ProjectService.Timeline(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeProjectError(w, err)
			return
		}

		events := export.Events(tl)
		if len(events) == 0 {
			WriteError(w, http.StatusUnprocessableEntity, "timeline has no clips", "EMPTY_TIMELINE")
			return
		}

		record, err := cfg.ProjectService.BeginExport(r.Context(), p.ID)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to record export", "INTERNAL_ERROR")
			return
		}
		logger := logging.WithProjectID(cfg.Logger, p.ID)

		title := export.SanitizeName(p.Name, 120)
		if title == "" {
			title = "atlas_export"
		}
		fileName := req.FileName
		if fileName == "" {
			fileName = title
		}

		for _, e := range events {
			logging.WithClipID(logger, e.ClipID).Debug("export event",
				"track", e.Track, "start_frame", e.StartFrame, "end_frame", e.EndFrame)
		}

		edl := export.GenerateEDL(events, title, p.FrameRate)
		outputPath, err := export.WriteEDL(outputDir, fileName, edl)
		if err != nil {
			if ferr := cfg.ProjectService.FailExport(r.Context(), record.ID, err); ferr != nil {
				logger.Error("failed to record export failure", "export_id", record.ID, "error", ferr)
			}
			WriteError(w, http.StatusInternalServerError, "failed to write export file", "INTERNAL_ERROR")
			return
		}
		if err := cfg.ProjectService.CompleteExport(r.Context(), record.ID, outputPath); err != nil {
			logger.Error("failed to record export completion", "export_id", record.ID, "error", err)
		}

		logger.Info("timeline exported",
			"export_id", record.ID,
			"events", len(events),
			"size", humanize.Bytes(uint64(len(edl))),
			"path", logging.SanitizePath(outputPath),
		)

		WriteJSON(w, http.StatusOK, export.ExportResponse{
			Status:     "ok",
			Format:     export.FormatEDL,
			ExportID:   record.ID,
			OutputPath: outputPath,
			EventCount: len(events),
		})
	}
}
