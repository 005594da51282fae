package export

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/atlas-demo/atlas/internal/animation"
)

const FormatEDL = "edl"

// Events lists every clip of tl with its absolute frame range, ordered by
// start frame and then track.
func Events(tl *animation.Timeline) []Event {
	var events []Event
	for ti, track := range tl.Tracks {
		starts := track.Span()
		for ci, clip := range track.Clips {
			e := Event{
				ClipID:     clip.ID,
				ClipName:   clip.Name,
				Track:      ti,
				StartFrame: starts[ci],
				EndFrame:   starts[ci] + clip.DurationFrames,
			}
			if clip.Schema != nil {
				e.Schema = clip.Schema.Name
			}
			if anim := clip.Source.Animation; anim != nil {
				target := uint32(anim.Target)
				e.Target = &target
			}
			events = append(events, e)
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		if events[i].StartFrame != events[j].StartFrame {
			return events[i].StartFrame < events[j].StartFrame
		}
		return events[i].Track < events[j].Track
	})
	return events
}

func GenerateEDL(events []Event, title string, frameRate float64) string {
	fps := int(math.Round(frameRate))
	if fps <= 0 {
		fps = 30
	}

	isDropFrame := math.Abs(frameRate-29.97) < 0.01 || math.Abs(frameRate-59.94) < 0.01

	lines := []string{fmt.Sprintf("TITLE: %s", title)}
	if isDropFrame {
		lines = append(lines, "FCM: DROP FRAME")
	} else {
		lines = append(lines, "FCM: NON-DROP FRAME")
	}
	lines = append(lines, "")

	for i, e := range events {
		duration := e.EndFrame - e.StartFrame
		srcIn := framesToTimecode(0, fps)
		srcOut := framesToTimecode(duration, fps)
		recIn := framesToTimecode(e.StartFrame, fps)
		recOut := framesToTimecode(e.EndFrame, fps)

		lines = append(lines,
			fmt.Sprintf("%03d  %-8s %-5s C        %s %s %s %s", i+1, reelName(e.ClipID), trackName(e.Track), srcIn, srcOut, recIn, recOut),
			fmt.Sprintf("* FROM CLIP NAME:  %s", e.ClipName),
			fmt.Sprintf("* SCHEMA:  %s", e.Schema),
		)
		if e.Target != nil {
			lines = append(lines, fmt.Sprintf("* ANIMATES CLIP:  %d", *e.Target))
		}
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

// WriteEDL writes content to dir under a name derived from name and returns
// the file path.
func WriteEDL(dir, name, content string) (string, error) {
	if err := ValidateOutputDir(dir); err != nil {
		return "", err
	}
	path := filepath.Join(dir, EDLFileName(name))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write edl: %w", err)
	}
	return path, nil
}

func reelName(id uint32) string {
	return fmt.Sprintf("C%d", id)
}

func trackName(track int) string {
	if track == 0 {
		return "V"
	}
	return fmt.Sprintf("V%d", track+1)
}

func framesToTimecode(totalFrames uint32, fps int) string {
	total := int(totalFrames)
	frames := total % fps
	totalSeconds := total / fps
	seconds := totalSeconds % 60
	totalMinutes := totalSeconds / 60
	minutes := totalMinutes % 60
	hours := totalMinutes / 60
	return fmt.Sprintf("%02d:%02d:%02d:%02d", hours, minutes, seconds, frames)
}
