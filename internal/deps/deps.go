package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"vidseg/internal/config"
)

// Requirement defines an external binary vidseg relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string `json:"name"`
	Command     string `json:"command"`
	Description string `json:"description,omitempty"`
	Optional    bool   `json:"optional"`
	Available   bool   `json:"available"`
	Detail      string `json:"detail,omitempty"`
}

// Requirements lists the binaries the configured pipeline invokes. Tesseract
// is optional unless participant detection uses it.
func Requirements(cfg *config.Config) []Requirement {
	if cfg == nil {
		return nil
	}
	tesseractNeeded := cfg.Participants.Enabled && cfg.Participants.OCRBackend == "tesseract"
	return []Requirement{
		{Name: "FFprobe", Command: cfg.Tools.FFprobe, Description: "video metadata"},
		{Name: "FFmpeg", Command: cfg.Tools.FFmpeg, Description: "frame decoding"},
		{Name: "Tesseract", Command: cfg.Tools.Tesseract, Description: "participant card OCR", Optional: !tesseractNeeded},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Available = false
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Available = false
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// Missing returns the required (non-optional) dependencies that are absent.
func Missing(statuses []Status) []Status {
	var missing []Status
	for _, s := range statuses {
		if !s.Available && !s.Optional {
			missing = append(missing, s)
		}
	}
	return missing
}
