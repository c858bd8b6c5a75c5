package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hithonix/hireflow/internal/domain"
)

// ReportFilename is the normalizer's output file inside each candidate
// folder.
const ReportFilename = "normalization_report.json"

// LoadNormalizationReport finds and decodes the normalizer's report in a
// candidate folder. Returns (nil, nil) when no report exists; the gate turns
// that into a data-incomplete hold. The report's transcript/feedback/video
// keys are stage-prefixed on disk (l1_transcript, l2_feedback, ...), so the
// caller's stage selects which ones fill the slots.
func LoadNormalizationReport(ctx context.Context, store DocumentStore, folderID string, stage domain.Stage) (*domain.NormalizationReport, error) {
	files, err := store.ListFiles(ctx, folderID)
	if err != nil {
		return nil, fmt.Errorf("list candidate folder: %w", err)
	}

	var reportID string
	for _, f := range files {
		if strings.EqualFold(f.Name, ReportFilename) {
			reportID = f.ID
			break
		}
	}
	if reportID == "" {
		return nil, nil
	}

	raw, err := store.DownloadBytes(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("download normalization report: %w", err)
	}
	return decodeReport(raw, stage)
}

func decodeReport(raw []byte, stage domain.Stage) (*domain.NormalizationReport, error) {
	var payload struct {
		Resume *domain.DocumentRef  `json:"resume"`
		JD     *domain.DocumentRef  `json:"jd"`
		Extras []domain.DocumentRef `json:"extras"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode normalization report: %w", err)
	}

	var rest map[string]json.RawMessage
	if err := json.Unmarshal(raw, &rest); err != nil {
		return nil, fmt.Errorf("decode normalization report: %w", err)
	}

	prefix := strings.ToLower(string(stage))
	report := &domain.NormalizationReport{
		Resume: payload.Resume,
		JD:     payload.JD,
		Extras: payload.Extras,
	}
	report.Transcript = slotRef(rest, prefix+"_transcript")
	report.Feedback = slotRef(rest, prefix+"_feedback")
	report.Video = slotRef(rest, prefix+"_video")
	return report, nil
}

// slotRef decodes a stage-prefixed slot, treating JSON null and absent keys
// the same way.
func slotRef(rest map[string]json.RawMessage, key string) *domain.DocumentRef {
	raw, ok := rest[key]
	if !ok || string(raw) == "null" {
		return nil
	}
	var ref domain.DocumentRef
	if err := json.Unmarshal(raw, &ref); err != nil || ref.IsZero() {
		return nil
	}
	return &ref
}
