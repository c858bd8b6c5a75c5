package domain

import "strings"

// DocumentRef points at a stored document in the candidate's folder.
// The ID is opaque to the pipeline; only the document store interprets it.
type DocumentRef struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MimeType string `json:"mimeType,omitempty"`
}

// IsZero reports whether the reference is empty (slot unfilled).
func (r DocumentRef) IsZero() bool { return r.ID == "" && r.Name == "" }

// CandidateRecord identifies one candidate under evaluation.
// Records are created when first discovered in a stage's intake area and are
// only ever relocated, never deleted. The router mutates stage/location;
// the memory layer mutates history.
type CandidateRecord struct {
	// FolderID is the opaque storage id of the candidate's folder.
	FolderID string `json:"folder_id" validate:"required"`

	// Name is the display name, normally the folder name.
	Name string `json:"name" validate:"required"`

	// Role the candidate is being evaluated for.
	Role string `json:"role" validate:"required"`

	// Stage the record currently sits in.
	Stage Stage `json:"stage" validate:"required"`
}

// NormalizationReport maps artifact slots to canonical documents for one
// candidate. Produced by the external normalizer; consumed read-only by the
// artifact gate and the evaluation requester. At most one canonical document
// fills each slot; duplicates are demoted to Extras.
type NormalizationReport struct {
	Resume     *DocumentRef `json:"resume"`
	JD         *DocumentRef `json:"jd"`
	Transcript *DocumentRef `json:"transcript"`
	Feedback   *DocumentRef `json:"feedback"`
	Video      *DocumentRef `json:"video"`

	Extras []DocumentRef `json:"extras,omitempty"`
}

// HasAnyMaterial reports whether at least one of the core evaluation inputs
// (resume, job description, transcript) exists. When none do, the candidate
// is skipped rather than held.
func (r *NormalizationReport) HasAnyMaterial() bool {
	return r.Resume != nil || r.JD != nil || r.Transcript != nil
}

// NormalizeKey lowercases and slugs a candidate or role name for use as a
// storage key. Keyed upserts (final decisions, role profiles) must agree on
// this normalization across writers.
func NormalizeKey(name string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(name)))
	return strings.Join(fields, "-")
}
