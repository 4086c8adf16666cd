package domain

import "time"

// TemplateVersion is a recorded rendering of a stack template.
// Used as an audit trail of what was generated, and to detect unchanged output.
type TemplateVersion struct {
	ID            string    `json:"id" db:"id"`
	StackName     string    `json:"stack_name" db:"stack_name"`
	VersionNumber int       `json:"version_number" db:"version_number"`
	Format        string    `json:"format" db:"format"`
	Digest        string    `json:"digest" db:"digest"`
	Rendered      string    `json:"rendered,omitempty" db:"rendered"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// Synth statuses.
const (
	SynthStatusCreated   = "created"
	SynthStatusUnchanged = "unchanged"
	SynthStatusRestored  = "restored"
)

// SynthResult is returned after a synth run.
type SynthResult struct {
	StackName     string `json:"stack_name"`
	VersionID     string `json:"version_id"`
	VersionNumber int    `json:"version_number"`
	Digest        string `json:"digest"`
	Status        string `json:"status"`
	Path          string `json:"path,omitempty"`
}

// SynthRequest is used to trigger a synth run over HTTP.
type SynthRequest struct {
	Variants []string `json:"variants,omitempty"`
	Format   string   `json:"format,omitempty"`
}
