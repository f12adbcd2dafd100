// Package extract classifies the candidate blobs the container locators
// find and yields one typed extraction result per file: a workflow graph,
// an A1111 parameter record, loose metadata text, or an opaque user
// comment.
package extract

import (
	"encoding/json"

	"github.com/halverson/comfyscan/a1111"
)

// Result is a tagged union: exactly one of the fields is populated, or none
// when nothing was recognized. The workflow is kept as the raw JSON it was
// found as, so serializing a Result loses nothing.
type Result struct {
	Workflow      json.RawMessage   `json:"workflow,omitempty"`
	Parameters    *a1111.Parameters `json:"parameters,omitempty"`
	RawParameters string            `json:"raw_parameters,omitempty"`
	Metadata      string            `json:"metadata,omitempty"`
	UserComment   string            `json:"user_comment,omitempty"`
}

// Empty reports whether nothing was recognized.
func (r Result) Empty() bool {
	return r.Workflow == nil && r.Parameters == nil && r.Metadata == "" && r.UserComment == ""
}

// Kind names the populated arm, for display and logging.
func (r Result) Kind() string {
	switch {
	case r.Workflow != nil:
		return "workflow"
	case r.Parameters != nil:
		return "parameters"
	case r.Metadata != "":
		return "metadata"
	case r.UserComment != "":
		return "user_comment"
	}
	return "none"
}
