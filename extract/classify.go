package extract

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/halverson/comfyscan/a1111"
	"github.com/halverson/comfyscan/containers"
	"github.com/halverson/comfyscan/graphapi"
	"github.com/halverson/comfyscan/textscan"
)

// metadataKeywords mark text that is generation-related even when it is
// neither a workflow nor a parseable parameters record.
var metadataKeywords = []string{
	"comfyui",
	"workflow",
	"prompt",
	"sampler",
	"seed",
	"checkpoint",
}

// classify applies the heuristics to candidate blobs in order and returns
// the first accepted result; later candidates are never consulted once one
// is accepted. A failure on one candidate (bad JSON, rejected workflow
// shape) falls through to the next; exhaustion yields the empty result.
func classify(blobs []containers.CandidateBlob, detect graphapi.DetectOptions) Result {
	for _, blob := range blobs {
		if result, ok := classifyBlob(blob, detect); ok {
			return result
		}
	}
	return Result{}
}

func classifyBlob(blob containers.CandidateBlob, detect graphapi.DetectOptions) (Result, bool) {
	text := strings.TrimSpace(blob.Text)
	if text == "" {
		return Result{}, false
	}

	// a workflow parsed from the whole blob, or from a JSON object embedded
	// in surrounding prose
	if graphapi.IsWorkflowJSON(text, detect) {
		return Result{Workflow: []byte(text)}, true
	}
	if embedded := textscan.FindJSONObject(text); embedded != "" && embedded != text {
		if graphapi.IsWorkflowJSON(embedded, detect) {
			return Result{Workflow: []byte(embedded)}, true
		}
	}

	// A1111 parameter record
	if a1111.HasMarkers(text) {
		params, err := a1111.Parse(text)
		if err == nil {
			return Result{Parameters: params, RawParameters: text}, true
		}
	}

	// JSON-ish or keyword-bearing text that failed the stricter checks. A
	// shape that carries a nodes array was tried as a workflow above and
	// failed structural validation; it falls through so a later candidate
	// can still win.
	if textscan.LooksLikeJSON(text) {
		if rejectedGraphShape(text) {
			return Result{}, false
		}
		return Result{Metadata: text}, true
	}
	if hasMetadataKeyword(text) {
		return Result{Metadata: text}, true
	}

	// opaque comment fields are reported as-is; other origins fall through
	if strings.Contains(strings.ToLower(blob.Origin), "comment") {
		return Result{UserComment: text}, true
	}

	return Result{}, false
}

// rejectedGraphShape reports whether text is a JSON object carrying a
// nodes array, the array-encoding shape that the workflow recognizer has
// already declined by the time this runs.
func rejectedGraphShape(text string) bool {
	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return false
	}
	_, ok := obj["nodes"].([]interface{})
	return ok
}

func hasMetadataKeyword(text string) bool {
	lowered := strings.ToLower(text)
	for _, kw := range metadataKeywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}

// originPriority orders PNG chunk keywords most-likely-relevant first:
// ComfyUI's own chunks, then the A1111 parameters chunk, then everything
// else in file order.
var originPriority = map[string]int{
	"workflow":      0,
	"prompt":        1,
	"extra_pnginfo": 2,
	"parameters":    3,
}

func sortByOrigin(blobs []containers.CandidateBlob) {
	sort.SliceStable(blobs, func(i, j int) bool {
		return originRank(blobs[i].Origin) < originRank(blobs[j].Origin)
	})
}

func originRank(origin string) int {
	if rank, ok := originPriority[strings.ToLower(origin)]; ok {
		return rank
	}
	return len(originPriority)
}
