package extract

import (
	"testing"

	"github.com/halverson/comfyscan/containers"
	"github.com/halverson/comfyscan/graphapi"
)

const workflowJSON = `{"1":{"class_type":"KSampler","inputs":{"positive":["2",0]}},"2":{"class_type":"CLIPTextEncode","inputs":{"text":"hi"}}}`

func TestClassifyWorkflowWins(t *testing.T) {
	blobs := []containers.CandidateBlob{
		{Origin: "workflow", Text: workflowJSON},
		{Origin: "parameters", Text: "a prompt\nSteps: 20"},
	}
	result := classify(blobs, graphapi.DetectOptions{})
	if result.Kind() != "workflow" {
		t.Fatalf("Expected workflow, got %s", result.Kind())
	}
	// the first accepted candidate wins; parameters are never consulted
	if result.Parameters != nil {
		t.Error("Did not expect parameters alongside a workflow")
	}
	if string(result.Workflow) != workflowJSON {
		t.Error("Expected the workflow JSON preserved verbatim")
	}
}

func TestClassifyFallsThroughBadCandidate(t *testing.T) {
	blobs := []containers.CandidateBlob{
		{Origin: "Software", Text: "{broken json"},
		{Origin: "parameters", Text: "a prompt\nNegative prompt: bad\nSteps: 20"},
	}
	result := classify(blobs, graphapi.DetectOptions{})
	if result.Kind() != "parameters" {
		t.Fatalf("Expected fall-through to parameters, got %s", result.Kind())
	}
	if result.Parameters.NegativePrompt != "bad" {
		t.Errorf("Expected parsed negative prompt, got %q", result.Parameters.NegativePrompt)
	}
	if result.RawParameters == "" {
		t.Error("Expected the raw parameters text to be kept")
	}
}

func TestClassifyRejectsInvalidGraph(t *testing.T) {
	// the array shape parses but its only link points at a missing node,
	// so the candidate is rejected and the parameters blob wins
	dangling := `{"nodes": [{"id": 1, "type": "KSampler",
		"inputs": [{"name":"positive","type":"CONDITIONING","link":1}]}],
		"links": [[1, 99, 0, 1, 0, "CONDITIONING"]], "last_node_id": 1, "last_link_id": 1}`
	blobs := []containers.CandidateBlob{
		{Origin: "workflow", Text: dangling},
		{Origin: "parameters", Text: "a prompt\nSteps: 20"},
	}
	result := classify(blobs, graphapi.DetectOptions{})
	if result.Kind() != "parameters" {
		t.Fatalf("Expected fall-through past the invalid graph, got %s", result.Kind())
	}
}

func TestClassifyEmbeddedWorkflow(t *testing.T) {
	blobs := []containers.CandidateBlob{
		{Origin: "comment", Text: "generated with: " + workflowJSON + " enjoy"},
	}
	result := classify(blobs, graphapi.DetectOptions{})
	if result.Kind() != "workflow" {
		t.Fatalf("Expected embedded workflow to be found, got %s", result.Kind())
	}
	if string(result.Workflow) != workflowJSON {
		t.Errorf("Expected the embedded span only, got %s", result.Workflow)
	}
}

func TestClassifyMetadataAndComment(t *testing.T) {
	// JSON-ish but not a workflow: metadata
	result := classify([]containers.CandidateBlob{
		{Origin: "description", Text: `{"seed": 42, "note": "not a graph"}`},
	}, graphapi.DetectOptions{})
	if result.Kind() != "metadata" {
		t.Errorf("Expected metadata, got %s", result.Kind())
	}

	// opaque text in a comment field: user_comment
	result = classify([]containers.CandidateBlob{
		{Origin: "UserComment", Text: "shot on a phone"},
	}, graphapi.DetectOptions{})
	if result.Kind() != "user_comment" {
		t.Errorf("Expected user_comment, got %s", result.Kind())
	}

	// opaque text in a non-comment field: nothing found
	result = classify([]containers.CandidateBlob{
		{Origin: "Artist", Text: "Jane Doe"},
	}, graphapi.DetectOptions{})
	if !result.Empty() {
		t.Errorf("Expected empty result, got %s", result.Kind())
	}
}

func TestClassifyExhaustionIsEmpty(t *testing.T) {
	result := classify(nil, graphapi.DetectOptions{})
	if !result.Empty() {
		t.Errorf("Expected empty result for no candidates, got %s", result.Kind())
	}
	if result.Kind() != "none" {
		t.Errorf("Expected kind none, got %s", result.Kind())
	}
}

func TestSortByOrigin(t *testing.T) {
	blobs := []containers.CandidateBlob{
		{Origin: "parameters", Text: "p"},
		{Origin: "something", Text: "s"},
		{Origin: "workflow", Text: "w"},
		{Origin: "prompt", Text: "pr"},
	}
	sortByOrigin(blobs)
	want := []string{"workflow", "prompt", "parameters", "something"}
	for i, origin := range want {
		if blobs[i].Origin != origin {
			t.Errorf("Position %d: expected %s, got %s", i, origin, blobs[i].Origin)
		}
	}
}

func TestFromVideoTags(t *testing.T) {
	e := &Extractor{}
	result := e.FromVideoTags(map[string]string{"workflow": workflowJSON}, nil)
	if result.Kind() != "workflow" {
		t.Errorf("Expected workflow from container tags, got %s", result.Kind())
	}

	result = e.FromVideoTags(nil, []map[string]string{
		{"comment": "a prompt\nSteps: 15"},
	})
	if result.Kind() != "parameters" {
		t.Errorf("Expected parameters from stream tags, got %s", result.Kind())
	}
}
