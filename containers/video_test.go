package containers

import (
	"testing"
)

func TestVideoBlobsContainerBeforeStreams(t *testing.T) {
	blobs := VideoBlobs(
		map[string]string{"Comment": "container comment"},
		[]map[string]string{
			{"description": "stream description"},
		},
	)
	if len(blobs) != 2 {
		t.Fatalf("Expected 2 blobs, got %d", len(blobs))
	}
	if blobs[0].Text != "container comment" {
		t.Errorf("Expected container tags first, got %q", blobs[0].Text)
	}
	if blobs[0].Origin != "Comment" {
		t.Errorf("Expected the actual key spelling to be preserved, got %q", blobs[0].Origin)
	}
	if blobs[1].Text != "stream description" {
		t.Errorf("Expected stream tag second, got %q", blobs[1].Text)
	}
}

func TestVideoBlobsCaseInsensitiveLookup(t *testing.T) {
	blobs := VideoBlobs(map[string]string{"WORKFLOW": `{"1":{"class_type":"KSampler"}}`}, nil)
	if len(blobs) != 1 {
		t.Fatalf("Expected 1 blob, got %d", len(blobs))
	}
	if blobs[0].Origin != "WORKFLOW" {
		t.Errorf("Expected origin 'WORKFLOW', got %q", blobs[0].Origin)
	}
}

func TestVideoBlobsKeyListOrder(t *testing.T) {
	// comment precedes workflow in the candidate key list regardless of
	// map iteration order
	blobs := VideoBlobs(map[string]string{
		"workflow": "wf",
		"comment":  "cm",
	}, nil)
	if len(blobs) != 2 {
		t.Fatalf("Expected 2 blobs, got %d", len(blobs))
	}
	if blobs[0].Text != "cm" || blobs[1].Text != "wf" {
		t.Errorf("Expected key-list order comment,workflow; got %v", blobs)
	}
}

func TestVideoBlobsSkipsEmptyValues(t *testing.T) {
	blobs := VideoBlobs(map[string]string{"comment": "   "}, nil)
	if len(blobs) != 0 {
		t.Errorf("Expected whitespace-only tag to be skipped, got %v", blobs)
	}
}
