package containers

import (
	"sort"
	"strings"
)

// videoTagKeys is the fixed candidate key list probed in video tag maps.
// The lookup is case-insensitive, so the two comfyui spellings document the
// forms seen in the wild rather than changing behavior.
var videoTagKeys = []string{
	"comment",
	"description",
	"metadata",
	"workflow",
	"comfyui",
	"ComfyUI",
}

// VideoBlobs probes a video container's tag dictionaries, as supplied by
// the external probe collaborator: the container-level tags first, then
// each stream's tags. Every candidate key that is present contributes one
// blob, container before streams, key-list order within each map.
func VideoBlobs(formatTags map[string]string, streamTags []map[string]string) []CandidateBlob {
	retv := make([]CandidateBlob, 0)
	retv = append(retv, tagBlobs(formatTags)...)
	for _, tags := range streamTags {
		retv = append(retv, tagBlobs(tags)...)
	}
	return retv
}

func tagBlobs(tags map[string]string) []CandidateBlob {
	if len(tags) == 0 {
		return nil
	}
	retv := make([]CandidateBlob, 0)
	seen := make(map[string]bool)
	for _, candidate := range videoTagKeys {
		key, value, ok := lookupFold(tags, candidate)
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}
		if seen[strings.ToLower(key)] {
			continue
		}
		seen[strings.ToLower(key)] = true
		retv = append(retv, CandidateBlob{Origin: key, Text: value})
	}
	return retv
}

// lookupFold is an explicit case-insensitive lookup: the first actual key
// (in sorted order, for determinism) that folds equal to the candidate
// wins.
func lookupFold(tags map[string]string, candidate string) (string, string, bool) {
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if strings.EqualFold(k, candidate) {
			return k, tags[k], true
		}
	}
	return "", "", false
}
