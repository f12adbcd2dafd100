package graphapi

import (
	"regexp"
	"strconv"
	"strings"
)

// LoRAInfo is one LoRA reference recovered from a prompt tag or loader node.
// Path is derived from the name, never checked against the filesystem.
type LoRAInfo struct {
	Name     string  `json:"name"`
	Strength float64 `json:"strength"`
	Path     string  `json:"path"`
}

var loraTagPattern = regexp.MustCompile(`<lora:([^:>]+)(?::(-?[0-9.]+))?>`)
var whitespaceRun = regexp.MustCompile(`\s+`)

// ExtractLoRATags finds all inline <lora:name:strength> tags in a prompt.
// A missing strength defaults to 1.0.
func ExtractLoRATags(prompt string) []LoRAInfo {
	matches := loraTagPattern.FindAllStringSubmatch(prompt, -1)
	retv := make([]LoRAInfo, 0, len(matches))
	for _, m := range matches {
		strength := 1.0
		if m[2] != "" {
			if parsed, err := strconv.ParseFloat(m[2], 64); err == nil {
				strength = parsed
			}
		}
		name := m[1]
		retv = append(retv, LoRAInfo{
			Name:     name,
			Strength: strength,
			Path:     name + ".safetensors",
		})
	}
	return retv
}

// RemoveLoRATagsFromPrompt strips inline LoRA tags and collapses the
// whitespace left behind to single spaces.
func RemoveLoRATagsFromPrompt(prompt string) string {
	cleaned := loraTagPattern.ReplaceAllString(prompt, "")
	cleaned = whitespaceRun.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

// BasenameOf strips any path separators from a model reference, leaving the
// bare file name.
func BasenameOf(name string) string {
	if idx := strings.LastIndexAny(name, "/\\"); idx != -1 {
		return name[idx+1:]
	}
	return name
}
