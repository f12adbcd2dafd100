package graphapi

import (
	"sort"
	"strconv"
	"strings"
)

// SamplerSettings are the generation settings read off a sampler node.
// Pointer fields are nil when the node did not carry the value.
type SamplerSettings struct {
	Seed        *int64   `json:"seed,omitempty"`
	Steps       *int     `json:"steps,omitempty"`
	CFG         *float64 `json:"cfg,omitempty"`
	SamplerName string   `json:"sampler_name,omitempty"`
	Scheduler   string   `json:"scheduler,omitempty"`
	Denoise     *float64 `json:"denoise,omitempty"`
}

// PromptFragment is one piece of prompt text found in the workflow, with the
// polarity the link traversal assigned to it ("positive", "negative", or
// empty when the fragment could not be tied to a sampler input).
type PromptFragment struct {
	Text     string `json:"text"`
	Polarity string `json:"polarity,omitempty"`
}

// Analysis is the structured summary extracted from a workflow.
type Analysis struct {
	NodeTypes []string         `json:"node_types"`
	Prompts   []PromptFragment `json:"prompts,omitempty"`
	Positive  string           `json:"positive,omitempty"`
	Negative  string           `json:"negative,omitempty"`
	// Confident is set only when the positive/negative display distinction
	// is unambiguous under the pairing policy.
	Confident bool             `json:"confident"`
	LoRAs     []LoRAInfo       `json:"loras,omitempty"`
	Models    []string         `json:"models,omitempty"`
	Sampler   *SamplerSettings `json:"sampler,omitempty"`
}

// AnalyzeOptions tunes the prompt pairing policy. PairLimit is the maximum
// number of prompt fragments for which a confident positive/negative
// distinction is still asserted; zero means the default of 2.
type AnalyzeOptions struct {
	PairLimit int
}

const defaultPairLimit = 2

// Analyze walks the workflow in its canonical form and extracts node types,
// prompts with polarity, LoRA references, model names and sampler settings.
func Analyze(w *Workflow, opts AnalyzeOptions) *Analysis {
	pairLimit := opts.PairLimit
	if pairLimit <= 0 {
		pairLimit = defaultPairLimit
	}

	nodes := w.Canonical()
	ids := sortedNodeIDs(nodes)

	analysis := &Analysis{}
	for _, id := range ids {
		analysis.NodeTypes = append(analysis.NodeTypes, nodes[id].ClassType)
	}

	feedsPositive, feedsNegative := resolvePolarity(nodes, ids)

	for _, id := range ids {
		rec := nodes[id]
		if !isTextEncodeClass(rec.ClassType) {
			continue
		}
		text, ok := rec.Inputs["text"].(string)
		if !ok || strings.TrimSpace(text) == "" {
			continue
		}
		fragment := PromptFragment{Text: text}
		if feedsPositive[id] {
			fragment.Polarity = "positive"
		} else if feedsNegative[id] {
			fragment.Polarity = "negative"
		}
		analysis.Prompts = append(analysis.Prompts, fragment)
	}

	pairPrompts(analysis, pairLimit)

	analysis.LoRAs = collectLoRAs(nodes, ids)
	analysis.Models = collectModels(nodes, ids)
	analysis.Sampler = collectSampler(nodes, ids)

	return analysis
}

func sortedNodeIDs(nodes map[string]NodeRecord) []string {
	ids := make([]string, 0, len(nodes))
	for id := range nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, _ := strconv.Atoi(ids[i])
		b, _ := strconv.Atoi(ids[j])
		return a < b
	})
	return ids
}

func isSamplerClass(classType string) bool {
	return classType == "Sampler" || strings.Contains(classType, "Sampler")
}

func isTextEncodeClass(classType string) bool {
	switch {
	case strings.Contains(classType, "CLIPTextEncode"):
		return true
	case strings.Contains(classType, "TextEncode"):
		return true
	case classType == "Text Multiline":
		return true
	case classType == "easy showAnything":
		return true
	}
	return false
}

// resolvePolarity records, for every sampler-like node, which source nodes
// feed its positive and negative conditioning inputs.
func resolvePolarity(nodes map[string]NodeRecord, ids []string) (map[string]bool, map[string]bool) {
	feedsPositive := make(map[string]bool)
	feedsNegative := make(map[string]bool)
	for _, id := range ids {
		rec := nodes[id]
		if !isSamplerClass(rec.ClassType) {
			continue
		}
		if src, ok := edgeSource(rec.Inputs["positive"]); ok {
			feedsPositive[src] = true
		}
		if src, ok := edgeSource(rec.Inputs["negative"]); ok {
			feedsNegative[src] = true
		}
	}
	return feedsPositive, feedsNegative
}

// pairPrompts decides whether a confident positive/negative display
// distinction can be asserted: both polarities present, no more fragments
// than the pair limit, and the two texts actually differ. Anything else
// leaves the fragments undifferentiated for the caller to present as-is.
func pairPrompts(analysis *Analysis, pairLimit int) {
	var positive, negative string
	for _, f := range analysis.Prompts {
		switch f.Polarity {
		case "positive":
			if positive == "" {
				positive = f.Text
			}
		case "negative":
			if negative == "" {
				negative = f.Text
			}
		}
	}
	if positive == "" || negative == "" {
		return
	}
	if len(analysis.Prompts) > pairLimit {
		return
	}
	if positive == negative {
		return
	}
	analysis.Positive = positive
	analysis.Negative = negative
	analysis.Confident = true
}

// collectLoRAs recognizes the three independent LoRA shapes: Power Lora
// Loader multi-records, single loader nodes, and inline prompt tags.
func collectLoRAs(nodes map[string]NodeRecord, ids []string) []LoRAInfo {
	retv := make([]LoRAInfo, 0)
	for _, id := range ids {
		rec := nodes[id]

		if strings.Contains(rec.ClassType, "Power Lora Loader") {
			retv = append(retv, powerLoaderLoRAs(rec)...)
		} else if strings.Contains(rec.ClassType, "LoraLoader") {
			if name, ok := rec.Inputs["lora_name"].(string); ok && name != "" {
				strength := 1.0
				if v, ok := asFloat(rec.Inputs["strength_model"]); ok {
					strength = v
				} else if v, ok := asFloat(rec.Inputs["strength"]); ok {
					strength = v
				}
				retv = append(retv, LoRAInfo{
					Name:     BasenameOf(name),
					Strength: strength,
					Path:     BasenameOf(name) + ".safetensors",
				})
			}
		}

		// inline tags inside any text input
		for _, v := range rec.Inputs {
			if text, ok := v.(string); ok && strings.Contains(text, "<lora:") {
				retv = append(retv, ExtractLoRATags(text)...)
			}
		}
	}
	if len(retv) == 0 {
		return nil
	}
	return retv
}

// powerLoaderLoRAs reads the lora_* sub-records of a Power Lora Loader
// node, keeping only the enabled ones.
func powerLoaderLoRAs(rec NodeRecord) []LoRAInfo {
	keys := make([]string, 0)
	for k := range rec.Inputs {
		if strings.HasPrefix(k, "lora_") {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	retv := make([]LoRAInfo, 0, len(keys))
	for _, k := range keys {
		sub, ok := rec.Inputs[k].(map[string]interface{})
		if !ok {
			continue
		}
		if on, ok := sub["on"].(bool); !ok || !on {
			continue
		}
		name, ok := sub["lora"].(string)
		if !ok || name == "" {
			continue
		}
		strength := 1.0
		if v, ok := asFloat(sub["strength"]); ok {
			strength = v
		}
		retv = append(retv, LoRAInfo{
			Name:     BasenameOf(name),
			Strength: strength,
			Path:     BasenameOf(name) + ".safetensors",
		})
	}
	return retv
}

func collectModels(nodes map[string]NodeRecord, ids []string) []string {
	retv := make([]string, 0)
	seen := make(map[string]bool)
	for _, id := range ids {
		rec := nodes[id]
		if !strings.Contains(rec.ClassType, "Loader") && !strings.Contains(rec.ClassType, "Checkpoint") {
			continue
		}
		if strings.Contains(rec.ClassType, "LoraLoader") || strings.Contains(rec.ClassType, "Power Lora Loader") {
			continue
		}
		for _, key := range []string{"ckpt_name", "model_name", "model"} {
			name, ok := rec.Inputs[key].(string)
			if !ok || name == "" {
				continue
			}
			base := BasenameOf(name)
			if !seen[base] {
				seen[base] = true
				retv = append(retv, base)
			}
			break
		}
	}
	if len(retv) == 0 {
		return nil
	}
	return retv
}

// collectSampler reads generation settings off the first sampler-like node
// in id order.
func collectSampler(nodes map[string]NodeRecord, ids []string) *SamplerSettings {
	for _, id := range ids {
		rec := nodes[id]
		if !isSamplerClass(rec.ClassType) {
			continue
		}
		settings := &SamplerSettings{}
		if v, ok := asFloat(rec.Inputs["seed"]); ok {
			seed := int64(v)
			settings.Seed = &seed
		}
		if v, ok := asFloat(rec.Inputs["steps"]); ok {
			steps := int(v)
			settings.Steps = &steps
		}
		if v, ok := asFloat(rec.Inputs["cfg"]); ok {
			cfg := v
			settings.CFG = &cfg
		}
		if v, ok := rec.Inputs["sampler_name"].(string); ok {
			settings.SamplerName = v
		}
		if v, ok := rec.Inputs["scheduler"].(string); ok {
			settings.Scheduler = v
		}
		if v, ok := asFloat(rec.Inputs["denoise"]); ok {
			denoise := v
			settings.Denoise = &denoise
		}
		return settings
	}
	return nil
}

func asFloat(v interface{}) (float64, bool) {
	switch value := v.(type) {
	case float64:
		return value, true
	case int:
		return float64(value), true
	case int64:
		return float64(value), true
	}
	return 0, false
}
