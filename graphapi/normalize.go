package graphapi

import (
	"strconv"
)

// widgetOrder maps node types to the input names their widgets_values
// entries correspond to, in widget order. For widgets whose slot is taken
// by an interleaved control widget (control_after_generate directly after a
// seed widget), the placeholder "" skips the value.
var widgetOrder = map[string][]string{
	"KSampler":               {"seed", "", "steps", "cfg", "sampler_name", "scheduler", "denoise"},
	"KSamplerAdvanced":       {"add_noise", "noise_seed", "", "steps", "cfg", "sampler_name", "scheduler", "start_at_step", "end_at_step", "return_with_leftover_noise"},
	"CLIPTextEncode":         {"text"},
	"CheckpointLoaderSimple": {"ckpt_name"},
	"LoraLoader":             {"lora_name", "strength_model", "strength_clip"},
	"EmptyLatentImage":       {"width", "height", "batch_size"},
	"SaveImage":              {"filename_prefix"},
	"UpscaleModelLoader":     {"model_name"},
	"VAELoader":              {"vae_name"},
	"LatentUpscale":          {"upscale_method", "width", "height", "crop"},
	"ImageScaleBy":           {"upscale_method", "scale_by"},
}

// Canonical reduces the workflow to map-encoding node records. Map-encoded
// workflows are returned as-is. Array-encoded nodes are rebuilt from their
// widgets_values via the per-type widget table, and connected inputs are
// resolved through the link table into [sourceNodeID, sourceSlot] pairs, so
// downstream analysis only ever sees one shape.
func (w *Workflow) Canonical() map[string]NodeRecord {
	if w.Map != nil {
		return w.Map
	}
	if w.Graph == nil {
		return nil
	}

	records := make(map[string]NodeRecord, len(w.Graph.Nodes))
	for _, node := range w.Graph.Nodes {
		rec := NodeRecord{
			ClassType: node.Type,
			Inputs:    make(map[string]interface{}),
		}

		if names, ok := widgetOrder[node.Type]; ok {
			for i, name := range names {
				if name == "" || i >= len(node.WidgetValues) {
					continue
				}
				rec.Inputs[name] = node.WidgetValues[i]
			}
		} else if len(node.WidgetValues) == 1 {
			// single-widget text nodes (Text Multiline and friends) carry
			// their value as the only widget
			if s, ok := node.WidgetValues[0].(string); ok {
				rec.Inputs["text"] = s
			}
		}

		// connected inputs become [sourceNodeID, sourceSlot] pairs via the
		// link table, matching the map encoding's inline edge shape
		for _, slot := range node.Inputs {
			if slot.Link == 0 {
				continue
			}
			link := w.Graph.GetLinkById(slot.Link)
			if link == nil {
				continue
			}
			rec.Inputs[slot.Name] = []interface{}{
				strconv.Itoa(link.OriginID),
				float64(link.OriginSlot),
			}
		}

		records[strconv.Itoa(node.ID)] = rec
	}
	return records
}

// edgeSource extracts the source node id from an input value when the value
// is an inline [sourceNodeID, sourceSlot] edge. The id may be encoded as a
// string (map encoding) or a number (some emitters).
func edgeSource(v interface{}) (string, bool) {
	pair, ok := v.([]interface{})
	if !ok || len(pair) < 2 {
		return "", false
	}
	switch id := pair[0].(type) {
	case string:
		return id, true
	case float64:
		return strconv.Itoa(int(id)), true
	}
	return "", false
}
