package graphapi

import (
	"encoding/json"
	"strconv"
)

// NodeRecord is the canonical (map encoding) form of one workflow node:
// a class type plus named inputs, where an input value is either a literal
// or a [sourceNodeID, sourceSlot] pair.
type NodeRecord struct {
	ClassType string                 `json:"class_type"`
	Inputs    map[string]interface{} `json:"inputs"`
}

// Workflow holds one recognized workflow in whichever encoding it arrived.
// Map is populated for the map encoding, Graph for the array encoding;
// Canonical always yields map-encoding records regardless of source.
type Workflow struct {
	Map   map[string]NodeRecord
	Graph *Graph
}

// IsArrayEncoding reports whether the workflow arrived in the array encoding.
func (w *Workflow) IsArrayEncoding() bool {
	return w.Graph != nil
}

// DetectOptions controls how strict the recognizer is. In strict mode a
// map-encoding candidate needs more than one node, which weeds out
// incidental JSON objects that happen to carry a single class_type field.
type DetectOptions struct {
	Strict bool
}

// DetectWorkflowJSON parses text and recognizes either workflow encoding,
// including the wrapper fields (workflow/prompt/extra_pnginfo) some tools
// write around the graph. Returns nil when the text is not a workflow.
func DetectWorkflowJSON(text string, opts DetectOptions) *Workflow {
	var v interface{}
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil
	}
	return detectValue(v, opts, 0)
}

// wrapper fields are unwrapped at most a few levels deep; a workflow
// wrapped in a workflow is nonsense, but extra_pnginfo.workflow is real.
const maxUnwrapDepth = 3

func detectValue(v interface{}, opts DetectOptions, depth int) *Workflow {
	switch value := v.(type) {
	case map[string]interface{}:
		if wf := detectObject(value, opts, depth); wf != nil {
			return wf
		}
	case []interface{}:
		if wf := detectBareArray(value); wf != nil {
			return wf
		}
	}
	return nil
}

func detectObject(obj map[string]interface{}, opts DetectOptions, depth int) *Workflow {
	// array encoding: a nodes array where at least one element carries an
	// id and a string type
	if nodes, ok := obj["nodes"].([]interface{}); ok {
		if hasArrayEncodedNode(nodes) {
			data, err := json.Marshal(obj)
			if err != nil {
				return nil
			}
			graph, err := NewGraphFromJSON(data)
			if err != nil {
				return nil
			}
			// a graph whose links reference missing nodes only looks like a
			// workflow; reject it so the caller can try other candidates
			if err := graph.Validate(); err != nil {
				return nil
			}
			return &Workflow{Graph: graph}
		}
		return nil
	}

	// map encoding: decimal-string keys whose values carry class_type
	if records, ok := detectMapEncoding(obj, opts); ok {
		return &Workflow{Map: records}
	}

	// wrapper fields written around the graph
	if depth < maxUnwrapDepth {
		for _, key := range []string{"workflow", "prompt", "extra_pnginfo"} {
			if inner, ok := obj[key]; ok {
				if wf := detectValue(inner, opts, depth+1); wf != nil {
					return wf
				}
			}
		}
	}
	return nil
}

func hasArrayEncodedNode(nodes []interface{}) bool {
	for _, n := range nodes {
		node, ok := n.(map[string]interface{})
		if !ok {
			continue
		}
		_, hasID := node["id"]
		_, typeIsString := node["type"].(string)
		if hasID && typeIsString {
			return true
		}
	}
	return false
}

func detectMapEncoding(obj map[string]interface{}, opts DetectOptions) (map[string]NodeRecord, bool) {
	records := make(map[string]NodeRecord)
	for key, val := range obj {
		if _, err := strconv.Atoi(key); err != nil {
			continue
		}
		node, ok := val.(map[string]interface{})
		if !ok {
			continue
		}
		classType, ok := node["class_type"].(string)
		if !ok || classType == "" {
			continue
		}
		inputs, _ := node["inputs"].(map[string]interface{})
		records[key] = NodeRecord{ClassType: classType, Inputs: inputs}
	}

	minimum := 1
	if opts.Strict {
		minimum = 2
	}
	if len(records) < minimum {
		return nil, false
	}
	return records, true
}

// detectBareArray recognizes a bare array of class_type-bearing objects,
// assigning array indexes as node ids.
func detectBareArray(arr []interface{}) *Workflow {
	if len(arr) == 0 {
		return nil
	}
	records := make(map[string]NodeRecord, len(arr))
	for i, v := range arr {
		node, ok := v.(map[string]interface{})
		if !ok {
			return nil
		}
		classType, ok := node["class_type"].(string)
		if !ok || classType == "" {
			return nil
		}
		inputs, _ := node["inputs"].(map[string]interface{})
		records[strconv.Itoa(i)] = NodeRecord{ClassType: classType, Inputs: inputs}
	}
	return &Workflow{Map: records}
}

// IsWorkflowJSON reports whether text parses as either workflow encoding.
func IsWorkflowJSON(text string, opts DetectOptions) bool {
	return DetectWorkflowJSON(text, opts) != nil
}
