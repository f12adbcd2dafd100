package convert

import (
	"encoding/json"
	"testing"

	"github.com/halverson/comfyscan/a1111"
	"github.com/halverson/comfyscan/graphapi"
)

func countTypes(g *graphapi.Graph) map[string]int {
	counts := make(map[string]int)
	for _, n := range g.Nodes {
		counts[n.Type]++
	}
	return counts
}

func TestConvertBasicPipeline(t *testing.T) {
	steps := 20
	params := &a1111.Parameters{PositivePrompt: "test", Steps: &steps}

	result := ConvertA1111ToComfyUI(params, Options{})
	if !result.Success {
		t.Fatalf("Expected success, got error: %s", result.Error)
	}
	g := result.Workflow

	if g.LastNodeID != len(g.Nodes) {
		t.Errorf("Expected last_node_id %d to equal node count %d", g.LastNodeID, len(g.Nodes))
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Expected a structurally valid graph: %v", err)
	}

	want := []string{"CheckpointLoaderSimple", "CLIPTextEncode", "CLIPTextEncode", "EmptyLatentImage", "KSampler", "VAEDecode", "SaveImage"}
	got := g.NodeTypeSequence()
	if len(got) != len(want) {
		t.Fatalf("Expected %d nodes, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Node %d: expected %s, got %s", i, want[i], got[i])
		}
	}

	counts := countTypes(g)
	if counts["LoraLoader"] != 0 {
		t.Error("Did not expect LoraLoader nodes")
	}
	if counts["UpscaleModelLoader"] != 0 {
		t.Error("Did not expect upscaler nodes")
	}

	if g.UID == "" {
		t.Error("Expected a uuid workflow id")
	}
	if g.Version != 0.4 {
		t.Errorf("Expected version 0.4, got %v", g.Version)
	}

	// every node carries the editor's property triple
	for _, n := range g.Nodes {
		if n.Properties["cnr_id"] != "comfy-core" {
			t.Errorf("Node %d missing cnr_id", n.ID)
		}
		if n.Properties["Node name for S&R"] != n.Type {
			t.Errorf("Node %d missing S&R name", n.ID)
		}
	}
}

func TestConvertHiresPass(t *testing.T) {
	params := &a1111.Parameters{
		PositivePrompt: "test",
		HiresFix:       true,
		HiresUpscaler:  "ESRGAN_4x",
	}
	result := ConvertA1111ToComfyUI(params, Options{})
	if !result.Success {
		t.Fatalf("Expected success, got error: %s", result.Error)
	}
	g := result.Workflow
	if err := g.Validate(); err != nil {
		t.Errorf("Expected a structurally valid graph: %v", err)
	}

	counts := countTypes(g)
	if counts["KSampler"] != 2 {
		t.Errorf("Expected exactly two KSampler nodes, got %d", counts["KSampler"])
	}
	if counts["UpscaleModelLoader"] != 1 {
		t.Errorf("Expected one UpscaleModelLoader, got %d", counts["UpscaleModelLoader"])
	}
	if counts["ImageUpscaleWithModel"] != 1 {
		t.Errorf("Expected one ImageUpscaleWithModel, got %d", counts["ImageUpscaleWithModel"])
	}
	if counts["VAEEncode"] != 1 {
		t.Errorf("Expected one VAEEncode for the second pass, got %d", counts["VAEEncode"])
	}
	if counts["VAEDecode"] != 2 {
		t.Errorf("Expected two VAEDecode nodes, got %d", counts["VAEDecode"])
	}

	loader := g.GetNodesWithType("UpscaleModelLoader")[0]
	if loader.WidgetValues[0] != "ESRGAN_4x" {
		t.Errorf("Expected upscaler model ESRGAN_4x, got %v", loader.WidgetValues[0])
	}
}

func TestConvertHiresPassReusesSettings(t *testing.T) {
	cfg := 4.5
	seed := int64(99)
	params := &a1111.Parameters{
		PositivePrompt: "test",
		CFG:            &cfg,
		Seed:           &seed,
		Sampler:        "DPM++ 2M Karras",
		HiresFix:       true,
		HiresUpscaler:  "ESRGAN_4x",
	}
	result := ConvertA1111ToComfyUI(params, Options{})
	if !result.Success {
		t.Fatalf("Expected success, got error: %s", result.Error)
	}

	samplers := result.Workflow.GetNodesWithType("KSampler")
	if len(samplers) != 2 {
		t.Fatalf("Expected two KSampler nodes, got %d", len(samplers))
	}
	// both passes belong to one generation: seed, cfg and sampler agree
	for i, s := range samplers {
		if s.WidgetValues[0] != seed {
			t.Errorf("Sampler %d: expected seed %d, got %v", i, seed, s.WidgetValues[0])
		}
		if s.WidgetValues[3] != cfg {
			t.Errorf("Sampler %d: expected cfg %v, got %v", i, cfg, s.WidgetValues[3])
		}
		if s.WidgetValues[4] != "dpmpp_2m" || s.WidgetValues[5] != "karras" {
			t.Errorf("Sampler %d: expected dpmpp_2m/karras, got %v/%v", i, s.WidgetValues[4], s.WidgetValues[5])
		}
	}
}

func TestConvertLoRAChain(t *testing.T) {
	params := &a1111.Parameters{PositivePrompt: "a castle <lora:style1:0.8> <lora:glow:0.5>"}
	result := ConvertA1111ToComfyUI(params, Options{RemoveLoRATags: true})
	if !result.Success {
		t.Fatalf("Expected success, got error: %s", result.Error)
	}
	g := result.Workflow
	if err := g.Validate(); err != nil {
		t.Errorf("Expected a structurally valid graph: %v", err)
	}

	loaders := g.GetNodesWithType("LoraLoader")
	if len(loaders) != 2 {
		t.Fatalf("Expected 2 chained LoraLoaders, got %d", len(loaders))
	}
	if loaders[0].WidgetValues[0] != "style1.safetensors" {
		t.Errorf("Expected first loader for style1, got %v", loaders[0].WidgetValues[0])
	}

	// the second loader's model input must come from the first loader
	second := loaders[1]
	origin := second.GetNodeForInputNamed("model")
	if origin == nil || origin.ID != loaders[0].ID {
		t.Errorf("Expected chained model input, got %v", origin)
	}

	// positive prompt text is stripped of tags
	encodes := g.GetNodesWithType("CLIPTextEncode")
	if len(encodes) != 2 {
		t.Fatalf("Expected 2 text encodes, got %d", len(encodes))
	}
	if encodes[0].WidgetValues[0] != "a castle" {
		t.Errorf("Expected stripped positive text, got %v", encodes[0].WidgetValues[0])
	}
}

func TestConvertSizeHandling(t *testing.T) {
	params := &a1111.Parameters{PositivePrompt: "test", Size: "640x960"}
	result := ConvertA1111ToComfyUI(params, Options{})
	if !result.Success {
		t.Fatalf("Expected success, got error: %s", result.Error)
	}
	latent := result.Workflow.GetNodesWithType("EmptyLatentImage")[0]
	if latent.WidgetValues[0] != 640 || latent.WidgetValues[1] != 960 {
		t.Errorf("Expected 640x960 latent, got %v", latent.WidgetValues)
	}

	// unparsable size falls back to 512x512
	params.Size = "garbage"
	result = ConvertA1111ToComfyUI(params, Options{})
	latent = result.Workflow.GetNodesWithType("EmptyLatentImage")[0]
	if latent.WidgetValues[0] != 512 || latent.WidgetValues[1] != 512 {
		t.Errorf("Expected 512x512 fallback, got %v", latent.WidgetValues)
	}
}

func TestConvertNilParameters(t *testing.T) {
	result := ConvertA1111ToComfyUI(nil, Options{})
	if result.Success {
		t.Error("Expected failure for nil parameters")
	}
	if result.Error == "" {
		t.Error("Expected an error message")
	}
}

func TestConvertStartNodeID(t *testing.T) {
	params := &a1111.Parameters{PositivePrompt: "test"}
	result := ConvertA1111ToComfyUI(params, Options{StartNodeID: 10})
	if !result.Success {
		t.Fatalf("Expected success, got error: %s", result.Error)
	}
	g := result.Workflow
	if g.Nodes[0].ID != 10 {
		t.Errorf("Expected first node id 10, got %d", g.Nodes[0].ID)
	}
	if g.LastNodeID != 10+len(g.Nodes)-1 {
		t.Errorf("Expected last_node_id %d, got %d", 10+len(g.Nodes)-1, g.LastNodeID)
	}
}

// A synthesized workflow fed back through detection and analysis must keep
// its node type sequence and resolve its own links.
func TestConvertAnalyzeRoundtrip(t *testing.T) {
	seed := int64(1234)
	params := &a1111.Parameters{
		PositivePrompt: "a cat",
		NegativePrompt: "blurry",
		Seed:           &seed,
		Sampler:        "DPM++ 2M Karras",
	}
	result := ConvertA1111ToComfyUI(params, Options{})
	if !result.Success {
		t.Fatalf("Expected success, got error: %s", result.Error)
	}

	encoded, err := json.Marshal(result.Workflow)
	if err != nil {
		t.Fatalf("Failed to marshal workflow: %v", err)
	}
	wf := graphapi.DetectWorkflowJSON(string(encoded), graphapi.DetectOptions{})
	if wf == nil {
		t.Fatal("Expected the synthesized workflow to be recognized")
	}
	if !wf.IsArrayEncoding() {
		t.Fatal("Expected array encoding")
	}
	if err := wf.Graph.Validate(); err != nil {
		t.Errorf("Expected link endpoints to stay valid: %v", err)
	}

	analysis := graphapi.Analyze(wf, graphapi.AnalyzeOptions{})
	if !analysis.Confident {
		t.Fatal("Expected a confident prompt pair from the synthesized graph")
	}
	if analysis.Positive != "a cat" || analysis.Negative != "blurry" {
		t.Errorf("Expected a cat/blurry, got %q/%q", analysis.Positive, analysis.Negative)
	}
	if analysis.Sampler == nil || analysis.Sampler.Seed == nil || *analysis.Sampler.Seed != 1234 {
		t.Errorf("Expected seed 1234 recovered, got %+v", analysis.Sampler)
	}
	if analysis.Sampler.SamplerName != "dpmpp_2m" || analysis.Sampler.Scheduler != "karras" {
		t.Errorf("Expected dpmpp_2m/karras recovered, got %+v", analysis.Sampler)
	}
}
