// Package convert synthesizes a complete array-encoding ComfyUI workflow
// graph from a flat A1111 parameter record: correct node ids, slot
// bindings, and link table, ready for the workflow editor to load.
package convert

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/halverson/comfyscan/a1111"
	"github.com/halverson/comfyscan/graphapi"
)

// Options tune the synthesis.
type Options struct {
	// RemoveLoRATags strips inline <lora:...> tags from the positive
	// prompt text after the loader chain is built from them.
	RemoveLoRATags bool
	// DefaultModel is the checkpoint used when the record names none.
	DefaultModel string
	// DefaultSize is the WxH fallback when the record's size is missing or
	// unparsable.
	DefaultSize string
	// StartNodeID is the first node id assigned; zero means 1.
	StartNodeID int
}

// ConvertResult reports the outcome of a conversion. Conversion never
// fails the caller: on any internal error Success is false and Error holds
// the message.
type ConvertResult struct {
	Success  bool            `json:"success"`
	Error    string          `json:"error,omitempty"`
	Workflow *graphapi.Graph `json:"workflow,omitempty"`
}

const (
	fallbackModel = "v1-5-pruned-emaonly.safetensors"
	fallbackSize  = "512x512"
)

var sizePattern = regexp.MustCompile(`^(\d+)x(\d+)$`)

// ConvertA1111ToComfyUI builds the fixed txt2img pipeline from the record:
// checkpoint loader, chained LoRA loaders, two text encodes, empty latent,
// KSampler, the optional hi-res second pass, VAE decode and save.
func ConvertA1111ToComfyUI(params *a1111.Parameters, opts Options) (result ConvertResult) {
	defer func() {
		if r := recover(); r != nil {
			result = ConvertResult{Success: false, Error: fmt.Sprintf("workflow generation failed: %v", r)}
		}
	}()

	if params == nil {
		return ConvertResult{Success: false, Error: "no parameters to convert"}
	}

	b := newBuilder(opts.StartNodeID)

	model := params.Model
	if model == "" {
		model = opts.DefaultModel
	}
	if model == "" {
		model = fallbackModel
	}

	checkpoint := b.addNode("CheckpointLoaderSimple",
		[]interface{}{model},
		nil,
		[]slotSpec{{"MODEL", "MODEL"}, {"CLIP", "CLIP"}, {"VAE", "VAE"}})

	// chain LoRA loaders off the checkpoint, each consuming the previous
	// stage's MODEL and CLIP
	modelSource, modelSlot := checkpoint, 0
	clipSource, clipSlot := checkpoint, 1
	for _, lora := range graphapi.ExtractLoRATags(params.PositivePrompt) {
		loader := b.addNode("LoraLoader",
			[]interface{}{lora.Path, lora.Strength, lora.Strength},
			[]slotSpec{{"model", "MODEL"}, {"clip", "CLIP"}},
			[]slotSpec{{"MODEL", "MODEL"}, {"CLIP", "CLIP"}})
		b.connect(modelSource, modelSlot, loader, 0, "MODEL")
		b.connect(clipSource, clipSlot, loader, 1, "CLIP")
		modelSource, modelSlot = loader, 0
		clipSource, clipSlot = loader, 1
	}

	positiveText := params.PositivePrompt
	if opts.RemoveLoRATags {
		positiveText = graphapi.RemoveLoRATagsFromPrompt(positiveText)
	}

	positive := b.addNode("CLIPTextEncode",
		[]interface{}{positiveText},
		[]slotSpec{{"clip", "CLIP"}},
		[]slotSpec{{"CONDITIONING", "CONDITIONING"}})
	b.connect(clipSource, clipSlot, positive, 0, "CLIP")

	negative := b.addNode("CLIPTextEncode",
		[]interface{}{params.NegativePrompt},
		[]slotSpec{{"clip", "CLIP"}},
		[]slotSpec{{"CONDITIONING", "CONDITIONING"}})
	b.connect(clipSource, clipSlot, negative, 0, "CLIP")

	width, height := parseSize(params.Size, opts.DefaultSize)
	latent := b.addNode("EmptyLatentImage",
		[]interface{}{width, height, 1},
		nil,
		[]slotSpec{{"LATENT", "LATENT"}})

	seed := int64(0)
	if params.Seed != nil {
		seed = *params.Seed
	}
	steps := 20
	if params.Steps != nil {
		steps = *params.Steps
	}
	cfg := 7.0
	if params.CFG != nil {
		cfg = *params.CFG
	}
	mapping := ConvertSamplerName(params.Sampler)

	sampler := b.addNode("KSampler",
		[]interface{}{seed, "fixed", steps, cfg, mapping.Sampler, mapping.Scheduler, 1.0},
		[]slotSpec{{"model", "MODEL"}, {"positive", "CONDITIONING"}, {"negative", "CONDITIONING"}, {"latent_image", "LATENT"}},
		[]slotSpec{{"LATENT", "LATENT"}})
	b.connect(modelSource, modelSlot, sampler, 0, "MODEL")
	b.connect(positive, 0, sampler, 1, "CONDITIONING")
	b.connect(negative, 0, sampler, 2, "CONDITIONING")
	b.connect(latent, 0, sampler, 3, "LATENT")

	finalLatent := sampler
	if upscaler := params.Upscaler(); upscaler != nil {
		finalLatent = addHiresPass(b, hiresInputs{
			upscaler:    upscaler,
			checkpoint:  checkpoint,
			firstPass:   sampler,
			modelSource: modelSource,
			modelSlot:   modelSlot,
			positive:    positive,
			negative:    negative,
			seed:        seed,
			cfg:         cfg,
			mapping:     mapping,
		})
	}

	decode := b.addNode("VAEDecode",
		nil,
		[]slotSpec{{"samples", "LATENT"}, {"vae", "VAE"}},
		[]slotSpec{{"IMAGE", "IMAGE"}})
	b.connect(finalLatent, 0, decode, 0, "LATENT")
	b.connect(checkpoint, 2, decode, 1, "VAE")

	save := b.addNode("SaveImage",
		[]interface{}{"ComfyUI"},
		[]slotSpec{{"images", "IMAGE"}},
		nil)
	b.connect(decode, 0, save, 0, "IMAGE")

	return ConvertResult{Success: true, Workflow: b.build()}
}

type hiresInputs struct {
	upscaler    *a1111.UpscalerInfo
	checkpoint  *graphapi.GraphNode
	firstPass   *graphapi.GraphNode
	modelSource *graphapi.GraphNode
	modelSlot   int
	positive    *graphapi.GraphNode
	negative    *graphapi.GraphNode
	seed        int64
	cfg         float64
	mapping     SamplerMapping
}

// addHiresPass appends the second generation pass: decode the first pass,
// upscale the pixels with the named model, re-encode, and resample at the
// upscaler's denoising strength with the seed, CFG and sampler reused. Returns
// the node whose LATENT output feeds the final decode.
func addHiresPass(b *builder, in hiresInputs) *graphapi.GraphNode {
	upscaleModel := b.addNode("UpscaleModelLoader",
		[]interface{}{in.upscaler.Model},
		nil,
		[]slotSpec{{"UPSCALE_MODEL", "UPSCALE_MODEL"}})

	firstDecode := b.addNode("VAEDecode",
		nil,
		[]slotSpec{{"samples", "LATENT"}, {"vae", "VAE"}},
		[]slotSpec{{"IMAGE", "IMAGE"}})
	b.connect(in.firstPass, 0, firstDecode, 0, "LATENT")
	b.connect(in.checkpoint, 2, firstDecode, 1, "VAE")

	upscale := b.addNode("ImageUpscaleWithModel",
		nil,
		[]slotSpec{{"upscale_model", "UPSCALE_MODEL"}, {"image", "IMAGE"}},
		[]slotSpec{{"IMAGE", "IMAGE"}})
	b.connect(upscaleModel, 0, upscale, 0, "UPSCALE_MODEL")
	b.connect(firstDecode, 0, upscale, 1, "IMAGE")

	encode := b.addNode("VAEEncode",
		nil,
		[]slotSpec{{"pixels", "IMAGE"}, {"vae", "VAE"}},
		[]slotSpec{{"LATENT", "LATENT"}})
	b.connect(upscale, 0, encode, 0, "IMAGE")
	b.connect(in.checkpoint, 2, encode, 1, "VAE")

	steps := in.upscaler.Steps
	if steps <= 0 {
		steps = 12
	}
	second := b.addNode("KSampler",
		[]interface{}{in.seed, "fixed", steps, in.cfg, in.mapping.Sampler, in.mapping.Scheduler, in.upscaler.Denoising},
		[]slotSpec{{"model", "MODEL"}, {"positive", "CONDITIONING"}, {"negative", "CONDITIONING"}, {"latent_image", "LATENT"}},
		[]slotSpec{{"LATENT", "LATENT"}})
	b.connect(in.modelSource, in.modelSlot, second, 0, "MODEL")
	b.connect(in.positive, 0, second, 1, "CONDITIONING")
	b.connect(in.negative, 0, second, 2, "CONDITIONING")
	b.connect(encode, 0, second, 3, "LATENT")

	return second
}

// parseSize extracts width and height from a WxH string, consulting the
// configured default and then 512x512 when the value is missing or
// unparsable.
func parseSize(size, fallback string) (int, int) {
	for _, candidate := range []string{size, fallback, fallbackSize} {
		m := sizePattern.FindStringSubmatch(candidate)
		if m == nil {
			continue
		}
		w, errW := strconv.Atoi(m[1])
		h, errH := strconv.Atoi(m[2])
		if errW != nil || errH != nil {
			continue
		}
		return w, h
	}
	return 512, 512
}
