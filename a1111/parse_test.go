package a1111

import (
	"testing"
)

func TestParseBothMarkers(t *testing.T) {
	text := "a beautiful landscape\nNegative prompt: blurry, ugly\nSteps: 20, Sampler: Euler a, CFG scale: 7, Seed: 12345, Size: 512x768, Model: dreamshaper_8"
	p, err := Parse(text)
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	if p.PositivePrompt != "a beautiful landscape" {
		t.Errorf("Expected positive prompt, got %q", p.PositivePrompt)
	}
	// no marker text may leak into the value
	if p.NegativePrompt != "blurry, ugly" {
		t.Errorf("Expected negative prompt strictly between markers, got %q", p.NegativePrompt)
	}
	if p.Steps == nil || *p.Steps != 20 {
		t.Errorf("Expected steps 20, got %v", p.Steps)
	}
	if p.CFG == nil || *p.CFG != 7 {
		t.Errorf("Expected cfg 7, got %v", p.CFG)
	}
	if p.Sampler != "Euler a" {
		t.Errorf("Expected sampler 'Euler a', got %q", p.Sampler)
	}
	if p.Seed == nil || *p.Seed != 12345 {
		t.Errorf("Expected seed 12345, got %v", p.Seed)
	}
	if p.Size != "512x768" {
		t.Errorf("Expected size 512x768, got %q", p.Size)
	}
	if p.Model != "dreamshaper_8" {
		t.Errorf("Expected model dreamshaper_8, got %q", p.Model)
	}
}

func TestParseOnlyNegativeMarker(t *testing.T) {
	p, err := Parse("good stuff\nNegative prompt: bad stuff")
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	if p.PositivePrompt != "good stuff" {
		t.Errorf("Expected 'good stuff', got %q", p.PositivePrompt)
	}
	if p.NegativePrompt != "bad stuff" {
		t.Errorf("Expected 'bad stuff', got %q", p.NegativePrompt)
	}
}

func TestParseOnlyParameterMarker(t *testing.T) {
	p, err := Parse("just a prompt\nSteps: 25, Seed: 1")
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	if p.PositivePrompt != "just a prompt" {
		t.Errorf("Expected 'just a prompt', got %q", p.PositivePrompt)
	}
	if p.NegativePrompt != "" {
		t.Errorf("Expected no negative prompt, got %q", p.NegativePrompt)
	}
}

func TestParseNoMarkers(t *testing.T) {
	p, err := Parse("  only a prompt here  ")
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	if p.PositivePrompt != "only a prompt here" {
		t.Errorf("Expected whole trimmed text as positive, got %q", p.PositivePrompt)
	}
}

func TestParseLowercaseMarkers(t *testing.T) {
	p, err := Parse("pos\nnegative prompt: neg\nSteps: 10")
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	if p.NegativePrompt != "neg" {
		t.Errorf("Expected lowercase marker to be honored, got %q", p.NegativePrompt)
	}
}

func TestParseEmptyInput(t *testing.T) {
	if _, err := Parse("   "); err == nil {
		t.Error("Expected an error for whitespace-only input")
	}
	if _, err := Parse(""); err == nil {
		t.Error("Expected an error for empty input")
	}
}

func TestExtractGenerationSettingsMalformedNumber(t *testing.T) {
	p := &Parameters{}
	ExtractGenerationSettings("Steps: abc, CFG scale: xyz, Seed: 12", p)
	// malformed numerics leave the field absent, never NaN or zero
	if p.Steps != nil {
		t.Errorf("Expected steps to be absent, got %v", *p.Steps)
	}
	if p.CFG != nil {
		t.Errorf("Expected cfg to be absent, got %v", *p.CFG)
	}
	if p.Seed == nil || *p.Seed != 12 {
		t.Errorf("Expected seed 12, got %v", p.Seed)
	}
}

func TestExtractGenerationSettingsHires(t *testing.T) {
	p := &Parameters{}
	ExtractGenerationSettings("Hires upscale: 2, Hires upscaler: ESRGAN_4x, Hires steps: 12, Hires denoising: 0.4, Restore faces", p)
	if !p.HiresFix {
		t.Error("Expected hires_fix to be set by the Hires upscale marker")
	}
	if p.HiresUpscaler != "ESRGAN_4x" {
		t.Errorf("Expected upscaler ESRGAN_4x, got %q", p.HiresUpscaler)
	}
	if p.HiresSteps == nil || *p.HiresSteps != 12 {
		t.Errorf("Expected hires steps 12, got %v", p.HiresSteps)
	}
	if p.HiresDenoising == nil || *p.HiresDenoising != 0.4 {
		t.Errorf("Expected hires denoising 0.4, got %v", p.HiresDenoising)
	}
	if !p.RestoreFaces {
		t.Error("Expected restore_faces to be set")
	}
}

func TestUpscalerInfo(t *testing.T) {
	p := &Parameters{HiresFix: true, HiresUpscaler: "ESRGAN_4x"}
	steps := 30
	p.Steps = &steps
	info := p.Upscaler()
	if info == nil {
		t.Fatal("Expected upscaler info when hires_fix is set")
	}
	if info.Model != "ESRGAN_4x" {
		t.Errorf("Expected model ESRGAN_4x, got %q", info.Model)
	}
	if info.Steps != 30 {
		t.Errorf("Expected steps to fall back to the record's steps, got %d", info.Steps)
	}

	if (&Parameters{}).Upscaler() != nil {
		t.Error("Expected no upscaler info without hires_fix")
	}
}

func TestHasMarkers(t *testing.T) {
	if !HasMarkers("x\nNegative prompt: y") {
		t.Error("Expected negative marker to be recognized")
	}
	if !HasMarkers("x, Steps: 20") {
		t.Error("Expected parameter marker to be recognized")
	}
	if HasMarkers("an ordinary sentence") {
		t.Error("Did not expect markers in plain text")
	}
}
