// Package a1111 parses the free-form "parameters" text that A1111-style
// tools write into image metadata: positive prompt lines, an optional
// negative prompt, and a trailing comma-separated settings line.
package a1111

// Parameters is the structured record recovered from one parameters blob.
// PositivePrompt is always present; every other field is populated only
// when its marker was found and, for numerics, only when the matched
// substring parsed cleanly.
type Parameters struct {
	PositivePrompt string   `json:"positive_prompt"`
	NegativePrompt string   `json:"negative_prompt,omitempty"`
	Steps          *int     `json:"steps,omitempty"`
	CFG            *float64 `json:"cfg,omitempty"`
	Sampler        string   `json:"sampler,omitempty"`
	Seed           *int64   `json:"seed,omitempty"`
	Model          string   `json:"model,omitempty"`
	Size           string   `json:"size,omitempty"`
	Denoise        *float64 `json:"denoise,omitempty"`
	ClipSkip       *int     `json:"clip_skip,omitempty"`
	ENSD           *int64   `json:"ensd,omitempty"`
	HiresFix       bool     `json:"hires_fix,omitempty"`
	HiresUpscaler  string   `json:"hires_upscaler,omitempty"`
	HiresSteps     *int     `json:"hires_steps,omitempty"`
	HiresDenoising *float64 `json:"hires_denoising,omitempty"`
	RestoreFaces   bool     `json:"restore_faces,omitempty"`
	RawText        string   `json:"raw_text,omitempty"`
}

// Upscaler returns the hi-res-fix settings, present only when the record
// has hi-res fix enabled.
func (p *Parameters) Upscaler() *UpscalerInfo {
	if !p.HiresFix {
		return nil
	}
	info := &UpscalerInfo{Model: p.HiresUpscaler, Scale: 2.0}
	if p.HiresSteps != nil {
		info.Steps = *p.HiresSteps
	} else if p.Steps != nil {
		info.Steps = *p.Steps
	}
	if p.HiresDenoising != nil {
		info.Denoising = *p.HiresDenoising
	} else if p.Denoise != nil {
		info.Denoising = *p.Denoise
	} else {
		info.Denoising = 0.7
	}
	return info
}

// UpscalerInfo describes the second, hi-res generation pass.
type UpscalerInfo struct {
	Model     string  `json:"model"`
	Steps     int     `json:"steps"`
	Denoising float64 `json:"denoising"`
	Scale     float64 `json:"scale"`
}
