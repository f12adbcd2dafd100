package a1111

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

var ErrEmptyInput = errors.New("a1111: empty input text")

// negativeMarkers are distinct literal markers, not one case-insensitive
// search: the exact spellings seen in the wild, tried as written.
var negativeMarkers = []string{
	"Negative prompt:",
	"Negative:",
	"negative prompt:",
	"negative:",
}

// parameterMarkers begin the trailing settings line.
var parameterMarkers = []string{
	"Steps:",
	"Sampler:",
	"CFG scale:",
	"Size:",
	"Seed:",
	"Model:",
}

// Parse splits one parameters blob into positive prompt, negative prompt
// and generation settings. Empty or whitespace-only input is an error; any
// internal failure past that degrades to a record holding the whole text
// as the positive prompt.
func Parse(text string) (params *Parameters, err error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}

	defer func() {
		if r := recover(); r != nil {
			params = &Parameters{PositivePrompt: strings.TrimSpace(text), RawText: text}
			err = nil
		}
	}()

	params = splitPrompts(text)
	params.RawText = text
	ExtractGenerationSettings(text, params)
	return params, nil
}

// splitPrompts implements the four-case marker split.
func splitPrompts(text string) *Parameters {
	negIdx, negMarker := earliestMarker(text, negativeMarkers)
	paramIdx, _ := earliestMarker(text, parameterMarkers)

	p := &Parameters{}
	switch {
	case negIdx >= 0 && paramIdx >= 0:
		p.PositivePrompt = strings.TrimSpace(text[:negIdx])
		negStart := negIdx + len(negMarker)
		if paramIdx > negStart {
			p.NegativePrompt = strings.TrimSpace(text[negStart:paramIdx])
		}
	case negIdx >= 0:
		p.PositivePrompt = strings.TrimSpace(text[:negIdx])
		p.NegativePrompt = strings.TrimSpace(text[negIdx+len(negMarker):])
	case paramIdx >= 0:
		p.PositivePrompt = strings.TrimSpace(text[:paramIdx])
	default:
		p.PositivePrompt = strings.TrimSpace(text)
	}
	return p
}

// earliestMarker returns the position and spelling of the first marker
// occurrence, or -1 when none is present. On a position tie the longer
// marker wins, so a long spelling is never half-consumed by a shorter one.
func earliestMarker(text string, markers []string) (int, string) {
	best := -1
	bestMarker := ""
	for _, m := range markers {
		idx := strings.Index(text, m)
		if idx == -1 {
			continue
		}
		if best == -1 || idx < best || (idx == best && len(m) > len(bestMarker)) {
			best = idx
			bestMarker = m
		}
	}
	return best, bestMarker
}

var (
	stepsRe          = regexp.MustCompile(`(?i)Steps:\s*(\d+)`)
	cfgRe            = regexp.MustCompile(`(?i)CFG scale:\s*([\d.]+)`)
	samplerRe        = regexp.MustCompile(`(?i)Sampler:\s*([^,\n]+)`)
	seedRe           = regexp.MustCompile(`(?i)Seed:\s*(\d+)`)
	modelRe          = regexp.MustCompile(`(?i)Model:\s*([^,\n]+)`)
	sizeRe           = regexp.MustCompile(`(?i)Size:\s*(\d+x\d+)`)
	denoiseRe        = regexp.MustCompile(`(?i)Denoising strength:\s*([\d.]+)`)
	clipSkipRe       = regexp.MustCompile(`(?i)Clip skip:\s*(\d+)`)
	ensdRe           = regexp.MustCompile(`(?i)ENSD:\s*(\d+)`)
	hiresUpscalerRe  = regexp.MustCompile(`(?i)Hires upscaler:\s*([^,\n]+)`)
	hiresStepsRe     = regexp.MustCompile(`(?i)Hires steps:\s*(\d+)`)
	hiresDenoisingRe = regexp.MustCompile(`(?i)Hires denoising:\s*([\d.]+)`)
)

// ExtractGenerationSettings applies the settings pattern table to text and
// fills the matching fields of params. Numeric fields stay absent when the
// matched substring fails to parse as a number.
func ExtractGenerationSettings(text string, params *Parameters) {
	if v, ok := matchInt(stepsRe, text); ok {
		params.Steps = &v
	}
	if v, ok := matchFloat(cfgRe, text); ok {
		params.CFG = &v
	}
	if v, ok := matchString(samplerRe, text); ok {
		params.Sampler = v
	}
	if v, ok := matchInt64(seedRe, text); ok {
		params.Seed = &v
	}
	if v, ok := matchString(modelRe, text); ok {
		params.Model = v
	}
	if v, ok := matchString(sizeRe, text); ok {
		params.Size = v
	}
	if v, ok := matchFloat(denoiseRe, text); ok {
		params.Denoise = &v
	}
	if v, ok := matchInt(clipSkipRe, text); ok {
		params.ClipSkip = &v
	}
	if v, ok := matchInt64(ensdRe, text); ok {
		params.ENSD = &v
	}
	if v, ok := matchString(hiresUpscalerRe, text); ok {
		params.HiresUpscaler = v
	}
	if v, ok := matchInt(hiresStepsRe, text); ok {
		params.HiresSteps = &v
	}
	if v, ok := matchFloat(hiresDenoisingRe, text); ok {
		params.HiresDenoising = &v
	}
	if strings.Contains(text, "Hires upscale:") {
		params.HiresFix = true
	}
	if strings.Contains(text, "Restore faces") {
		params.RestoreFaces = true
	}
}

// HasMarkers reports whether text carries any recognized prompt or
// settings marker, which is the classifier's cue that a blob is an A1111
// parameters record rather than opaque text.
func HasMarkers(text string) bool {
	if idx, _ := earliestMarker(text, negativeMarkers); idx >= 0 {
		return true
	}
	if idx, _ := earliestMarker(text, parameterMarkers); idx >= 0 {
		return true
	}
	return false
}

func matchString(re *regexp.Regexp, text string) (string, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	v := strings.TrimSpace(m[1])
	return v, v != ""
}

func matchInt(re *regexp.Regexp, text string) (int, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return v, true
}

func matchInt64(re *regexp.Regexp, text string) (int64, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func matchFloat(re *regexp.Regexp, text string) (float64, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
