package convert

import "strings"

// SamplerMapping is the ComfyUI sampler/scheduler pair an A1111 sampler
// name translates to.
type SamplerMapping struct {
	Sampler   string `json:"sampler"`
	Scheduler string `json:"scheduler"`
}

// samplerTable maps A1111 sampler names to ComfyUI pairs. Entries are
// ordered most-specific first so that "dpm++ 2m karras" is matched before
// "dpm++ 2m" and the scheduler suffix is never lost.
var samplerTable = []struct {
	match   string
	mapping SamplerMapping
}{
	{"dpm++ 2m sde karras", SamplerMapping{"dpmpp_2m_sde", "karras"}},
	{"dpm++ 2m sde", SamplerMapping{"dpmpp_2m_sde", "normal"}},
	{"dpm++ 3m sde karras", SamplerMapping{"dpmpp_3m_sde", "karras"}},
	{"dpm++ 3m sde", SamplerMapping{"dpmpp_3m_sde", "normal"}},
	{"dpm++ 2m karras", SamplerMapping{"dpmpp_2m", "karras"}},
	{"dpm++ 2m", SamplerMapping{"dpmpp_2m", "normal"}},
	{"dpm++ sde karras", SamplerMapping{"dpmpp_sde", "karras"}},
	{"dpm++ sde", SamplerMapping{"dpmpp_sde", "normal"}},
	{"dpm++ 2s a karras", SamplerMapping{"dpmpp_2s_ancestral", "karras"}},
	{"dpm++ 2s a", SamplerMapping{"dpmpp_2s_ancestral", "normal"}},
	{"dpm2 a karras", SamplerMapping{"dpm_2_ancestral", "karras"}},
	{"dpm2 a", SamplerMapping{"dpm_2_ancestral", "normal"}},
	{"dpm2 karras", SamplerMapping{"dpm_2", "karras"}},
	{"dpm2", SamplerMapping{"dpm_2", "normal"}},
	{"dpm fast", SamplerMapping{"dpm_fast", "normal"}},
	{"dpm adaptive", SamplerMapping{"dpm_adaptive", "normal"}},
	{"lms karras", SamplerMapping{"lms", "karras"}},
	{"lms", SamplerMapping{"lms", "normal"}},
	{"euler a", SamplerMapping{"euler_ancestral", "normal"}},
	{"euler", SamplerMapping{"euler", "normal"}},
	{"heun", SamplerMapping{"heun", "normal"}},
	{"ddim", SamplerMapping{"ddim", "ddim_uniform"}},
	{"unipc", SamplerMapping{"uni_pc", "normal"}},
	{"lcm", SamplerMapping{"lcm", "normal"}},
}

var defaultMapping = SamplerMapping{Sampler: "euler", Scheduler: "normal"}

// ConvertSamplerName translates an A1111 sampler name to a ComfyUI
// sampler/scheduler pair by longest-specific-match lookup, falling back to
// euler/normal for unrecognized or empty names.
func ConvertSamplerName(name string) SamplerMapping {
	lowered := strings.ToLower(strings.TrimSpace(name))
	if lowered == "" {
		return defaultMapping
	}
	for _, entry := range samplerTable {
		if strings.Contains(lowered, entry.match) {
			return entry.mapping
		}
	}
	return defaultMapping
}
