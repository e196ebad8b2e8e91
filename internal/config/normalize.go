// internal/config/normalize.go
package config

import "github.com/tamzrod/outboard-coupler/internal/policy"

const (
	defaultArtifactMode = "append"
	defaultTimeoutMs    = 1000
	defaultPollMs       = 200
)

// Normalize applies post-validation defaults.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}
	o := &cfg.Outboard

	if o.Artifact.Mode == "" {
		o.Artifact.Mode = defaultArtifactMode
	}
	if o.Host.Kind == "" {
		o.Host.Kind = HostStream
	}

	// ---- stream host ----
	if o.Host.Stream.Input == "" {
		o.Host.Stream.Input = "-"
	}
	if o.Host.Stream.Status == "" {
		o.Host.Stream.Status = "-"
	}

	// ---- modbus host ----
	if o.Host.Modbus.TimeoutMs <= 0 {
		o.Host.Modbus.TimeoutMs = defaultTimeoutMs
	}
	if o.Host.Modbus.PollMs <= 0 {
		o.Host.Modbus.PollMs = defaultPollMs
	}

	// ---- policy ----
	def := policy.DefaultConfig()
	if len(o.Policy.Wells) == 0 {
		o.Policy.Wells = def.Wells
	}
	setDefault(&o.Policy.GORLimit, def.GORLimit)
	setDefault(&o.Policy.STOLimit, def.STOLimit)
	setDefault(&o.Policy.ChokeFactor, def.ChokeFactor)
	setDefault(&o.Policy.BHPCap, def.BHPCap)
}

func setDefault(p **float64, v float64) {
	if *p == nil {
		*p = &v
	}
}

// Resolve converts policy settings, filling unset thresholds with defaults.
func (p PolicyConfig) Resolve() policy.Config {
	out := policy.DefaultConfig()
	if len(p.Wells) > 0 {
		out.Wells = p.Wells
	}
	if p.GORLimit != nil {
		out.GORLimit = *p.GORLimit
	}
	if p.STOLimit != nil {
		out.STOLimit = *p.STOLimit
	}
	if p.ChokeFactor != nil {
		out.ChokeFactor = *p.ChokeFactor
	}
	if p.BHPCap != nil {
		out.BHPCap = *p.BHPCap
	}
	return out
}
