// Package config holds the configurable knobs recognized by the core engine.
//
// Mirrors the teacher's plain-struct-plus-defaults style (graph.Config,
// info.Config) rather than binding to flags or environment variables —
// surfacing those is left to the caller.
package config

import "gopkg.in/yaml.v3"

// Options collects every knob named in spec.md §6. Field tags allow an
// Options value to be loaded from a YAML config file; any field a document
// omits keeps whatever DefaultOptions populated it with.
type Options struct {
	// Clone-detection knobs.
	ShingleSize       int     `yaml:"shingleSize"`       // window width in tokens (default 5)
	NumHashes         int     `yaml:"numHashes"`         // signature dimension (default 128)
	MinimumSimilarity float64 `yaml:"minimumSimilarity"` // Jaccard threshold used to derive (b, r)
	ProbesPerBand     int     `yaml:"probesPerBand"`     // multi-probe LSH aggressiveness
	VerifyWithExact   bool    `yaml:"verifyWithExact"`   // compute exact Jaccard before emitting clone pairs
	MinimumTokens     int     `yaml:"minimumTokens"`     // clone block size
	Seed              uint64  `yaml:"seed"`              // deterministic MinHash seed (default 42)

	// Root-set policy (unused-code reachability).
	TreatPublicAsRoot                      bool `yaml:"treatPublicAsRoot"`
	TreatObjcAsRoot                        bool `yaml:"treatObjcAsRoot"`
	TreatTestsAsRoot                       bool `yaml:"treatTestsAsRoot"`
	TreatUIFrameworkViewsAsRoot             bool `yaml:"treatUIFrameworkViewsAsRoot"`
	TreatUIFrameworkPropertyWrappersAsRoot  bool `yaml:"treatUIFrameworkPropertyWrappersAsRoot"`
	TreatPreviewProvidersAsRoot             bool `yaml:"treatPreviewProvidersAsRoot"`

	// BFS tuning.
	Alpha           int `yaml:"alpha"`           // default 14, clamped 1..100
	Beta            int `yaml:"beta"`            // default 24, clamped 1..100
	MinParallelSize int `yaml:"minParallelSize"` // default 1000
	MaxConcurrency  int `yaml:"maxConcurrency"`  // default = logical CPUs, clamped 1..CPU count

	// Data-flow tuning.
	MaxIterations    int      `yaml:"maxIterations"`    // fixed-point cap, default 1000
	IgnoredVariables []string `yaml:"ignoredVariables"` // names excluded from liveness, default {"_"}
}

// DefaultOptions returns the option set documented in spec.md §6.
func DefaultOptions() *Options {
	return &Options{
		ShingleSize:       5,
		NumHashes:         128,
		MinimumSimilarity: 0.8,
		ProbesPerBand:     2,
		VerifyWithExact:   true,
		MinimumTokens:     50,
		Seed:              42,

		TreatPublicAsRoot:           true,
		TreatObjcAsRoot:             true,
		TreatTestsAsRoot:            true,
		TreatUIFrameworkViewsAsRoot: true,
		TreatUIFrameworkPropertyWrappersAsRoot: true,
		TreatPreviewProvidersAsRoot: true,

		Alpha:           14,
		Beta:            24,
		MinParallelSize: 1000,
		MaxConcurrency:  0, // resolved to runtime.NumCPU() by callers when 0

		MaxIterations:    1000,
		IgnoredVariables: []string{"_"},
	}
}

// Clamp normalizes out-of-range values to the bounds spec.md §4.I prescribes.
func (o *Options) Clamp(cpuCount int) {
	if o.Alpha < 1 {
		o.Alpha = 1
	} else if o.Alpha > 100 {
		o.Alpha = 100
	}
	if o.Beta < 1 {
		o.Beta = 1
	} else if o.Beta > 100 {
		o.Beta = 100
	}
	if o.MinParallelSize < 0 {
		o.MinParallelSize = 0
	}
	if o.MaxConcurrency <= 0 {
		o.MaxConcurrency = cpuCount
	}
	if o.MaxConcurrency < 1 {
		o.MaxConcurrency = 1
	}
	if o.MaxConcurrency > cpuCount && cpuCount > 0 {
		o.MaxConcurrency = cpuCount
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = 1000
	}
}

// IgnoresVariable reports whether name is excluded from data-flow tracking.
func (o *Options) IgnoresVariable(name string) bool {
	for _, n := range o.IgnoredVariables {
		if n == name {
			return true
		}
	}
	return false
}

// Load parses a YAML document into an Options value seeded with
// DefaultOptions, so a config file only needs to name the knobs it wants to
// override.
func Load(data []byte) (*Options, error) {
	opts := DefaultOptions()
	if err := yaml.Unmarshal(data, opts); err != nil {
		return nil, err
	}
	return opts, nil
}

// Marshal renders o back to YAML, e.g. for writing out an effective config
// after Clamp has normalized it.
func (o *Options) Marshal() ([]byte, error) {
	return yaml.Marshal(o)
}
