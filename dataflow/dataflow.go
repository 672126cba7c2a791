// Package dataflow runs the live-variable and reaching-definitions
// fixed-point analyses over a cfg.CFG and derives the dead-store,
// unused-variable, uninitialized-use, and def-use-chain findings built on
// top of them (spec.md §4.G).
package dataflow

import "golang.org/x/tools/container/intsets"

// Options configures both analyses.
type Options struct {
	MaxIterations    int
	IgnoredVariables map[string]bool
}

// DefaultOptions returns the spec's default knobs: 1000 iterations, "_"
// ignored.
func DefaultOptions() Options {
	return Options{
		MaxIterations:    1000,
		IgnoredVariables: map[string]bool{"_": true},
	}
}

func (o Options) ignored(name string) bool {
	return o.IgnoredVariables != nil && o.IgnoredVariables[name]
}

func toNameSet(s *intsets.Sparse, names []string) map[string]struct{} {
	out := make(map[string]struct{})
	for x := s.Min(); x != intsets.MaxInt; x = s.Next(x) {
		out[names[x]] = struct{}{}
	}
	return out
}
