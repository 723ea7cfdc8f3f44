package tracing

import (
	"fmt"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Sampling strategies determine which traces are recorded and exported.
const (
	// SamplerAlways samples all traces
	SamplerAlways = "always"

	// SamplerNever samples no traces
	SamplerNever = "never"

	// SamplerRatio samples a fraction of root traces by trace ID
	SamplerRatio = "ratio"

	// SamplerParentBased follows the caller's decision and samples a
	// fraction of root traces
	SamplerParentBased = "parent_based"
)

// createSampler creates a sampler based on the strategy and ratio.
//
// always, never and ratio ignore the parent's decision. parent_based keeps
// traces that arrive with a sampled traceparent header, drops those that
// arrive unsampled, and applies the ratio to traces quarry starts itself:
//
//	telemetry:
//	  tracing:
//	    sampler: parent_based
//	    sample_ratio: 0.1
func createSampler(strategy string, ratio float64) (sdktrace.Sampler, error) {
	if strategy == SamplerRatio || strategy == SamplerParentBased {
		if ratio < 0.0 || ratio > 1.0 {
			return nil, fmt.Errorf("sample ratio must be between 0.0 and 1.0, got %f", ratio)
		}
	}

	switch strategy {
	case SamplerAlways:
		return sdktrace.AlwaysSample(), nil
	case SamplerNever:
		return sdktrace.NeverSample(), nil
	case SamplerRatio:
		return sdktrace.TraceIDRatioBased(ratio), nil
	case SamplerParentBased, "":
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio)), nil
	default:
		return nil, fmt.Errorf("unknown sampler strategy: %s (valid: always, never, ratio, parent_based)", strategy)
	}
}
