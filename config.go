package bregex

// Config controls compilation and execution behavior, grounded on
// meta/config.go's Config/DefaultConfig shape, reduced to the knobs
// this backtracking engine actually has.
//
// Example:
//
//	config := bregex.DefaultConfig()
//	config.MaxSteps = 1_000_000 // bound pathological backtracking
//	re, err := bregex.CompileWithConfig(`(a+)+b`, config)
type Config struct {
	// EnablePrefilter enables literal-based search acceleration of the
	// VM's unanchored restart step. When false, every restart offset
	// is tried by running the program directly.
	// Default: true
	EnablePrefilter bool

	// MinPrefilterLen is the minimum required-literal-prefix length
	// for the prefix prefilter to be used; shorter prefixes have too
	// many false positives to be worth the indirection.
	// Default: 1
	MinPrefilterLen int

	// MaxSteps bounds the number of VM op evaluations per Search call.
	// A Search that exceeds it returns ErrStepLimitExceeded instead of
	// running unbounded. 0 disables the bound.
	// Default: 0 (unbounded)
	MaxSteps int

	// Debug controls execution tracing.
	Debug DebugConfig
}

// DebugConfig toggles execution tracing, per-Match rather than
// stored on the Regex, so a Regex remains safe to use concurrently.
type DebugConfig struct {
	// Trace records every op the VM evaluates for a given Search call.
	// Retrieve it via (*Match).Trace().
	Trace bool
}

// DefaultConfig returns the default configuration for compilation.
//
// Example:
//
//	config := bregex.DefaultConfig()
//	config.EnablePrefilter = false
//	re, _ := bregex.CompileWithConfig(pattern, config)
func DefaultConfig() Config {
	return Config{
		EnablePrefilter: true,
		MinPrefilterLen: 1,
		MaxSteps:        0,
	}
}
