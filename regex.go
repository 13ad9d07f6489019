// Package bregex provides a small, explicitly backtracking regular
// expression engine for a restricted byte-oriented pattern dialect:
// literals, `.`, `\d\D\s\S\w\W`, `[...]` classes with ranges and
// negation, `(...)` capturing groups, `|` alternation, `?`, `*`, `+`
// and their lazy `?`-suffixed forms, and `$` end-of-input. It does not
// support Unicode, lookaround, named groups, backreferences, {n,m}
// counters, or POSIX classes.
//
// Basic usage:
//
//	re, err := bregex.Compile(`\d+`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	match := re.Find([]byte("age: 42"))
//	fmt.Println(string(match)) // "42"
package bregex

import (
	"errors"

	"github.com/bregex/bregex/internal/ast"
	"github.com/bregex/bregex/internal/compiler"
	"github.com/bregex/bregex/internal/literal"
	"github.com/bregex/bregex/internal/prefilter"
	"github.com/bregex/bregex/internal/vm"
)

// Regex represents a compiled regular expression. A Regex is safe to
// use concurrently from multiple goroutines: it holds no execution
// state, only the immutable compiled program.
type Regex struct {
	pattern string
	prog    *compiler.Program
	pf      prefilter.Prefilter
	config  Config
}

// Compile compiles a pattern with the default configuration.
//
// Example:
//
//	re, err := bregex.Compile(`[a-z]+@[a-z]+\.[a-z]+`)
func Compile(pattern string) (*Regex, error) {
	return CompileWithConfig(pattern, DefaultConfig())
}

// MustCompile compiles a pattern and panics if it fails. Useful for
// patterns known to be valid at init time.
//
// Example:
//
//	var wordRE = bregex.MustCompile(`\w+`)
func MustCompile(pattern string) *Regex {
	re, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return re
}

// CompileWithConfig compiles a pattern with a custom Config.
func CompileWithConfig(pattern string, config Config) (*Regex, error) {
	arena, root, numGroups, err := ast.Parse([]byte(pattern))
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}

	prog := compiler.Compile(arena, root, numGroups)

	var pf prefilter.Prefilter
	if config.EnablePrefilter {
		pf = buildPrefilter(arena, root, config)
	}

	return &Regex{
		pattern: pattern,
		prog:    prog,
		pf:      pf,
		config:  config,
	}, nil
}

// buildPrefilter picks a restart accelerator for the VM's unanchored
// search, preferring a required literal prefix (the common case) and
// falling back to an Aho-Corasick automaton over a top-level literal
// alternation, mirroring meta.buildStrategyEngines's literal-first,
// Aho-Corasick-fallback ordering.
func buildPrefilter(arena *ast.Arena, root int, config Config) prefilter.Prefilter {
	if prefix, _ := literal.ExtractPrefix(arena, root); len(prefix) >= config.MinPrefilterLen && len(prefix) > 0 {
		if pf, ok := prefilter.NewPrefix(prefix); ok {
			return pf
		}
	}
	if lits, ok := literal.AlternationLiterals(arena, root); ok {
		if pf, ok := prefilter.NewAlternation(lits); ok {
			return pf
		}
	}
	return nil
}

// String returns the source pattern used to compile the Regex.
func (r *Regex) String() string {
	return r.pattern
}

// NumSubexp returns the number of explicit capture groups. Group 0 is
// always the whole match and is not counted.
func (r *Regex) NumSubexp() int {
	return r.prog.NumGroups
}

func (r *Regex) newVM() *vm.VM {
	return vm.New(r.prog, r.config.MaxSteps)
}

// search runs the VM, using the prefilter (if any) to skip ahead to
// candidate restart offsets before falling back to the VM's own
// unanchored restart for the span between candidates.
func (r *Regex) search(haystack []byte, from int) (*vm.Result, []vm.TraceEntry, error) {
	m := r.newVM()
	if r.pf == nil {
		res, trail, err := m.SearchTraced(haystack, from, false, r.config.Debug.Trace)
		return res, trail, mapVMError(err)
	}

	pos := from
	for {
		candidate, ok := r.pf.NextCandidate(haystack, pos)
		if !ok {
			return nil, nil, nil
		}
		res, trail, err := m.SearchTraced(haystack, candidate, true, r.config.Debug.Trace)
		if err != nil {
			return nil, trail, mapVMError(err)
		}
		if res != nil {
			return res, trail, nil
		}
		pos = candidate + 1
		if pos > len(haystack) {
			return nil, nil, nil
		}
	}
}

// mapVMError translates internal/vm's sentinel to the package-level
// one so callers can compare against bregex.ErrStepLimitExceeded
// without reaching into an internal package.
func mapVMError(err error) error {
	if errors.Is(err, vm.ErrStepLimitExceeded) {
		return ErrStepLimitExceeded
	}
	return err
}

// Match reports whether b contains any match of the pattern.
func (r *Regex) Match(b []byte) bool {
	return r.MatchAt(b, 0)
}

// MatchAt reports whether b contains a match starting at or after
// from.
func (r *Regex) MatchAt(b []byte, from int) bool {
	res, _, err := r.search(b, from)
	return err == nil && res != nil
}

// MatchString reports whether s contains any match of the pattern.
func (r *Regex) MatchString(s string) bool {
	return r.Match([]byte(s))
}
