package core

// SourceUnit is the per-source-file record of spec §3/§4.5. Its commands
// are resolved once at construction time (part of the pure target-graph
// construction of §4.4); NeedsRebuild, CompilationFailed, DepfileFailed and
// CompileReport are mutated only by the worker pool during a build.
type SourceUnit struct {
	Source     string
	ObjectFile string
	DepFile    string

	CompileCommand []string
	DepfileCommand []string

	NeedsRebuild      bool
	CompilationFailed bool
	DepfileFailed     bool
	CompileReport     string
}

// Name returns the source's full path, used in progress reporting.
func (s *SourceUnit) Name() string { return s.Source }
