package core

// Base compile flags, applied exactly once during Compilable construction.
// Design Note 3: the source project re-applied DEFAULT_COMPILE_FLAGS a
// second time when building each SourceUnit's compile command; cbuild adds
// them here, only, and SourceUnit's command is built from the already
// merged compile_flags.
var (
	defaultCompileFlags                = []string{"-Wall", "-Wextra", "-Wpedantic", "-Werror"}
	defaultCompileFlagsRelease         = []string{"-O3", "-DNDEBUG"}
	defaultCompileFlagsDebug           = []string{"-O0", "-g3", "-DDEBUG"}
	defaultCompileFlagsRelWithDebInfo  = []string{"-O3", "-g3", "-DNDEBUG"}
	defaultCompileFlagsCoverage        = append(append([]string{}, defaultCompileFlagsDebug...), "--coverage", "-fno-inline")
)

// baseFlagsFor returns the unconditional + build-type-specific base compile
// flags for the given build type, per spec §4.3.
func baseFlagsFor(buildType BuildType) []string {
	flags := append([]string{}, defaultCompileFlags...)
	switch buildType {
	case Debug:
		flags = append(flags, defaultCompileFlagsDebug...)
	case RelWithDebInfo:
		flags = append(flags, defaultCompileFlagsRelWithDebInfo...)
	case Coverage:
		flags = append(flags, defaultCompileFlagsCoverage...)
	default:
		flags = append(flags, defaultCompileFlagsRelease...)
	}
	return flags
}

// FlagVectors holds the three visibility classes of compile/link flags
// described in spec §4.3: private (applied to self only), interface
// (forwarded to dependants only), and public (both).
type FlagVectors struct {
	Compile          []string
	Link             []string
	CompileInterface []string
	LinkInterface    []string
	CompilePublic    []string
	LinkPublic       []string
}

// parseFlagsOptions extracts the compile/link flags contributed by one
// options key ("flags", "interface-flags" or "public-flags"), honouring the
// active build-type slot and any platform override block present at the
// same level in options, per spec §4.3.
func parseFlagsOptions(options Value, flagsKind string, buildType BuildType, platformName string) (compile, link []string) {
	var blocks []Value
	if block, ok := options.Get(flagsKind); ok {
		blocks = append(blocks, block)
	}
	if platformBlock, ok := options.Get(platformName); ok {
		if block, ok := platformBlock.Get(flagsKind); ok {
			blocks = append(blocks, block)
		}
	}

	for _, block := range blocks {
		if cf, err := block.GetStringSeq("compile"); err == nil {
			compile = append(compile, cf...)
		}
		if lf, err := block.GetStringSeq("link"); err == nil {
			link = append(link, lf...)
		}
		buildSlot := ""
		switch buildType {
		case Release:
			buildSlot = "compile_release"
		case Debug:
			buildSlot = "compile_debug"
		case RelWithDebInfo:
			buildSlot = "compile_relwithdebinfo"
		case Coverage:
			buildSlot = "compile_coverage"
		}
		if buildSlot != "" {
			if cf, err := block.GetStringSeq(buildSlot); err == nil {
				compile = append(compile, cf...)
			}
		}
	}
	return compile, link
}

// dedupeStrings removes duplicate entries while preserving the first
// occurrence's order, matching spec invariant 4 (duplicate-free include
// directories) and the general "duplicate removal... must preserve semantic
// equivalence" requirement of spec §4.3.
func dedupeStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
