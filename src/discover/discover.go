// Package discover implements the default source/header discovery
// collaborator of spec §6.1. It is an external collaborator in spec.md's
// terms, but cbuild ships a concrete implementation so the driver is
// runnable end to end, grounded on please's src/fs/walk.go (itself a thin
// wrapper over github.com/karrick/godirwalk).
package discover

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/karrick/godirwalk"

	"github.com/PythonWorkbench/clang-build/src/core"
)

var headerSuffixes = []string{".h", ".hpp", ".hh", ".hxx"}
var sourceSuffixes = []string{".c", ".cc", ".cpp", ".cxx"}

// Default is the default Discoverer implementation.
type Default struct{}

// New returns a ready-to-use Default discoverer.
func New() *Default { return &Default{} }

// Discover implements core.Discoverer. It honours the option keys of spec
// §6.1: "sources", "headers", "include_directories" and
// "public_include_directories", each either a glob list or a sequence of
// literal paths, resolved relative to root. When "sources" (or "headers")
// is absent, it walks root looking for files with recognised C/C++ source
// (or header) suffixes.
func (d *Default) Discover(options core.Value, root, buildDir string) (core.DiscoveredFiles, error) {
	var files core.DiscoveredFiles

	sources, err := resolvePatterns(options, "sources", root)
	if err != nil {
		return files, err
	}
	headers, err := resolvePatterns(options, "headers", root)
	if err != nil {
		return files, err
	}
	includeDirs, err := resolvePatterns(options, "include_directories", root)
	if err != nil {
		return files, err
	}
	includeDirsPublic, err := resolvePatterns(options, "public_include_directories", root)
	if err != nil {
		return files, err
	}

	if _, hasSources := options.Get("sources"); !hasSources {
		walked, err := walkBySuffix(root, sourceSuffixes)
		if err != nil {
			return files, err
		}
		sources = append(sources, walked...)
	}
	if _, hasHeaders := options.Get("headers"); !hasHeaders {
		walked, err := walkBySuffix(root, headerSuffixes)
		if err != nil {
			return files, err
		}
		headers = append(headers, walked...)
	}

	includeDir := filepath.Join(root, "include")
	if core.PathExists(includeDir) {
		includeDirsPublic = append(includeDirsPublic, includeDir)
	}

	files.SourceFiles = sortUnique(sources)
	files.Headers = sortUnique(headers)
	files.IncludeDirectories = sortUnique(includeDirs)
	files.IncludeDirectoriesPublic = sortUnique(includeDirsPublic)
	return files, nil
}

// resolvePatterns reads an option key as a string sequence and resolves
// each entry to one or more absolute paths: glob patterns (containing *, ?
// or [) are expanded with filepath.Glob, literal paths are joined with
// root and returned as-is.
func resolvePatterns(options core.Value, key, root string) ([]string, error) {
	patterns, err := options.GetStringSeq(key)
	if err != nil || len(patterns) == 0 {
		return nil, nil
	}
	var out []string
	for _, pattern := range patterns {
		p := pattern
		if !filepath.IsAbs(p) {
			p = filepath.Join(root, p)
		}
		if strings.ContainsAny(pattern, "*?[") {
			matches, err := filepath.Glob(p)
			if err != nil {
				return nil, err
			}
			out = append(out, matches...)
		} else {
			out = append(out, p)
		}
	}
	return out, nil
}

// walkBySuffix walks root with godirwalk collecting files whose extension
// matches one of suffixes.
func walkBySuffix(root string, suffixes []string) ([]string, error) {
	if !core.PathExists(root) {
		return nil, nil
	}
	var out []string
	err := godirwalk.Walk(root, &godirwalk.Options{
		Callback: func(path string, ent *godirwalk.Dirent) error {
			if ent.IsDir() {
				return nil
			}
			ext := filepath.Ext(path)
			for _, suffix := range suffixes {
				if ext == suffix {
					out = append(out, path)
					return nil
				}
			}
			return nil
		},
		Unsorted: true,
	})
	return out, err
}

func sortUnique(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
