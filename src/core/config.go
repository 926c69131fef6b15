package core

import (
	"bytes"
	"fmt"

	"github.com/BurntSushi/toml"
)

// ReadConfig decodes a TOML configuration document (spec §6.2) into the
// generic Value tree of value.go. TOML was chosen over the teacher's gcfg
// because the document shape here — arrays of tables for [[subproject]],
// arbitrarily nested per-target maps for [target.flags] etc. — is native to
// TOML and awkward to express in gcfg's two-level section model; BurntSushi's
// decoder is the TOML library present in the example pack.
func ReadConfig(data []byte) (Value, error) {
	var raw map[string]interface{}
	if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&raw); err != nil {
		return Value{}, fmt.Errorf("parsing configuration: %w", err)
	}
	return fromInterface(raw), nil
}

// fromInterface converts the untyped tree produced by the TOML decoder into
// our tagged Value sum type. This is the one place in cbuild that deals
// with interface{} — everything downstream of it is typed.
func fromInterface(v interface{}) Value {
	switch t := v.(type) {
	case map[string]interface{}:
		m := make(map[string]Value, len(t))
		for k, val := range t {
			m[k] = fromInterface(val)
		}
		return NewMap(m)
	case []map[string]interface{}:
		seq := make([]Value, len(t))
		for i, val := range t {
			seq[i] = fromInterface(val)
		}
		return NewSeq(seq)
	case []interface{}:
		seq := make([]Value, len(t))
		for i, val := range t {
			seq[i] = fromInterface(val)
		}
		return NewSeq(seq)
	case string:
		return NewScalar(t)
	case bool:
		if t {
			return NewScalar("true")
		}
		return NewScalar("false")
	case int64:
		return NewScalar(fmt.Sprintf("%d", t))
	case float64:
		return NewScalar(fmt.Sprintf("%g", t))
	case nil:
		return NewScalar("")
	default:
		return NewScalar(fmt.Sprintf("%v", t))
	}
}

// TargetConfig is the typed record for one target definition, parsed once
// out of the generic Value tree per Design Note 1. Fields that drive
// control flow (dependency resolution, target kind selection) are pulled
// out explicitly; the remaining, more free-form option groups (flags,
// scripts, tests, examples, source-discovery filters) stay as Value and are
// interpreted by the component that owns that concern (flags.go,
// expansion.go, discover.Discoverer).
type TargetConfig struct {
	Name         string
	TargetType   string // "", "executable", "shared library", "static library", "header only"
	OutputName   string
	Dependencies []string
	Options      Value // the full target sub-map, for flags/scripts/tests/examples/sources
}

// ProjectConfig is the typed record for one project (or subproject), parsed
// once out of the generic Value tree.
type ProjectConfig struct {
	Name string
	// TargetOrder lists the target names in Go map iteration order over the
	// decoded document; the order of declaration in the document is not
	// kept, and the order may differ between runs. TargetConfigs is keyed
	// by name.
	TargetOrder   []string
	TargetConfigs map[string]TargetConfig
	Subprojects   []ProjectConfig
}

// ParseProjectConfig walks a Value mapping (the whole document, or one
// [[subproject]] entry) into a ProjectConfig, recognising the top-level
// keys of spec §6.2: "name", "subproject", and anything else as a target
// definition.
func ParseProjectConfig(v Value) (ProjectConfig, error) {
	m, err := v.Map()
	if err != nil {
		return ProjectConfig{}, fmt.Errorf("project definition must be a mapping: %w", err)
	}

	proj := ProjectConfig{TargetConfigs: map[string]TargetConfig{}}
	if nameVal, ok := m["name"]; ok {
		name, err := nameVal.Scalar()
		if err != nil {
			return ProjectConfig{}, fmt.Errorf("project name must be a scalar: %w", err)
		}
		proj.Name = name
	}

	if subVal, ok := m["subproject"]; ok {
		subSeq, err := subVal.Seq()
		if err != nil {
			return ProjectConfig{}, fmt.Errorf("subproject must be a sequence of mappings: %w", err)
		}
		for _, sub := range subSeq {
			subProj, err := ParseProjectConfig(sub)
			if err != nil {
				return ProjectConfig{}, err
			}
			proj.Subprojects = append(proj.Subprojects, subProj)
		}
	}

	for key, val := range m {
		if key == "name" || key == "subproject" {
			continue
		}
		tc, err := parseTargetConfig(key, val)
		if err != nil {
			return ProjectConfig{}, fmt.Errorf("target %q: %w", key, err)
		}
		proj.TargetConfigs[key] = tc
		proj.TargetOrder = append(proj.TargetOrder, key)
	}

	return proj, nil
}

func parseTargetConfig(name string, v Value) (TargetConfig, error) {
	tc := TargetConfig{Name: name, Options: v}

	targetType, err := v.GetString("target_type")
	if err != nil {
		return TargetConfig{}, fmt.Errorf("target_type must be a scalar: %w", err)
	}
	tc.TargetType = targetType

	outputName, err := v.GetString("output_name")
	if err != nil {
		return TargetConfig{}, fmt.Errorf("output_name must be a scalar: %w", err)
	}
	tc.OutputName = outputName

	deps, err := v.GetStringSeq("dependencies")
	if err != nil {
		return TargetConfig{}, fmt.Errorf("dependencies must be a sequence of strings: %w", err)
	}
	tc.Dependencies = deps

	return tc, nil
}
