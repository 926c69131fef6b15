package core

import "path/filepath"

// buildSourceUnits synthesises one SourceUnit per source file with its
// final compile and depfile-generation commands resolved, per spec §4.4/
// §4.5. Object and depfile paths mirror the source's path relative to the
// target's root directory, under obj/ and dep/ respectively (invariant 3).
func (t *Target) buildSourceUnits(env *Environment, naming artifactNaming) {
	includeArgs := make([]string, 0, len(t.IncludeDirectories)*2)
	for _, dir := range t.IncludeDirectories {
		includeArgs = append(includeArgs, "-I", dir)
	}

	t.Units = make([]*SourceUnit, 0, len(t.SourceFiles))
	for _, source := range t.SourceFiles {
		rel, err := filepath.Rel(t.RootDirectory, source)
		if err != nil || rel == ".." || len(rel) >= 2 && rel[:2] == ".." {
			rel = filepath.Base(source)
		}
		objectFile := filepath.Join(t.ObjectDirectory, rel+".o")
		depFile := filepath.Join(t.DepfileDirectory, rel+".d")

		flags := make([]string, 0, 1+len(naming.ExtraFlags)+len(includeArgs)+len(t.CompileFlags))
		if t.Dialect != "" {
			flags = append(flags, t.Dialect)
		}
		flags = append(flags, naming.ExtraFlags...)
		flags = append(flags, includeArgs...)
		flags = append(flags, t.CompileFlags...)

		depfileCommand := make([]string, 0, 8+len(flags))
		depfileCommand = append(depfileCommand, env.CppDriver)
		depfileCommand = append(depfileCommand, flags...)
		depfileCommand = append(depfileCommand, "-MM", "-MF", depFile, "-MT", objectFile, source)

		compileCommand := make([]string, 0, 4+len(flags))
		compileCommand = append(compileCommand, env.CppDriver)
		compileCommand = append(compileCommand, flags...)
		compileCommand = append(compileCommand, "-c", source, "-o", objectFile)

		t.Units = append(t.Units, &SourceUnit{
			Source:         source,
			ObjectFile:     objectFile,
			DepFile:        depFile,
			CompileCommand: compileCommand,
			DepfileCommand: depfileCommand,
		})
	}
}

// buildLinkCommand assembles the final link (or archive) command template
// for this target, per spec §4.4's link-command templates. For Executable
// and SharedLibrary, HeaderOnly dependencies are skipped (they contribute
// no artifact); for StaticLibrary, dependency object files are absorbed
// directly rather than linking dependency libraries.
func (t *Target) buildLinkCommand(env *Environment) {
	objects := make([]string, 0, len(t.Units))
	for _, u := range t.Units {
		objects = append(objects, u.ObjectFile)
	}

	switch t.Kind {
	case KindExecutable, KindSharedLibrary:
		cmd := []string{env.CppDriver}
		if t.Kind == KindSharedLibrary {
			cmd = append(cmd, "-shared")
		}
		cmd = append(cmd, "-o", t.OutFile)
		cmd = append(cmd, objects...)
		for _, dep := range t.Dependencies {
			if dep.Kind != KindHeaderOnly {
				cmd = append(cmd, "-L", dep.OutputFolder)
			}
		}
		cmd = append(cmd, t.LinkFlags...)
		for _, dep := range t.Dependencies {
			if dep.Kind != KindHeaderOnly {
				cmd = append(cmd, "-l"+dep.OutName)
			}
		}
		t.LinkCommand = cmd

	case KindStaticLibrary:
		cmd := []string{env.Archiver, "rc", t.OutFile}
		cmd = append(cmd, objects...)
		cmd = append(cmd, t.LinkFlags...)
		for _, dep := range t.Dependencies {
			if dep.Kind != KindHeaderOnly {
				for _, u := range dep.Units {
					cmd = append(cmd, u.ObjectFile)
				}
			}
		}
		t.LinkCommand = cmd
	}
}
