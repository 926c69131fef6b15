// Command cbuild drives a declarative C/C++ build described by a TOML
// project configuration file, per spec §1.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	flags "github.com/thought-machine/go-flags"
	"github.com/google/shlex"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/PythonWorkbench/clang-build/src/build"
	"github.com/PythonWorkbench/clang-build/src/cli/logging"
	"github.com/PythonWorkbench/clang-build/src/core"
	"github.com/PythonWorkbench/clang-build/src/dialect"
	"github.com/PythonWorkbench/clang-build/src/discover"
	"github.com/PythonWorkbench/clang-build/src/process"
)

var log = logging.Log

var opts struct {
	Usage string `usage:"cbuild compiles and links C/C++ projects described by a cbuild.toml configuration file."`

	BuildFlags struct {
		Config     string `short:"c" long:"config" description:"Path to the project configuration file." default:"cbuild.toml"`
		BuildDir   string `short:"b" long:"build_dir" description:"Directory to write build outputs into." default:"build"`
		BuildType  string `long:"build_type" description:"debug, release, relwithdebinfo or coverage." default:"release"`
		CDriver    string `long:"cc" description:"C compiler driver." default:"clang"`
		CppDriver  string `long:"cxx" description:"C++ compiler driver." default:"clang++"`
		Archiver   string `long:"ar" description:"Static library archiver." default:"llvm-ar"`
		NumThreads int    `short:"n" long:"num_threads" description:"Number of concurrent compile/link jobs. Default is number of CPUs."`
		ExtraFlags string `long:"extra_flags" description:"Extra compile flags, shell-quoted, appended to every target (e.g. --extra_flags=\"-Wall -Wextra\")."`
		Rebuild    bool   `long:"rebuild" description:"Force every source file to recompile."`
	} `group:"Options controlling what to build & how to build it"`

	OutputFlags struct {
		Verbosity string `short:"v" long:"verbosity" description:"error, warning, notice, info or debug." default:"notice"`
	} `group:"Options controlling output & logging"`

	BehaviorFlags struct {
		Tests    bool `long:"tests" description:"Build test executables alongside their owning targets."`
		Examples bool `long:"examples" description:"Build example executables alongside their owning targets."`
	} `group:"Options that enable or disable certain behaviors"`
}

func main() {
	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)
	if _, err := parser.Parse(); err != nil {
		if flags.WroteHelp(err) {
			os.Exit(int(core.ExitSuccess))
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(int(core.ExitConfigError))
	}

	logging.InitFromLevel(parseVerbosity(opts.OutputFlags.Verbosity))

	if _, err := maxprocs.Set(maxprocs.Logger(log.Debug)); err != nil {
		log.Warning("failed to set GOMAXPROCS: %s", err)
	}
	numThreads := opts.BuildFlags.NumThreads
	if numThreads <= 0 {
		numThreads = runtime.GOMAXPROCS(0)
	}

	os.Exit(int(run(numThreads)))
}

func run(numThreads int) core.ExitCode {
	workingDir, err := os.Getwd()
	if err != nil {
		log.Error("%s", err)
		return core.ExitConfigError
	}

	data, err := os.ReadFile(opts.BuildFlags.Config)
	if err != nil {
		log.Error("reading %s: %s", opts.BuildFlags.Config, err)
		return core.ExitConfigError
	}

	raw, err := core.ReadConfig(data)
	if err != nil {
		log.Error("%s", err)
		return core.ExitConfigError
	}
	cfg, err := core.ParseProjectConfig(raw)
	if err != nil {
		log.Error("%s", err)
		return core.ExitConfigError
	}

	platform, err := core.HostPlatform()
	if err != nil {
		log.Error("%s", err)
		return core.ExitConfigError
	}

	var extraFlags []string
	if opts.BuildFlags.ExtraFlags != "" {
		extraFlags, err = shlex.Split(opts.BuildFlags.ExtraFlags)
		if err != nil {
			log.Error("parsing --extra_flags: %s", err)
			return core.ExitConfigError
		}
	}

	executor := process.New()
	buildDir, err := filepath.Abs(opts.BuildFlags.BuildDir)
	if err != nil {
		log.Error("%s", err)
		return core.ExitConfigError
	}

	env := &core.Environment{
		WorkingDir:        workingDir,
		BuildDir:          buildDir,
		BuildType:         core.ParseBuildType(opts.BuildFlags.BuildType),
		CDriver:           opts.BuildFlags.CDriver,
		CppDriver:         opts.BuildFlags.CppDriver,
		Archiver:          opts.BuildFlags.Archiver,
		ForceBuild:        opts.BuildFlags.Rebuild,
		Tests:             opts.BehaviorFlags.Tests,
		Examples:          opts.BehaviorFlags.Examples,
		ExtraCompileFlags: extraFlags,
		Platform:          platform,
		Discoverer:        discover.New(),
		DialectProber:     dialect.New(executor),
		Executor:          executor,
	}

	proj, err := core.BuildProject(env, cfg, len(cfg.Subprojects) > 0)
	if err != nil {
		log.Error("%s", err)
		return core.ExitConfigError
	}

	if env.Tests {
		if err := build.ExpandTests(env, proj); err != nil {
			log.Error("%s", err)
			return core.ExitConfigError
		}
	}
	if env.Examples {
		if err := build.ExpandExamples(env, proj); err != nil {
			log.Error("%s", err)
			return core.ExitConfigError
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigs
		log.Warning("received interrupt, cancelling build")
		cancel()
	}()

	driver := build.NewDriver(env, executor, numThreads)
	report := driver.BuildProject(ctx, proj)

	fmt.Println(report.Summary())

	if ctx.Err() != nil {
		return core.ExitCancelled
	}
	return report.ExitCode()
}

func parseVerbosity(s string) logging.Level {
	switch s {
	case "error":
		return logging.ERROR
	case "warning":
		return logging.WARNING
	case "notice":
		return logging.NOTICE
	case "info":
		return logging.INFO
	case "debug":
		return logging.DEBUG
	default:
		return logging.NOTICE
	}
}
