// Package engine drives the external analysis engine through the two stages
// of a scan: database creation and suite analysis. Retry and fallback policy
// is expressed as an ordered list of alternative invocations instead of
// nested conditionals, so every stage permits at most one extra attempt.
package engine

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/scanmill/scanmill/internal/buildplan"
	"github.com/scanmill/scanmill/internal/language"
	"github.com/scanmill/scanmill/internal/ruleset"
	"github.com/scanmill/scanmill/internal/sarif"
	"github.com/scanmill/scanmill/pkg/shared/config"
	scanerrors "github.com/scanmill/scanmill/pkg/shared/errors"
)

// RunFunc executes one engine command and returns the combined output.
type RunFunc func(ctx context.Context, args []string) (string, error)

// Invocation is a fully-formed engine command with its wall-clock budget.
type Invocation struct {
	Args    []string
	Timeout time.Duration
}

// Plan is an ordered list of alternative invocations for one stage. Steps
// run in order until the first success; exhausting them fails the stage with
// FailureKind. A timeout aborts the plan immediately regardless of remaining
// steps.
type Plan struct {
	Steps       []Invocation
	FailureKind scanerrors.Kind
	Message     string
}

// Invoker runs engine commands for a single scan. It is strictly sequential;
// concurrent scans each construct their own Invoker-owned state upstream.
type Invoker struct {
	logger         hclog.Logger
	binary         string
	createTimeout  time.Duration
	analyzeTimeout time.Duration
	remoteTimeout  time.Duration
	run            RunFunc
}

// New builds an invoker over the validated configuration.
func New(logger hclog.Logger, cfg *config.Config) *Invoker {
	invoker := &Invoker{
		logger:         logger,
		binary:         config.GetEngineBinary(cfg),
		createTimeout:  config.SetThen(cfg.Engine.CreateTimeout, config.DefaultEngineCreateTimeout),
		analyzeTimeout: config.SetThen(cfg.Engine.AnalyzeTimeout, config.DefaultEngineAnalyzeTimeout),
		remoteTimeout:  config.SetThen(cfg.Engine.RemoteTimeout, config.DefaultEngineRemoteTimeout),
	}
	invoker.run = invoker.runCommand
	return invoker
}

// CreateDatabase extracts an analysis database from sourceRoot into
// databaseDir. With a build plan attached, a non-zero exit is a fatal build
// failure. Without one, the identical command is retried once to cover
// transient extractor hiccups for interpreted languages, then fails as a
// database creation failure.
func (i *Invoker) CreateDatabase(ctx context.Context, databaseDir, sourceRoot string, lang language.Language, build *buildplan.Plan) error {
	i.logger.Debug("creating analysis database", "language", lang, "source", sourceRoot)

	absRoot, err := filepath.Abs(sourceRoot)
	if err != nil {
		return fmt.Errorf("failed to resolve source root %q: %w", sourceRoot, err)
	}

	commandArgs := []string{"database", "create", databaseDir, "--language", lang.String(), "--source-root", absRoot, "--overwrite"}
	step := Invocation{Args: commandArgs, Timeout: i.createTimeout}

	plan := Plan{
		Steps:       []Invocation{step, step},
		FailureKind: scanerrors.KindDatabaseCreationFailure,
		Message:     fmt.Sprintf("failed to create an analysis database for language %q after retry", lang),
	}
	if build != nil {
		withBuild := Invocation{
			Args:    append(append([]string{}, commandArgs...), "--command", build.Command),
			Timeout: i.createTimeout,
		}
		plan = Plan{
			Steps:       []Invocation{withBuild},
			FailureKind: scanerrors.KindBuildFailure,
			Message:     fmt.Sprintf("build command %q failed while creating the analysis database", build.Command),
		}
	}

	return i.executePlan(ctx, plan)
}

// Analyze evaluates the resolved suite against an existing database and
// writes the result document to outputPath. On failure the generic
// code-scanning suite for the language is tried once before giving up. A
// clean exit that leaves no output file is treated as zero findings and an
// empty document is synthesized in its place.
func (i *Invoker) Analyze(ctx context.Context, databaseDir, outputPath string, lang language.Language, suite ruleset.Reference) error {
	i.logger.Debug("analyzing database", "language", lang, "suite", suite.Value, "source", suite.Source)

	plan := Plan{
		Steps: []Invocation{
			{Args: i.analyzeArgs(databaseDir, outputPath, suite.Value), Timeout: i.suiteTimeout(suite.Symbolic)},
			{Args: i.analyzeArgs(databaseDir, outputPath, ruleset.FallbackName(lang)), Timeout: i.remoteTimeout},
		},
		FailureKind: scanerrors.KindAnalysisFailure,
		Message:     fmt.Sprintf("analysis failed for language %q after suite fallback", lang),
	}
	if err := i.executePlan(ctx, plan); err != nil {
		return err
	}

	if _, err := os.Stat(outputPath); os.IsNotExist(err) {
		i.logger.Warn("engine produced no output file, synthesizing an empty result document", "path", outputPath)
		if err := sarif.WriteEmpty(outputPath); err != nil {
			return fmt.Errorf("failed to synthesize an empty result document: %w", err)
		}
	}
	return nil
}

// analyzeArgs assembles the analyze argument list for one suite reference.
func (i *Invoker) analyzeArgs(databaseDir, outputPath, suite string) []string {
	return []string{"database", "analyze", databaseDir, suite, "--format", "sarif-latest", "--output", outputPath, "--download"}
}

// suiteTimeout picks the execution ceiling for a suite. Symbolic suites may
// pull packs over the network and get the tighter remote budget.
func (i *Invoker) suiteTimeout(symbolic bool) time.Duration {
	if symbolic {
		return i.remoteTimeout
	}
	return i.analyzeTimeout
}

// executePlan runs the plan's invocations in order until one succeeds. A
// deadline hit aborts the whole plan; later alternatives are not attempted.
func (i *Invoker) executePlan(ctx context.Context, plan Plan) error {
	var lastErr error
	var lastOutput string

	for attempt, step := range plan.Steps {
		if attempt > 0 {
			i.logger.Warn("engine invocation failed, trying alternative", "attempt", attempt+1, "error", lastErr)
		}

		stepCtx, cancel := context.WithTimeout(ctx, step.Timeout)
		output, err := i.run(stepCtx, step.Args)
		deadlineHit := stepCtx.Err() == context.DeadlineExceeded
		cancel()

		if err == nil {
			return nil
		}
		if deadlineHit {
			return scanerrors.Wrap(scanerrors.KindTimeout, err,
				fmt.Sprintf("engine invocation exceeded its %s budget", step.Timeout)).WithOutput(output)
		}
		if ctx.Err() != nil {
			return fmt.Errorf("engine invocation aborted: %w", ctx.Err())
		}
		lastErr = err
		lastOutput = output
	}

	return scanerrors.Wrap(plan.FailureKind, lastErr, plan.Message).WithOutput(lastOutput)
}

// runCommand executes one engine command, teeing its output to the logger
// while capturing it for error reporting.
func (i *Invoker) runCommand(ctx context.Context, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, i.binary, args...)

	var stdBuffer bytes.Buffer
	mw := io.MultiWriter(i.logger.StandardWriter(&hclog.StandardLoggerOptions{InferLevels: true}), &stdBuffer)

	cmd.Stdout = mw
	cmd.Stderr = mw

	i.logger.Info("executing engine command", "binary", i.binary, "args", strings.Join(args, " "))
	if err := cmd.Run(); err != nil {
		i.logger.Error(fmt.Sprintf("%q execution error", cmd.Path), "error", err)
		return stdBuffer.String(), fmt.Errorf("%q execution error: %w", cmd.Path, err)
	}
	return stdBuffer.String(), nil
}
