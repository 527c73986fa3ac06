// Package pipeline drives a whole scan: language detection, build planning,
// ruleset resolution, engine invocation, and persisting the produced result
// document. The steps of one scan run strictly in sequence; concurrent scans
// share nothing but the results folder, where unique document names keep
// them apart.
package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/scanmill/scanmill/internal/buildplan"
	"github.com/scanmill/scanmill/internal/engine"
	"github.com/scanmill/scanmill/internal/findings"
	"github.com/scanmill/scanmill/internal/language"
	"github.com/scanmill/scanmill/internal/report"
	"github.com/scanmill/scanmill/internal/ruleset"
	"github.com/scanmill/scanmill/internal/sarif"
	"github.com/scanmill/scanmill/internal/workspace"
	"github.com/scanmill/scanmill/pkg/shared/config"
)

// Scanner runs analysis scans over prepared source trees.
type Scanner struct {
	logger  hclog.Logger
	cfg     *config.Config
	invoker *engine.Invoker
	rules   *ruleset.Resolver
	store   *report.Store
}

// ScanResult is the outcome of one completed scan.
type ScanResult struct {
	ScanID     string             `json:"scan_id"`
	Project    string             `json:"project"`
	Language   language.Language  `json:"language"`
	ReportFile string             `json:"report_file"`
	Findings   []findings.Finding `json:"findings"`
	Message    string             `json:"message"`
}

// New wires a Scanner from the application configuration.
func New(logger hclog.Logger, cfg *config.Config) *Scanner {
	return &Scanner{
		logger:  logger,
		cfg:     cfg,
		invoker: engine.New(logger, cfg),
		rules:   ruleset.New(logger, cfg),
		store:   report.NewStore(logger, cfg),
	}
}

// Store exposes the report store the scanner persists into.
func (s *Scanner) Store() *report.Store {
	return s.store
}

// Scan runs the full pipeline over the given source tree and persists exactly
// one result document. Closing the tree stays with the caller.
func (s *Scanner) Scan(ctx context.Context, tree *workspace.SourceTree) (*ScanResult, error) {
	files, err := tree.Files()
	if err != nil {
		return nil, err
	}

	lang, err := language.DetectFromList(files)
	if err != nil {
		return nil, err
	}
	s.logger.Info("detected language", "project", tree.Project, "language", lang)

	build := buildplan.Resolve(tree.Root, lang, language.FilesFor(files, lang))
	if build != nil {
		s.logger.Info("resolved build plan", "strategy", build.Strategy, "command", build.Command)
	}

	suite := s.rules.Resolve(lang)
	s.logger.Info("resolved ruleset", "suite", suite.Value, "source", suite.Source)

	record := s.store.Allocate(tree.Project, lang.String(), uuid.New().String())
	outputPath, err := s.store.Path(record.Filename)
	if err != nil {
		return nil, err
	}

	if err := s.invoker.CreateDatabase(ctx, tree.DatabaseDir(), tree.Root, lang, build); err != nil {
		return nil, err
	}
	if err := s.invoker.Analyze(ctx, tree.DatabaseDir(), outputPath, lang, suite); err != nil {
		return nil, err
	}

	record, err = s.store.Commit(record)
	if err != nil {
		return nil, err
	}

	document, err := sarif.ReadReport(outputPath, s.logger)
	if err != nil {
		return nil, err
	}
	list := document.Normalize()

	message := "analysis completed, no issues found"
	if len(list) > 0 {
		message = fmt.Sprintf("analysis completed, found %d issue(s)", len(list))
	}

	return &ScanResult{
		ScanID:     record.ScanID,
		Project:    record.Project,
		Language:   lang,
		ReportFile: record.Filename,
		Findings:   list,
		Message:    message,
	}, nil
}
