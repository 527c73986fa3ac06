package scan

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"

	"github.com/scanmill/scanmill/internal/export"
	"github.com/scanmill/scanmill/internal/git"
	"github.com/scanmill/scanmill/internal/pipeline"
	"github.com/scanmill/scanmill/internal/workspace"
	"github.com/scanmill/scanmill/pkg/shared"
	"github.com/scanmill/scanmill/pkg/shared/artifacts"
)

// prepareTree materializes the source tree for the selected input mode.
func prepareTree(ctx context.Context, logger hclog.Logger, o *RunOptionsScan) (*workspace.SourceTree, error) {
	switch {
	case o.Path != "":
		return workspace.NewFromDir(logger, AppConfig, o.Path)
	case o.File != "":
		file, err := os.Open(o.File)
		if err != nil {
			return nil, fmt.Errorf("failed to open %q: %w", o.File, err)
		}
		defer file.Close()
		return workspace.NewFromUpload(logger, AppConfig, filepath.Base(o.File), file)
	default:
		return prepareClone(ctx, logger, o)
	}
}

// prepareClone checks the repository out into a fresh scratch area.
func prepareClone(ctx context.Context, logger hclog.Logger, o *RunOptionsScan) (*workspace.SourceTree, error) {
	project, err := git.ProjectNameFromURL(o.Repo)
	if err != nil {
		project = "repository"
	}

	tree, err := workspace.NewForClone(logger, AppConfig, project)
	if err != nil {
		return nil, err
	}

	client, err := git.New(logger, AppConfig, git.AuthOptions{
		SSHKeyPath:     o.SSHKey,
		SSHKeyPassword: o.SSHKeyPassword,
		Username:       o.Username,
		Token:          o.Token,
	})
	if err != nil {
		tree.Close()
		return nil, err
	}

	if _, err := client.CloneRepository(ctx, o.Repo, o.Branch, tree.Root); err != nil {
		tree.Close()
		return nil, err
	}
	return tree, nil
}

// mirrorReport uploads the persisted document to object storage when a
// bucket is configured. Failures are warnings; the local copy is canonical.
func mirrorReport(logger hclog.Logger, scanner *pipeline.Scanner, result *pipeline.ScanResult) {
	exporter := export.New(logger, AppConfig)
	if !exporter.Enabled() {
		return
	}

	path, err := scanner.Store().Path(result.ReportFile)
	if err != nil {
		logger.Warn("failed to resolve the report for mirroring", "error", err)
		return
	}
	if err := exporter.Mirror(path); err != nil {
		logger.Warn("failed to mirror the report to object storage", "error", err)
	}
}

// saveLaunchArtifact archives the envelope of this launch next to the other
// run artifacts.
func saveLaunchArtifact(logger hclog.Logger, project string, result *pipeline.ScanResult, scanErr error) error {
	launch := shared.GenericResult{
		Args:   scanOptions,
		Result: result,
		Status: "OK",
	}
	if scanErr != nil {
		launch.Status = "FAILED"
		launch.Message = scanErr.Error()
	}

	envelope := shared.GenericLaunchesResult{Launches: []shared.GenericResult{launch}}
	_, err := artifacts.SaveArtifactJSON(AppConfig, logger, "scan", project, envelope)
	return err
}
