package git

import (
	"context"
	"fmt"

	"github.com/gitsight/go-vcsurl"
	"github.com/go-git/go-git/v5"

	"github.com/scanmill/scanmill/pkg/shared/config"

	log "github.com/scanmill/scanmill/pkg/shared/logger"
)

// CloneRepository checks out cloneURL into targetFolder. The folder is
// expected to be empty; every scan clones into its own fresh scratch area.
// An empty branch follows the remote HEAD.
func (c *Client) CloneRepository(ctx context.Context, cloneURL, branch, targetFolder string) (string, error) {
	info, err := vcsurl.Parse(cloneURL)
	if err != nil {
		c.logger.Error("failed to parse VCS URL", "VCSURL", cloneURL, "error", err)
		return "", fmt.Errorf("failed to parse VCS URL: %w", err)
	}

	reference := determineBranch(branch)
	output := log.GetLoggerOutput(c.logger)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	c.logger.Debug("starting repository fetch", "repository", info.Name, "branch", reference, "cloneURL", cloneURL, "targetFolder", targetFolder)
	_, err = git.PlainCloneContext(ctx, targetFolder, false, &git.CloneOptions{
		Auth:            c.auth,
		URL:             cloneURL,
		ReferenceName:   reference,
		SingleBranch:    true,
		Progress:        output,
		Depth:           config.SetThen(c.globalConfig.GitClient.Depth, 1),
		InsecureSkipTLS: config.GetBoolValue(c.globalConfig.GitClient, "InsecureTLS", false),
	})
	if err != nil {
		c.logger.Error("error occurred during clone", "error", err, "targetFolder", targetFolder)
		return "", fmt.Errorf("error occurred during clone: %w", err)
	}

	c.logger.Info("repository cloned successfully", "repository", info.Name, "branch", reference, "targetFolder", targetFolder)
	return targetFolder, nil
}

// ProjectNameFromURL derives the project identifier for persisted artifacts
// from a clone URL.
func ProjectNameFromURL(cloneURL string) (string, error) {
	info, err := vcsurl.Parse(cloneURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse VCS URL: %w", err)
	}
	return info.Name, nil
}
