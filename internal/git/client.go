package git

import (
	"fmt"
	"time"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"

	crssh "golang.org/x/crypto/ssh"

	"github.com/hashicorp/go-hclog"
	"github.com/scanmill/scanmill/pkg/shared/config"
	"github.com/scanmill/scanmill/pkg/shared/files"
)

// Client clones repositories for scanning.
type Client struct {
	logger       hclog.Logger
	auth         transport.AuthMethod
	timeout      time.Duration
	globalConfig *config.Config
}

// AuthOptions selects how the checkout authenticates. All fields are
// optional; an anonymous HTTPS clone needs none of them.
type AuthOptions struct {
	SSHKeyPath     string
	SSHKeyPassword string
	Username       string
	Token          string
}

// New initializes a Git client. An SSH key takes precedence over basic
// credentials; without either the clone runs unauthenticated.
func New(logger hclog.Logger, globalConfig *config.Config, options AuthOptions) (*Client, error) {
	auth, err := setupAuth(logger, options)
	if err != nil {
		return nil, fmt.Errorf("failed to set up Git authentication: %w", err)
	}

	timeout := config.SetThen(globalConfig.GitClient.Timeout, time.Duration(10*time.Minute))

	return &Client{
		logger:       logger,
		auth:         auth,
		timeout:      timeout,
		globalConfig: globalConfig,
	}, nil
}

// setupAuth builds the transport auth method for the given options.
func setupAuth(logger hclog.Logger, options AuthOptions) (transport.AuthMethod, error) {
	if options.SSHKeyPath != "" {
		logger.Debug("setting up SSH key authentication")

		sshKeyPath, err := files.ExpandPath(options.SSHKeyPath)
		if err != nil {
			logger.Error("failed to expand SSH key path", "path", options.SSHKeyPath, "error", err)
			return nil, err
		}

		auth, err := ssh.NewPublicKeysFromFile("git", sshKeyPath, options.SSHKeyPassword)
		if err != nil {
			logger.Error("failed to set up SSH key authentication", "error", err.Error())
			return nil, err
		}

		// TODO: verify host keys against a known_hosts file instead.
		auth.HostKeyCallbackHelper = ssh.HostKeyCallbackHelper{
			HostKeyCallback: crssh.InsecureIgnoreHostKey(),
		}
		return auth, nil
	}

	if options.Username != "" || options.Token != "" {
		logger.Debug("setting up HTTP authentication")
		return &http.BasicAuth{
			Username: options.Username,
			Password: options.Token,
		}, nil
	}

	return nil, nil
}
