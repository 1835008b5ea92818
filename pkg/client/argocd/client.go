package argocd

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/devantler-tech/argoboot/pkg/cmd/runner"
	"github.com/devantler-tech/argoboot/pkg/utils/logging"
)

// DefaultBinary is the argocd executable looked up on PATH.
const DefaultBinary = "argocd"

// Client runs argocd subcommands through an Executor.
type Client struct {
	exec      runner.Executor
	binary    string
	configDir string
	sleep     func(ctx context.Context, d time.Duration) error
}

// NewClient returns a Client keeping its session under configDir. An empty configDir
// leaves argocd on its default location.
func NewClient(exec runner.Executor, configDir string) *Client {
	return &Client{
		exec:      exec,
		binary:    DefaultBinary,
		configDir: configDir,
		sleep:     sleepContext,
	}
}

// WithSleep replaces the wait between login attempts.
func (c *Client) WithSleep(sleep func(ctx context.Context, d time.Duration) error) *Client {
	c.sleep = sleep

	return c
}

// Login authenticates against opts.Server, retrying up to opts.Attempts times. TLS
// verification is disabled because the server certificate is self-signed.
func (c *Client) Login(ctx context.Context, opts LoginOptions) error {
	if redactor, ok := c.exec.(runner.SecretRedactor); ok {
		redactor.AddSecret(opts.Password)
	}

	log := logging.For("argocd")
	attempts := max(opts.Attempts, 1)

	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		_, lastErr = c.run(ctx,
			"login", opts.Server,
			"--username", opts.Username,
			"--password", opts.Password,
			"--insecure",
		)
		if lastErr == nil {
			return nil
		}

		log.Debugf("login attempt %d/%d failed: %v", attempt, attempts, lastErr)

		if attempt == attempts {
			break
		}

		err := c.sleep(ctx, opts.RetryDelay)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrLoginFailed, err)
		}
	}

	return fmt.Errorf("%w after %d attempts: %w", ErrLoginFailed, attempts, lastErr)
}

// AddRepo registers repoURL. Re-adding an identical repository succeeds.
func (c *Client) AddRepo(ctx context.Context, repoURL string) error {
	_, err := c.run(ctx, "repo", "add", repoURL)
	if err != nil {
		return fmt.Errorf("add repository %s: %w", repoURL, err)
	}

	return nil
}

// CreateApp creates or updates the application.
func (c *Client) CreateApp(ctx context.Context, opts ApplicationOptions) error {
	_, err := c.run(ctx,
		"app", "create", opts.Name,
		"--repo", opts.RepoURL,
		"--path", opts.Path,
		"--dest-server", opts.DestServer,
		"--dest-namespace", opts.DestNamespace,
		"--upsert",
	)
	if err != nil {
		return fmt.Errorf("create application %s: %w", opts.Name, err)
	}

	return nil
}

// SyncApp triggers a sync of application name.
func (c *Client) SyncApp(ctx context.Context, name string) error {
	_, err := c.run(ctx, "app", "sync", name)
	if err != nil {
		return fmt.Errorf("sync application %s: %w", name, err)
	}

	return nil
}

func (c *Client) run(ctx context.Context, args ...string) (runner.CommandResult, error) {
	if c.configDir != "" {
		args = append(args, "--config", filepath.Join(c.configDir, "config"))
	}

	result, err := c.exec.Exec(ctx, c.binary, args...)
	if err != nil {
		return result, fmt.Errorf("argocd %s: %w", args[0], err)
	}

	return result, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

var _ API = (*Client)(nil)
