// Package prerequisites verifies, before anything is mutated, that the external binaries
// argoboot shells out to are installed and that the container engine is reachable.
package prerequisites

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/devantler-tech/argoboot/pkg/client/docker"
)

var (
	// ErrMissingTools is returned when required binaries are not on PATH.
	ErrMissingTools = errors.New("missing required tools")
	// ErrEngineUnavailable is returned when the container engine cannot be reached.
	ErrEngineUnavailable = errors.New("container engine unavailable")
)

// Tool is a binary that must be on PATH.
type Tool struct {
	Name       string
	Purpose    string
	InstallURL string
}

// DefaultTools are the binaries setup invokes.
func DefaultTools() []Tool {
	return []Tool{
		{
			Name:       "kubectl",
			Purpose:    "port-forwarding to the Argo CD API server",
			InstallURL: "https://kubernetes.io/docs/tasks/tools/",
		},
		{
			Name:       "argocd",
			Purpose:    "logging in and declaring the application",
			InstallURL: "https://argo-cd.readthedocs.io/en/stable/cli_installation/",
		},
	}
}

// Checker runs the prerequisite checks.
type Checker struct {
	Tools []Tool
	// LookPath resolves a binary name; exec.LookPath by default.
	LookPath func(file string) (string, error)
	// Engine returns a client for the container engine; nil skips the engine check.
	Engine func() (docker.Pinger, error)
}

// NewChecker returns a Checker for DefaultTools and the Docker engine from the environment.
func NewChecker() *Checker {
	return &Checker{
		Tools:    DefaultTools(),
		LookPath: exec.LookPath,
		Engine: func() (docker.Pinger, error) {
			return docker.GetDockerClient()
		},
	}
}

// Result describes what Check found.
type Result struct {
	Paths         map[string]string
	EngineVersion string
}

// Check reports every missing tool at once, then pings the engine.
func (c *Checker) Check(ctx context.Context) (Result, error) {
	result := Result{Paths: make(map[string]string, len(c.Tools))}

	var missing []string

	for _, tool := range c.Tools {
		path, err := c.LookPath(tool.Name)
		if err != nil {
			missing = append(missing, fmt.Sprintf("%s (%s, install: %s)", tool.Name, tool.Purpose, tool.InstallURL))

			continue
		}

		result.Paths[tool.Name] = path
	}

	if len(missing) > 0 {
		return result, fmt.Errorf("%w: %s", ErrMissingTools, strings.Join(missing, "; "))
	}

	if c.Engine == nil {
		return result, nil
	}

	pinger, err := c.Engine()
	if err != nil {
		return result, fmt.Errorf("%w: %w", ErrEngineUnavailable, err)
	}

	if closer, ok := pinger.(interface{ Close() error }); ok {
		defer func() { _ = closer.Close() }()
	}

	version, err := docker.Ping(ctx, pinger)
	if err != nil {
		return result, fmt.Errorf("%w: %w", ErrEngineUnavailable, err)
	}

	result.EngineVersion = version

	return result, nil
}
