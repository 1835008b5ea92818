package argocdinstaller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/devantler-tech/argoboot/pkg/client/netretry"
	"github.com/devantler-tech/argoboot/pkg/utils/envvar"
)

// ErrManifestDownload is returned when the manifest URL answers with a non-2xx status.
var ErrManifestDownload = errors.New("manifest download failed")

// ManifestFetcher loads manifest bytes from a source.
type ManifestFetcher interface {
	Fetch(ctx context.Context, source string) ([]byte, error)
}

// Fetcher reads manifests from http(s) URLs, retrying transient failures, or from
// local files.
type Fetcher struct {
	client *http.Client
	policy netretry.Policy
}

// NewFetcher returns a Fetcher. A nil client gets a 60s timeout.
func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second} //nolint:mnd
	}

	return &Fetcher{
		client: client,
		policy: netretry.Policy{Attempts: 5, Interval: 2 * time.Second, Timeout: 5 * time.Minute}, //nolint:mnd
	}
}

// WithPolicy overrides the retry policy.
func (f *Fetcher) WithPolicy(policy netretry.Policy) *Fetcher {
	f.policy = policy

	return f
}

// Fetch implements ManifestFetcher.
func (f *Fetcher) Fetch(ctx context.Context, source string) ([]byte, error) {
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		data, err := os.ReadFile(envvar.Expand(source))
		if err != nil {
			return nil, fmt.Errorf("read manifest: %w", err)
		}

		return data, nil
	}

	var data []byte

	err := netretry.Do(ctx, f.policy, func(ctx context.Context) error {
		var err error

		data, err = f.download(ctx, source)

		return err
	})
	if err != nil {
		return nil, fmt.Errorf("fetch manifest %s: %w", source, err)
	}

	return data, nil
}

func (f *Fetcher) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}

	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: %d %s", ErrManifestDownload, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return data, nil
}
