// Package argocdinstaller installs Argo CD from its upstream manifest and waits until the
// installation is serving.
package argocdinstaller

import (
	"context"
	"fmt"
	"time"

	"github.com/devantler-tech/argoboot/pkg/k8s"
	"github.com/devantler-tech/argoboot/pkg/svc/installer"
	"github.com/devantler-tech/argoboot/pkg/utils/logging"
	corev1 "k8s.io/api/core/v1"
)

// FieldManager owns the fields argoboot applies.
const FieldManager = "argoboot"

// Options configure an Installer.
type Options struct {
	Namespace string
	// ManifestSource is an http(s) URL or a local file path.
	ManifestSource   string
	ServerService    string
	ServerDeployment string
	ServiceType      corev1.ServiceType
	Timeout          time.Duration
}

// ArgoCDInstaller applies the Argo CD manifest, exposes the server service and restarts
// the server so it picks up the change.
type ArgoCDInstaller struct {
	clients *k8s.Clients
	opts    Options
	fetcher ManifestFetcher
	now     func() time.Time
}

// NewInstaller creates an Argo CD installer. A nil fetcher selects the default
// HTTP/file fetcher.
func NewInstaller(clients *k8s.Clients, opts Options, fetcher ManifestFetcher) *ArgoCDInstaller {
	if fetcher == nil {
		fetcher = NewFetcher(nil)
	}

	if opts.Timeout <= 0 {
		opts.Timeout = installer.DefaultInstallTimeout
	}

	return &ArgoCDInstaller{clients: clients, opts: opts, fetcher: fetcher, now: time.Now}
}

// Install runs the install sequence. Re-running it against an installed cluster is safe.
func (a *ArgoCDInstaller) Install(ctx context.Context) error {
	log := logging.For("argocd-installer")

	created, err := k8s.EnsureNamespace(ctx, a.clients.Clientset, a.opts.Namespace)
	if err != nil {
		return fmt.Errorf("failed to install Argo CD: %w", err)
	}

	if !created {
		log.Infof("namespace %s already exists", a.opts.Namespace)
	}

	data, err := a.fetcher.Fetch(ctx, a.opts.ManifestSource)
	if err != nil {
		return fmt.Errorf("failed to install Argo CD: %w", err)
	}

	objects, err := k8s.DecodeManifest(data)
	if err != nil {
		return fmt.Errorf("failed to install Argo CD: %w", err)
	}

	log.Debugf("applying %d objects from %s", len(objects), a.opts.ManifestSource)

	err = k8s.ApplyManifest(ctx, a.clients, objects, k8s.ApplyOptions{
		FieldManager: FieldManager,
		Namespace:    a.opts.Namespace,
	})
	if err != nil {
		return fmt.Errorf("failed to install Argo CD: %w", err)
	}

	return a.exposeServer(ctx)
}

// WaitForReady waits for all Argo CD deployments and pods.
func (a *ArgoCDInstaller) WaitForReady(ctx context.Context) error {
	return installer.WaitForNamespaceReady(
		ctx, a.clients.Clientset, a.opts.Namespace, a.opts.Timeout, "Argo CD",
	)
}

func (a *ArgoCDInstaller) exposeServer(ctx context.Context) error {
	found, err := k8s.PatchServiceType(
		ctx, a.clients.Clientset, a.opts.Namespace, a.opts.ServerService, a.opts.ServiceType,
	)
	if err != nil {
		return fmt.Errorf("expose Argo CD server: %w", err)
	}

	if !found {
		logging.For("argocd-installer").
			Infof("service %s/%s not found, skipping type patch", a.opts.Namespace, a.opts.ServerService)
	}

	err = k8s.RestartDeployment(ctx, a.clients.Clientset, a.opts.Namespace, a.opts.ServerDeployment, a.now())
	if err != nil {
		return fmt.Errorf("expose Argo CD server: %w", err)
	}

	return nil
}

var _ installer.Installer = (*ArgoCDInstaller)(nil)
