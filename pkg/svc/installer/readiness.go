package installer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/devantler-tech/argoboot/pkg/k8s"
	"github.com/devantler-tech/argoboot/pkg/k8s/readiness"
	"k8s.io/client-go/kubernetes"
)

// WaitForNamespaceReady waits for every deployment in namespace to roll out and then for
// every pod to become Ready, each bounded by timeout. A failure carries a diagnosis of the
// unhealthy pods.
func WaitForNamespaceReady(
	ctx context.Context,
	clientset kubernetes.Interface,
	namespace string,
	timeout time.Duration,
	componentName string,
) error {
	err := readiness.WaitForDeploymentsReady(ctx, clientset, namespace, timeout)
	if err != nil {
		return withDiagnosis(ctx, clientset, namespace,
			fmt.Errorf("wait for %s deployments: %w", componentName, err))
	}

	err = readiness.WaitForPodsReady(ctx, clientset, namespace, timeout)
	if err != nil {
		return withDiagnosis(ctx, clientset, namespace,
			fmt.Errorf("wait for %s pods: %w", componentName, err))
	}

	return nil
}

func withDiagnosis(ctx context.Context, clientset kubernetes.Interface, namespace string, err error) error {
	if ctx.Err() != nil {
		return err
	}

	failures := k8s.DiagnosePodFailures(ctx, clientset, namespace)
	if len(failures) == 0 {
		return err
	}

	return fmt.Errorf("%w\n  %s", err, strings.Join(failures, "\n  "))
}
