package readiness

import (
	"context"
	"fmt"
	"time"

	"github.com/devantler-tech/argoboot/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
	appsv1 "k8s.io/api/apps/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

// WaitForDeploymentsReady waits for the named deployments concurrently. With no names it
// waits for every deployment in the namespace. The first failure cancels the other waits.
func WaitForDeploymentsReady(
	ctx context.Context,
	clientset kubernetes.Interface,
	namespace string,
	deadline time.Duration,
	names ...string,
) error {
	if len(names) == 0 {
		list, err := clientset.AppsV1().Deployments(namespace).List(ctx, metav1.ListOptions{})
		if err != nil {
			return fmt.Errorf("list deployments in %s: %w", namespace, err)
		}

		for i := range list.Items {
			names = append(names, list.Items[i].Name)
		}
	}

	group, groupCtx := errgroup.WithContext(ctx)

	for _, name := range names {
		group.Go(func() error {
			err := WaitForDeploymentReady(groupCtx, clientset, namespace, name, deadline)
			if err != nil {
				return fmt.Errorf("deployment %s/%s: %w", namespace, name, err)
			}

			return nil
		})
	}

	return group.Wait() //nolint:wrapcheck // each goroutine wraps its own error
}

// WaitForDeploymentReady polls a single deployment until its rollout completes.
func WaitForDeploymentReady(
	ctx context.Context,
	clientset kubernetes.Interface,
	namespace, name string,
	deadline time.Duration,
) error {
	log := logging.For("readiness")

	return PollForReadiness(ctx, deadline, func(ctx context.Context) (bool, error) {
		deployment, err := clientset.AppsV1().Deployments(namespace).Get(ctx, name, metav1.GetOptions{})
		if err != nil {
			log.Debugf("deployment %s/%s not readable yet: %v", namespace, name, err)

			return false, nil
		}

		return isDeploymentReady(deployment), nil
	})
}

// isDeploymentReady mirrors the checks kubectl rollout status performs.
func isDeploymentReady(deployment *appsv1.Deployment) bool {
	if deployment.Generation > deployment.Status.ObservedGeneration {
		return false
	}

	desired := int32(1)
	if deployment.Spec.Replicas != nil {
		desired = *deployment.Spec.Replicas
	}

	status := deployment.Status

	return status.UpdatedReplicas >= desired &&
		status.Replicas == status.UpdatedReplicas &&
		status.AvailableReplicas >= desired
}
