package readiness

import (
	"context"
	"time"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

// WaitForNodesReady polls until at least expected nodes exist and all of them are Ready.
func WaitForNodesReady(
	ctx context.Context,
	clientset kubernetes.Interface,
	expected int,
	deadline time.Duration,
) error {
	if expected < 1 {
		expected = 1
	}

	return PollForReadiness(ctx, deadline, func(ctx context.Context) (bool, error) {
		nodes, err := clientset.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
		if err != nil {
			return false, nil //nolint:nilerr // transient, keep polling
		}

		if len(nodes.Items) < expected {
			return false, nil
		}

		for i := range nodes.Items {
			if !isNodeReady(&nodes.Items[i]) {
				return false, nil
			}
		}

		return true, nil
	})
}

func isNodeReady(node *corev1.Node) bool {
	for _, cond := range node.Status.Conditions {
		if cond.Type == corev1.NodeReady {
			return cond.Status == corev1.ConditionTrue
		}
	}

	return false
}
