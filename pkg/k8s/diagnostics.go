package k8s

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

// DiagnosePodFailures returns one line per unhealthy pod in namespace, e.g.
// "argocd-server-abc: ImagePullBackOff for quay.io/argoproj/argocd:v3". It returns nil
// when every pod is healthy.
func DiagnosePodFailures(
	ctx context.Context,
	clientset kubernetes.Interface,
	namespace string,
) []string {
	pods, err := clientset.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return []string{fmt.Sprintf("failed to list pods in %s: %v", namespace, err)}
	}

	var failures []string

	for i := range pods.Items {
		pod := &pods.Items[i]
		if !isPodHealthy(pod) {
			failures = append(failures, describePodFailure(pod))
		}
	}

	return failures
}

func isPodHealthy(pod *corev1.Pod) bool {
	switch pod.Status.Phase {
	case corev1.PodSucceeded:
		return true
	case corev1.PodRunning:
		for _, container := range pod.Status.ContainerStatuses {
			if !container.Ready {
				return false
			}
		}

		return true
	default:
		return false
	}
}

func describePodFailure(pod *corev1.Pod) string {
	statuses := append(
		append([]corev1.ContainerStatus{}, pod.Status.InitContainerStatuses...),
		pod.Status.ContainerStatuses...,
	)

	for _, container := range statuses {
		state := container.State

		switch {
		case state.Waiting != nil && state.Waiting.Reason != "":
			return fmt.Sprintf("%s: %s for %s", pod.Name, state.Waiting.Reason, container.Image)
		case state.Terminated != nil && state.Terminated.ExitCode != 0:
			return fmt.Sprintf("%s: %s exited with code %d (%s)",
				pod.Name, container.Name, state.Terminated.ExitCode, state.Terminated.Reason)
		}
	}

	if pod.Status.Reason != "" {
		return fmt.Sprintf("%s: %s (%s)", pod.Name, pod.Status.Phase, pod.Status.Reason)
	}

	return fmt.Sprintf("%s: %s", pod.Name, pod.Status.Phase)
}
