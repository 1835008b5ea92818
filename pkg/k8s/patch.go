package k8s

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/kubernetes"
)

// RestartedAtAnnotation is the pod template annotation kubectl rollout restart sets.
const RestartedAtAnnotation = "kubectl.kubernetes.io/restartedAt"

// PatchServiceType sets spec.type on service namespace/name. It reports false without
// error when the service does not exist.
func PatchServiceType(
	ctx context.Context,
	clientset kubernetes.Interface,
	namespace, name string,
	serviceType corev1.ServiceType,
) (bool, error) {
	patch, err := json.Marshal(map[string]any{
		"spec": map[string]any{"type": serviceType},
	})
	if err != nil {
		return false, fmt.Errorf("marshal service patch: %w", err)
	}

	_, err = clientset.CoreV1().Services(namespace).
		Patch(ctx, name, types.MergePatchType, patch, metav1.PatchOptions{})
	if apierrors.IsNotFound(err) {
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("patch service %s/%s: %w", namespace, name, err)
	}

	return true, nil
}

// RestartDeployment triggers a rolling restart the way kubectl rollout restart does,
// by stamping the pod template with the restart time.
func RestartDeployment(
	ctx context.Context,
	clientset kubernetes.Interface,
	namespace, name string,
	now time.Time,
) error {
	patch, err := json.Marshal(map[string]any{
		"spec": map[string]any{
			"template": map[string]any{
				"metadata": map[string]any{
					"annotations": map[string]string{
						RestartedAtAnnotation: now.Format(time.RFC3339),
					},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("marshal restart patch: %w", err)
	}

	_, err = clientset.AppsV1().Deployments(namespace).
		Patch(ctx, name, types.StrategicMergePatchType, patch, metav1.PatchOptions{})
	if err != nil {
		return fmt.Errorf("restart deployment %s/%s: %w", namespace, name, err)
	}

	return nil
}
