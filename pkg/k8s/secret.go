package k8s

import (
	"context"
	"fmt"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

// GetSecretValue returns key from secret namespace/name. The API server delivers Data
// already base64-decoded. Get errors are returned unwrapped enough for
// apierrors.IsNotFound to match.
func GetSecretValue(
	ctx context.Context,
	clientset kubernetes.Interface,
	namespace, name, key string,
) (string, error) {
	secret, err := clientset.CoreV1().Secrets(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return "", fmt.Errorf("get secret %s/%s: %w", namespace, name, err)
	}

	value, ok := secret.Data[key]
	if !ok {
		return "", fmt.Errorf("%w: %s/%s has no key %q", ErrSecretKeyMissing, namespace, name, key)
	}

	return string(value), nil
}
