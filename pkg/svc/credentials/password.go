package credentials

import (
	"context"
	"fmt"
	"time"

	"github.com/devantler-tech/argoboot/pkg/k8s"
	"github.com/devantler-tech/argoboot/pkg/utils/logging"
	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/client-go/kubernetes"
)

// PasswordKey is the data key holding the initial admin password.
const PasswordKey = "password"

// PasswordWaiter reads the admin password once Argo CD has generated it.
type PasswordWaiter struct {
	clientset kubernetes.Interface
	namespace string
	secret    string
	interval  time.Duration
}

// NewPasswordWaiter returns a waiter polling secret in namespace every interval.
func NewPasswordWaiter(
	clientset kubernetes.Interface,
	namespace, secret string,
	interval time.Duration,
) *PasswordWaiter {
	return &PasswordWaiter{clientset: clientset, namespace: namespace, secret: secret, interval: interval}
}

// WaitForAdminPassword polls until the secret exists and carries a password. There is
// no deadline: only ctx stops the wait.
func (w *PasswordWaiter) WaitForAdminPassword(ctx context.Context) (string, error) {
	log := logging.For("credentials")

	var password string

	err := wait.PollUntilContextCancel(ctx, w.interval, true, func(ctx context.Context) (bool, error) {
		value, err := k8s.GetSecretValue(ctx, w.clientset, w.namespace, w.secret, PasswordKey)
		if err != nil {
			log.Debugf("admin password not available yet: %v", err)

			return false, nil
		}

		if value == "" {
			return false, nil
		}

		password = value

		return true, nil
	})
	if err != nil {
		return "", fmt.Errorf("wait for secret %s/%s: %w", w.namespace, w.secret, err)
	}

	return password, nil
}
