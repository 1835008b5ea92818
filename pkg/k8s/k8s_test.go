package k8s_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/devantler-tech/argoboot/pkg/k8s"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes/fake"
	k8stesting "k8s.io/client-go/testing"
)

var errAPIDown = errors.New("api down")

const testKubeconfig = `apiVersion: v1
kind: Config
clusters:
- cluster:
    server: https://127.0.0.1:6443
  name: k3d-argoboot
contexts:
- context:
    cluster: k3d-argoboot
    user: admin@k3d-argoboot
  name: k3d-argoboot
current-context: k3d-argoboot
users:
- name: admin@k3d-argoboot
  user:
    token: test
`

func writeKubeconfig(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config")
	require.NoError(t, os.WriteFile(path, []byte(testKubeconfig), 0o600))

	return path
}

func TestBuildRESTConfig(t *testing.T) {
	t.Parallel()

	path := writeKubeconfig(t)

	config, err := k8s.BuildRESTConfig(path, "k3d-argoboot")
	require.NoError(t, err)
	assert.Equal(t, "https://127.0.0.1:6443", config.Host)

	_, err = k8s.BuildRESTConfig(path, "kind-missing")
	require.Error(t, err)

	_, err = k8s.BuildRESTConfig("", "")
	require.ErrorIs(t, err, k8s.ErrKubeconfigPathEmpty)
}

func TestNewClients(t *testing.T) {
	t.Parallel()

	clients, err := k8s.NewClients(writeKubeconfig(t), "k3d-argoboot")

	require.NoError(t, err)
	assert.NotNil(t, clients.Clientset)
	assert.NotNil(t, clients.Dynamic)
	assert.NotNil(t, clients.Mapper)

	_, err = k8s.NewClients("", "")
	require.ErrorIs(t, err, k8s.ErrKubeconfigPathEmpty)
}

func TestEnsureNamespace(t *testing.T) {
	t.Parallel()

	clientset := fake.NewClientset()

	created, err := k8s.EnsureNamespace(context.Background(), clientset, "argocd")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = k8s.EnsureNamespace(context.Background(), clientset, "argocd")
	require.NoError(t, err)
	assert.False(t, created)
}

func TestEnsureNamespaceAPIError(t *testing.T) {
	t.Parallel()

	clientset := fake.NewClientset()
	clientset.PrependReactor("create", "namespaces", func(k8stesting.Action) (bool, runtime.Object, error) {
		return true, nil, errAPIDown
	})

	_, err := k8s.EnsureNamespace(context.Background(), clientset, "argocd")

	require.ErrorIs(t, err, errAPIDown)
}

func TestGetSecretValue(t *testing.T) {
	t.Parallel()

	clientset := fake.NewClientset(&corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{Name: "argocd-initial-admin-secret", Namespace: "argocd"},
		Data:       map[string][]byte{"password": []byte("s3cret")},
	})

	value, err := k8s.GetSecretValue(context.Background(), clientset, "argocd", "argocd-initial-admin-secret", "password")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", value)

	_, err = k8s.GetSecretValue(context.Background(), clientset, "argocd", "argocd-initial-admin-secret", "token")
	require.ErrorIs(t, err, k8s.ErrSecretKeyMissing)

	_, err = k8s.GetSecretValue(context.Background(), clientset, "argocd", "missing", "password")
	require.Error(t, err)
	assert.True(t, apierrors.IsNotFound(err))
}

func TestPatchServiceType(t *testing.T) {
	t.Parallel()

	clientset := fake.NewClientset(&corev1.Service{
		ObjectMeta: metav1.ObjectMeta{Name: "argocd-server", Namespace: "argocd"},
		Spec:       corev1.ServiceSpec{Type: corev1.ServiceTypeClusterIP},
	})

	found, err := k8s.PatchServiceType(context.Background(), clientset, "argocd", "argocd-server", corev1.ServiceTypeLoadBalancer)
	require.NoError(t, err)
	assert.True(t, found)

	svc, err := clientset.CoreV1().Services("argocd").Get(context.Background(), "argocd-server", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, corev1.ServiceTypeLoadBalancer, svc.Spec.Type)

	found, err = k8s.PatchServiceType(context.Background(), clientset, "argocd", "missing", corev1.ServiceTypeLoadBalancer)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRestartDeployment(t *testing.T) {
	t.Parallel()

	clientset := fake.NewClientset(&appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{Name: "argocd-server", Namespace: "argocd"},
	})
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	require.NoError(t, k8s.RestartDeployment(context.Background(), clientset, "argocd", "argocd-server", now))

	deployment, err := clientset.AppsV1().Deployments("argocd").Get(context.Background(), "argocd-server", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, "2026-01-02T03:04:05Z", deployment.Spec.Template.Annotations[k8s.RestartedAtAnnotation])

	err = k8s.RestartDeployment(context.Background(), clientset, "argocd", "missing", now)
	require.Error(t, err)
}

func TestDiagnosePodFailures(t *testing.T) {
	t.Parallel()

	clientset := fake.NewClientset(
		&corev1.Pod{
			ObjectMeta: metav1.ObjectMeta{Name: "healthy", Namespace: "argocd"},
			Status: corev1.PodStatus{
				Phase:             corev1.PodRunning,
				ContainerStatuses: []corev1.ContainerStatus{{Ready: true}},
			},
		},
		&corev1.Pod{
			ObjectMeta: metav1.ObjectMeta{Name: "pulling", Namespace: "argocd"},
			Status: corev1.PodStatus{
				Phase: corev1.PodPending,
				ContainerStatuses: []corev1.ContainerStatus{{
					Image: "quay.io/argoproj/argocd:latest",
					State: corev1.ContainerState{Waiting: &corev1.ContainerStateWaiting{Reason: "ImagePullBackOff"}},
				}},
			},
		},
		&corev1.Pod{
			ObjectMeta: metav1.ObjectMeta{Name: "crashed", Namespace: "argocd"},
			Status: corev1.PodStatus{
				Phase: corev1.PodRunning,
				ContainerStatuses: []corev1.ContainerStatus{{
					Name:  "server",
					State: corev1.ContainerState{Terminated: &corev1.ContainerStateTerminated{ExitCode: 1, Reason: "Error"}},
				}},
			},
		},
	)

	failures := k8s.DiagnosePodFailures(context.Background(), clientset, "argocd")

	assert.ElementsMatch(t, []string{
		"pulling: ImagePullBackOff for quay.io/argoproj/argocd:latest",
		"crashed: server exited with code 1 (Error)",
	}, failures)
	assert.Empty(t, k8s.DiagnosePodFailures(context.Background(), clientset, "empty"))
}
