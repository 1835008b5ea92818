package installer_test

import (
	"context"
	"testing"
	"time"

	"github.com/devantler-tech/argoboot/pkg/apis/bootstrap/v1alpha1"
	"github.com/devantler-tech/argoboot/pkg/k8s/readiness"
	"github.com/devantler-tech/argoboot/pkg/svc/installer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"
)

func TestGetInstallTimeout(t *testing.T) {
	t.Parallel()

	assert.Equal(t, installer.DefaultInstallTimeout, installer.GetInstallTimeout(nil))

	cfg := v1alpha1.NewConfig()
	cfg.ArgoCD.ReadyTimeout = 0
	assert.Equal(t, installer.DefaultInstallTimeout, installer.GetInstallTimeout(cfg))

	cfg.ArgoCD.ReadyTimeout = time.Minute
	assert.Equal(t, time.Minute, installer.GetInstallTimeout(cfg))
}

func readyPod(name string) *corev1.Pod {
	return &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: "argocd"},
		Status: corev1.PodStatus{
			Phase:      corev1.PodRunning,
			Conditions: []corev1.PodCondition{{Type: corev1.PodReady, Status: corev1.ConditionTrue}},
		},
	}
}

func TestWaitForNamespaceReady(t *testing.T) {
	t.Parallel()

	replicas := int32(1)
	deployment := &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{Name: "argocd-server", Namespace: "argocd", Generation: 1},
		Spec:       appsv1.DeploymentSpec{Replicas: &replicas},
		Status: appsv1.DeploymentStatus{
			ObservedGeneration: 1,
			Replicas:           1,
			UpdatedReplicas:    1,
			ReadyReplicas:      1,
			AvailableReplicas:  1,
		},
	}

	clientset := fake.NewClientset(deployment, readyPod("argocd-server-0"))

	err := installer.WaitForNamespaceReady(context.Background(), clientset, "argocd", time.Second, "Argo CD")
	require.NoError(t, err)
}

func TestWaitForNamespaceReadyDiagnoses(t *testing.T) {
	t.Parallel()

	pending := &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Name: "argocd-repo-server-0", Namespace: "argocd"},
		Status: corev1.PodStatus{
			Phase: corev1.PodPending,
			ContainerStatuses: []corev1.ContainerStatus{{
				Name:  "repo-server",
				Image: "quay.io/argoproj/argocd:v3",
				State: corev1.ContainerState{
					Waiting: &corev1.ContainerStateWaiting{Reason: "ImagePullBackOff"},
				},
			}},
		},
	}

	clientset := fake.NewClientset(pending)

	err := installer.WaitForNamespaceReady(
		context.Background(), clientset, "argocd", 300*time.Millisecond, "Argo CD",
	)

	require.ErrorIs(t, err, readiness.ErrTimeoutExceeded)
	assert.Contains(t, err.Error(), "wait for Argo CD pods")
	assert.Contains(t, err.Error(), "ImagePullBackOff")
}
