package k8s_test

import (
	"context"
	"sync"
	"testing"

	"github.com/devantler-tech/argoboot/pkg/k8s"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/api/meta"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/types"
	dynamicfake "k8s.io/client-go/dynamic/fake"
	"k8s.io/client-go/kubernetes/fake"
	k8stesting "k8s.io/client-go/testing"
)

const installManifest = `
apiVersion: apiextensions.k8s.io/v1
kind: CustomResourceDefinition
metadata:
  name: applications.argoproj.io
---
# comment-only document
---
apiVersion: v1
kind: ServiceAccount
metadata:
  name: argocd-server
---
apiVersion: rbac.authorization.k8s.io/v1
kind: ClusterRole
metadata:
  name: argocd-server
---
apiVersion: v1
kind: List
items:
- apiVersion: v1
  kind: ConfigMap
  metadata:
    name: argocd-cm
    namespace: other
`

type resettableMapper struct {
	meta.RESTMapper

	resets int
}

func (m *resettableMapper) Reset() {
	m.resets++
}

type appliedObject struct {
	resource  string
	namespace string
	name      string
	patchType types.PatchType
}

func newMapper() *resettableMapper {
	mapper := meta.NewDefaultRESTMapper(nil)
	mapper.Add(schema.GroupVersionKind{Group: "apiextensions.k8s.io", Version: "v1", Kind: "CustomResourceDefinition"}, meta.RESTScopeRoot)
	mapper.Add(schema.GroupVersionKind{Group: "rbac.authorization.k8s.io", Version: "v1", Kind: "ClusterRole"}, meta.RESTScopeRoot)
	mapper.Add(schema.GroupVersionKind{Version: "v1", Kind: "ServiceAccount"}, meta.RESTScopeNamespace)
	mapper.Add(schema.GroupVersionKind{Version: "v1", Kind: "ConfigMap"}, meta.RESTScopeNamespace)

	return &resettableMapper{RESTMapper: mapper}
}

func newRecordingDynamic() (*dynamicfake.FakeDynamicClient, *[]appliedObject) {
	client := dynamicfake.NewSimpleDynamicClient(runtime.NewScheme())

	var (
		mu      sync.Mutex
		applied []appliedObject
	)

	client.PrependReactor("patch", "*", func(action k8stesting.Action) (bool, runtime.Object, error) {
		patch := action.(k8stesting.PatchAction) //nolint:forcetypeassert // reactor registered for patch

		mu.Lock()
		applied = append(applied, appliedObject{
			resource:  patch.GetResource().Resource,
			namespace: patch.GetNamespace(),
			name:      patch.GetName(),
			patchType: patch.GetPatchType(),
		})
		mu.Unlock()

		return true, &unstructured.Unstructured{Object: map[string]any{
			"apiVersion": "v1",
			"kind":       "Applied",
			"metadata":   map[string]any{"name": patch.GetName()},
		}}, nil
	})

	return client, &applied
}

func TestDecodeManifest(t *testing.T) {
	t.Parallel()

	objects, err := k8s.DecodeManifest([]byte(installManifest))

	require.NoError(t, err)
	require.Len(t, objects, 4)
	assert.Equal(t, "CustomResourceDefinition", objects[0].GetKind())
	assert.Equal(t, "ServiceAccount", objects[1].GetKind())
	assert.Equal(t, "ClusterRole", objects[2].GetKind())
	assert.Equal(t, "argocd-cm", objects[3].GetName())
}

func TestDecodeManifestInvalid(t *testing.T) {
	t.Parallel()

	_, err := k8s.DecodeManifest([]byte("kind: [unclosed"))

	require.ErrorIs(t, err, k8s.ErrInvalidManifest)
}

func TestApplyManifestOrdersCRDsAndDefaultsNamespace(t *testing.T) {
	t.Parallel()

	objects, err := k8s.DecodeManifest([]byte(installManifest))
	require.NoError(t, err)

	// CRD last in input to prove reordering.
	objects = append(objects[1:], objects[0])

	dynamicClient, applied := newRecordingDynamic()
	mapper := newMapper()
	clients := &k8s.Clients{Clientset: fake.NewClientset(), Dynamic: dynamicClient, Mapper: mapper}

	err = k8s.ApplyManifest(context.Background(), clients, objects, k8s.ApplyOptions{
		FieldManager: "argoboot",
		Namespace:    "argocd",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, mapper.resets)
	require.Len(t, *applied, 4)

	first := (*applied)[0]
	assert.Equal(t, "customresourcedefinitions", first.resource)
	assert.Equal(t, types.ApplyPatchType, first.patchType)
	assert.Empty(t, first.namespace)

	assert.Equal(t, appliedObject{"serviceaccounts", "argocd", "argocd-server", types.ApplyPatchType}, (*applied)[1])
	assert.Equal(t, appliedObject{"clusterroles", "", "argocd-server", types.ApplyPatchType}, (*applied)[2])
	assert.Equal(t, appliedObject{"configmaps", "other", "argocd-cm", types.ApplyPatchType}, (*applied)[3])
}

func TestApplyManifestUnknownKind(t *testing.T) {
	t.Parallel()

	objects, err := k8s.DecodeManifest([]byte("apiVersion: example.com/v1\nkind: Widget\nmetadata:\n  name: w\n"))
	require.NoError(t, err)

	dynamicClient, _ := newRecordingDynamic()
	clients := &k8s.Clients{Dynamic: dynamicClient, Mapper: newMapper()}

	err = k8s.ApplyManifest(context.Background(), clients, objects, k8s.ApplyOptions{Namespace: "argocd"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "widget/w")
}
