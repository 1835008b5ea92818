package k8s

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/devantler-tech/argoboot/pkg/utils/logging"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	utilyaml "k8s.io/apimachinery/pkg/util/yaml"
	sigsyaml "sigs.k8s.io/yaml"
)

const crdKind = "CustomResourceDefinition"

// DecodeManifest splits a multi-document YAML or JSON manifest into objects. Empty
// documents are skipped; List kinds are flattened.
func DecodeManifest(data []byte) ([]*unstructured.Unstructured, error) {
	reader := utilyaml.NewYAMLReader(bufio.NewReader(bytes.NewReader(data)))

	var objects []*unstructured.Unstructured

	for index := 0; ; index++ {
		doc, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return objects, nil
		}

		if err != nil {
			return nil, fmt.Errorf("%w: read document %d: %w", ErrInvalidManifest, index, err)
		}

		if len(bytes.TrimSpace(doc)) == 0 {
			continue
		}

		jsonDoc, err := sigsyaml.YAMLToJSON(doc)
		if err != nil {
			return nil, fmt.Errorf("%w: document %d: %w", ErrInvalidManifest, index, err)
		}

		if bytes.Equal(bytes.TrimSpace(jsonDoc), []byte("null")) {
			continue
		}

		obj := &unstructured.Unstructured{}

		err = obj.UnmarshalJSON(jsonDoc)
		if err != nil {
			return nil, fmt.Errorf("%w: document %d: %w", ErrInvalidManifest, index, err)
		}

		if obj.IsList() {
			err = obj.EachListItem(func(item runtime.Object) error {
				objects = append(objects, item.(*unstructured.Unstructured)) //nolint:forcetypeassert // unstructured lists hold unstructured items

				return nil
			})
			if err != nil {
				return nil, fmt.Errorf("%w: document %d: %w", ErrInvalidManifest, index, err)
			}

			continue
		}

		objects = append(objects, obj)
	}
}

// ApplyOptions configures ApplyManifest.
type ApplyOptions struct {
	// FieldManager owns the applied fields.
	FieldManager string
	// Namespace is used for namespaced objects that carry none.
	Namespace string
}

// ApplyManifest server-side applies objects with forced conflicts, CRDs first. After
// CRDs are applied the RESTMapper is reset so their kinds resolve for later objects.
func ApplyManifest(
	ctx context.Context,
	clients *Clients,
	objects []*unstructured.Unstructured,
	opts ApplyOptions,
) error {
	var crds, rest []*unstructured.Unstructured

	for _, obj := range objects {
		if obj.GetKind() == crdKind {
			crds = append(crds, obj)
		} else {
			rest = append(rest, obj)
		}
	}

	for _, obj := range crds {
		err := applyObject(ctx, clients, obj, opts)
		if err != nil {
			return err
		}
	}

	if resettable, ok := clients.Mapper.(meta.ResettableRESTMapper); ok && len(crds) > 0 {
		resettable.Reset()
	}

	for _, obj := range rest {
		err := applyObject(ctx, clients, obj, opts)
		if err != nil {
			return err
		}
	}

	return nil
}

func applyObject(
	ctx context.Context,
	clients *Clients,
	obj *unstructured.Unstructured,
	opts ApplyOptions,
) error {
	gvk := obj.GroupVersionKind()
	ref := describe(obj)

	mapping, err := clients.Mapper.RESTMapping(gvk.GroupKind(), gvk.Version)
	if err != nil {
		return fmt.Errorf("map %s: %w", ref, err)
	}

	data, err := obj.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode %s: %w", ref, err)
	}

	force := true
	resource := clients.Dynamic.Resource(mapping.Resource)
	patchOpts := metav1.PatchOptions{FieldManager: opts.FieldManager, Force: &force}

	if mapping.Scope.Name() == meta.RESTScopeNameNamespace {
		namespace := obj.GetNamespace()
		if namespace == "" {
			namespace = opts.Namespace
		}

		_, err = resource.Namespace(namespace).
			Patch(ctx, obj.GetName(), types.ApplyPatchType, data, patchOpts)
	} else {
		_, err = resource.Patch(ctx, obj.GetName(), types.ApplyPatchType, data, patchOpts)
	}

	if err != nil {
		return fmt.Errorf("apply %s: %w", ref, err)
	}

	logging.For("apply").Debugf("applied %s", ref)

	return nil
}

func describe(obj *unstructured.Unstructured) string {
	parts := []string{strings.ToLower(obj.GetKind())}
	if obj.GetNamespace() != "" {
		parts = append(parts, obj.GetNamespace())
	}

	return strings.Join(append(parts, obj.GetName()), "/")
}
