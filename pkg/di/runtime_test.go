package di_test

import (
	"errors"
	"io"
	"sync/atomic"
	"testing"

	"github.com/devantler-tech/argoboot/pkg/apis/bootstrap/v1alpha1"
	"github.com/devantler-tech/argoboot/pkg/di"
	"github.com/devantler-tech/argoboot/pkg/svc/bootstrap"
	"github.com/devantler-tech/argoboot/pkg/timer"
	"github.com/samber/do/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	errModule       = errors.New("module error")
	errFakeFactory  = errors.New("fake factory")
	errNotAvailable = errors.New("docker engine unavailable")
)

type fakeBootstrapFactory struct{}

func (fakeBootstrapFactory) New(*v1alpha1.Config, io.Writer, timer.Timer) (*bootstrap.Orchestrator, error) {
	return nil, errFakeFactory
}

type closingService struct {
	closed *atomic.Bool
}

func (s closingService) Shutdown() error {
	s.closed.Store(true)

	return nil
}

func TestInvoke_ExtraModuleOverridesBootstrapFactory(t *testing.T) {
	t.Parallel()

	override := func(i di.Injector) error {
		do.Override(i, func(di.Injector) (bootstrap.Factory, error) {
			return fakeBootstrapFactory{}, nil
		})

		return nil
	}

	err := di.NewRuntime().Invoke(func(injector di.Injector) error {
		factory, err := di.ResolveBootstrapFactory(injector)
		require.NoError(t, err)

		_, err = factory.New(v1alpha1.NewConfig(), io.Discard, nil)

		return err
	}, override)

	require.ErrorIs(t, err, errFakeFactory)
}

func TestInvoke_DefaultBootstrapFactoryWithoutOverride(t *testing.T) {
	t.Parallel()

	err := di.NewRuntime().Invoke(func(injector di.Injector) error {
		factory, err := di.ResolveBootstrapFactory(injector)
		require.NoError(t, err)
		assert.IsType(t, bootstrap.DefaultFactory{}, factory)

		return nil
	})

	require.NoError(t, err)
}

func TestInvoke_AppliesBaseModulesBeforeExtras(t *testing.T) {
	t.Parallel()

	var order []string

	record := func(name string) di.Module {
		return func(di.Injector) error {
			order = append(order, name)

			return nil
		}
	}

	runtime := di.New(record("timer"), nil, record("factory"))

	err := runtime.Invoke(func(di.Injector) error {
		order = append(order, "handler")

		return nil
	}, nil, record("override"))

	require.NoError(t, err)
	assert.Equal(t, []string{"timer", "factory", "override", "handler"}, order)
}

func TestInvoke_ModuleErrorSkipsHandler(t *testing.T) {
	t.Parallel()

	runtime := di.New(func(di.Injector) error { return errModule })

	err := runtime.Invoke(func(di.Injector) error {
		t.Fatal("handler must not run after a module error")

		return nil
	})

	require.ErrorIs(t, err, errModule)
	assert.Equal(t, errModule, err)
}

func TestInvoke_ReturnsHandlerError(t *testing.T) {
	t.Parallel()

	err := di.NewRuntime().Invoke(func(di.Injector) error { return errNotAvailable })

	require.ErrorIs(t, err, errNotAvailable)
}

func TestInvoke_FreshInjectorPerInvocation(t *testing.T) {
	t.Parallel()

	runtime := di.New()
	provideTimer := func(i di.Injector) error {
		do.Provide(i, func(di.Injector) (timer.Timer, error) { return timer.New(), nil })

		return nil
	}

	require.NoError(t, runtime.Invoke(func(injector di.Injector) error {
		_, err := di.ResolveTimer(injector)

		return err
	}, provideTimer))

	err := runtime.Invoke(func(injector di.Injector) error {
		_, err := di.ResolveTimer(injector)

		return err
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "resolve timer dependency")
}

func TestInvoke_ShutsDownInjectorAfterHandler(t *testing.T) {
	t.Parallel()

	var closed atomic.Bool

	runtime := di.New(func(i di.Injector) error {
		do.Provide(i, func(di.Injector) (closingService, error) {
			return closingService{closed: &closed}, nil
		})

		return nil
	})

	err := runtime.Invoke(func(injector di.Injector) error {
		_, err := do.Invoke[closingService](injector)
		require.NoError(t, err)
		assert.False(t, closed.Load())

		return nil
	})

	require.NoError(t, err)
	assert.True(t, closed.Load())
}
