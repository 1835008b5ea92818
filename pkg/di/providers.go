package di

import (
	"github.com/devantler-tech/argoboot/pkg/svc/bootstrap"
	clusterprovisioner "github.com/devantler-tech/argoboot/pkg/svc/provisioner/cluster"
	"github.com/devantler-tech/argoboot/pkg/timer"
	"github.com/samber/do/v2"
)

// Dependency providers.

// NewRuntime constructs the shared runtime container used by root command and tests.
// It registers default implementations for timer, cluster provisioner factory and
// bootstrap factory.
func NewRuntime() *Runtime {
	return New(
		provideTimer,
		provideClusterProvisionerFactory,
		provideBootstrapFactory,
	)
}

func provideTimer(i Injector) error {
	do.Provide(i, func(Injector) (timer.Timer, error) {
		return timer.New(), nil
	})

	return nil
}

func provideClusterProvisionerFactory(i Injector) error {
	do.Provide(i, func(Injector) (clusterprovisioner.Factory, error) {
		return clusterprovisioner.DefaultFactory{}, nil
	})

	return nil
}

func provideBootstrapFactory(i Injector) error {
	do.Provide(i, func(injector Injector) (bootstrap.Factory, error) {
		provisioners, err := ResolveClusterProvisionerFactory(injector)
		if err != nil {
			return nil, err
		}

		return bootstrap.DefaultFactory{Provisioners: provisioners}, nil
	})

	return nil
}
