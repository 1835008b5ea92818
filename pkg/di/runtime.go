// Package di wires argoboot's commands to their dependencies through a samber/do
// injector. Each command invocation gets a fresh injector so tests can swap any
// provider with an extra module.
package di

import "github.com/samber/do/v2"

// Injector is the dependency container handed to command handlers.
type Injector = do.Injector

// Module registers providers on an injector.
type Module func(Injector) error

// Runtime holds the base modules applied to every invocation.
type Runtime struct {
	modules []Module
}

// New returns a Runtime with modules.
func New(modules ...Module) *Runtime {
	return &Runtime{modules: modules}
}

// Invoke builds an injector from the base modules followed by extra, runs handler and
// shuts the injector down. Nil modules are skipped.
func (r *Runtime) Invoke(handler func(Injector) error, extra ...Module) error {
	injector := do.New()
	defer injector.Shutdown()

	for _, module := range append(append([]Module{}, r.modules...), extra...) {
		if module == nil {
			continue
		}

		err := module(injector)
		if err != nil {
			return err
		}
	}

	return handler(injector)
}
