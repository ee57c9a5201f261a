package hilt

// Registration is a deferred registration built by Provide, ProvideValue,
// Contribute or Alias and applied by Install or a Module.
type Registration struct {
	key   func() (Key, error)
	apply func(c *Container) error
}

// Key returns the key the registration binds.
func (r Registration) Key() (Key, error) {
	return r.key()
}

func Provide[T any](factory Factory[T], opts ...BindingOption) Registration {
	return Registration{
		key: func() (Key, error) { return bindingKey[T](newBindingConfig(opts)) },
		apply: func(c *Container) error {
			return Register(c, factory, opts...)
		},
	}
}

func ProvideValue[T any](value T, opts ...BindingOption) Registration {
	return Registration{
		key: func() (Key, error) { return bindingKey[T](newBindingConfig(opts)) },
		apply: func(c *Container) error {
			return RegisterValue(c, value, opts...)
		},
	}
}

// Contribute is the deferred form of RegisterMany.
func Contribute[T any](factory Factory[T], opts ...BindingOption) Registration {
	return Registration{
		key: func() (Key, error) { return bindingKey[T](newBindingConfig(opts)) },
		apply: func(c *Container) error {
			return RegisterMany(c, factory, opts...)
		},
	}
}

// Alias is the deferred form of Bind.
func Alias[I, T any](opts ...BindingOption) Registration {
	return Registration{
		key: func() (Key, error) { return bindingKey[I](newBindingConfig(opts)) },
		apply: func(c *Container) error {
			return Bind[I, T](c, opts...)
		},
	}
}

// Install applies registrations in order and stops at the first failure.
func (c *Container) Install(regs ...Registration) error {
	for _, r := range regs {
		if err := r.apply(c); err != nil {
			return err
		}
	}
	return nil
}

// Module is a named, reusable group of registrations.
type Module struct {
	name       string
	regs       []Registration
	submodules []*Module
}

func NewModule(name string) *Module {
	return &Module{
		name: name,
	}
}

func (m *Module) Name() string {
	return m.name
}

func (m *Module) Add(regs ...Registration) *Module {
	m.regs = append(m.regs, regs...)
	return m
}

func (m *Module) Include(submodule *Module) *Module {
	m.submodules = append(m.submodules, submodule)
	return m
}

// Keys lists the keys bound by the module and its submodules, submodules first.
func (m *Module) Keys() ([]Key, error) {
	var keys []Key
	for _, sub := range m.submodules {
		subKeys, err := sub.Keys()
		if err != nil {
			return nil, err
		}
		keys = append(keys, subKeys...)
	}
	for _, r := range m.regs {
		k, err := r.Key()
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, nil
}

func (m *Module) apply(c *Container) error {
	for _, sub := range m.submodules {
		if err := sub.apply(c); err != nil {
			return err
		}
	}
	return c.Install(m.regs...)
}

// Apply installs modules in order. Submodules are applied before the module
// that includes them, so the including module can override their bindings.
func (c *Container) Apply(modules ...*Module) error {
	for _, m := range modules {
		if err := m.apply(c); err != nil {
			return errModuleApplyFailed(m.name, err)
		}
	}
	return nil
}
