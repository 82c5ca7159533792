package interp

import "sync"

// NameResolver is the variable-scope capability the executor consumes.
// Storage and scoping policy belong to the host.
type NameResolver interface {
	// Get returns the value bound to name.
	Get(name string) ([]byte, bool)
	// GetArgv returns the i-th positional argument, 0..9.
	GetArgv(i int) ([]byte, bool)
	// Bind associates value with name.
	Bind(name string, value []byte)
}

// Snapshotter is implemented by resolvers that can produce an isolated
// copy for a subshell frame.
type Snapshotter interface {
	Snapshot() NameResolver
}

// MapResolver implements an in-memory NameResolver.
type MapResolver struct {
	mu   sync.RWMutex
	vars map[string][]byte
	argv [][]byte
}

var _ NameResolver = (*MapResolver)(nil)
var _ Snapshotter = (*MapResolver)(nil)

// NewMapResolver creates an empty resolver.
func NewMapResolver() *MapResolver {
	return &MapResolver{}
}

// NewMapResolverFrom creates a resolver seeded with vars.
func NewMapResolverFrom(vars map[string]string) *MapResolver {
	m := &MapResolver{}
	for k, v := range vars {
		m.Bind(k, []byte(v))
	}
	return m
}

// SetArgv installs the positional arguments.
func (m *MapResolver) SetArgv(argv []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.argv = nil
	for _, a := range argv {
		m.argv = append(m.argv, []byte(a))
	}
}

// Get implements NameResolver.Get.
func (m *MapResolver) Get(name string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.vars[name]
	return v, ok
}

// GetArgv implements NameResolver.GetArgv.
func (m *MapResolver) GetArgv(i int) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i < 0 || i >= len(m.argv) {
		return nil, false
	}
	return m.argv[i], true
}

// Bind implements NameResolver.Bind.
func (m *MapResolver) Bind(name string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.vars == nil {
		m.vars = make(map[string][]byte)
	}
	m.vars[name] = append([]byte(nil), value...)
}

// Snapshot copies the resolver for an isolated frame.
func (m *MapResolver) Snapshot() NameResolver {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := &MapResolver{vars: make(map[string][]byte, len(m.vars))}
	for k, v := range m.vars {
		out.vars[k] = append([]byte(nil), v...)
	}
	out.argv = append(out.argv, m.argv...)
	return out
}
