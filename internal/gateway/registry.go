package gateway

import "fmt"

// Registry holds all configured credential gateways and allows
// lookup by gateway name. It performs no auth logic itself.
type Registry struct {
	gateways map[string]Gateway
}

// NewRegistry registers the given gateways by name.
// Gateway names must be unique.
func NewRegistry(list ...Gateway) *Registry {
	m := make(map[string]Gateway)
	for _, g := range list {
		m[g.Name()] = g
	}
	return &Registry{gateways: m}
}

// Get returns the gateway by name or an error if not registered.
func (r *Registry) Get(name string) (Gateway, error) {
	g, ok := r.gateways[name]
	if !ok {
		return nil, fmt.Errorf("unknown credential gateway: %s", name)
	}
	return g, nil
}
