package cart

import "sync"

// Registry holds one cart per username.
type Registry struct {
	mu    sync.Mutex
	carts map[string]*Cart
}

func NewRegistry() *Registry {
	return &Registry{carts: make(map[string]*Cart)}
}

// With runs fn on the user's cart while holding the registry lock.
func (r *Registry) With(username string, fn func(*Cart) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.carts[username]
	if !ok {
		c = New()
		r.carts[username] = c
	}
	return fn(c)
}
