// Package pool recycles simulation objects instead of allocating a fresh one
// per spawn.
package pool

// Item is an object that can be rented from a Pool.
type Item interface {
	// Reset reinitialises the item before it is handed out.
	Reset()
	// Teardown releases whatever the item holds when it goes back.
	Teardown()
}

// Pool hands out items built by its factory, reusing returned ones first.
// It is not safe for concurrent use.
type Pool[T comparable] struct {
	factory func() T
	reset   func(T)
	free    func(T)

	idle   []T
	active map[T]struct{}
	order  []T
}

// New builds a pool of items implementing Item.
func New[T interface {
	comparable
	Item
}](factory func() T) *Pool[T] {
	return &Pool[T]{
		factory: factory,
		reset:   func(it T) { it.Reset() },
		free:    func(it T) { it.Teardown() },
		active:  make(map[T]struct{}),
	}
}

// Prewarm builds idle items until at least n are idle.
func (p *Pool[T]) Prewarm(n int) {
	for len(p.idle) < n {
		p.idle = append(p.idle, p.factory())
	}
}

// Rent returns a reset item, reusing an idle one when available.
func (p *Pool[T]) Rent() T {
	var it T
	if n := len(p.idle); n > 0 {
		it = p.idle[n-1]
		var zero T
		p.idle[n-1] = zero
		p.idle = p.idle[:n-1]
	} else {
		it = p.factory()
	}

	p.reset(it)
	p.active[it] = struct{}{}
	p.order = append(p.order, it)
	return it
}

// Return tears the item down and makes it available again. Returning an
// item that is not rented does nothing and reports false.
func (p *Pool[T]) Return(it T) bool {
	if _, ok := p.active[it]; !ok {
		return false
	}
	delete(p.active, it)
	for i, a := range p.order {
		if a == it {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}

	p.free(it)
	p.idle = append(p.idle, it)
	return true
}

// Drain returns every active item.
func (p *Pool[T]) Drain() int {
	active := p.Active()
	for _, it := range active {
		p.Return(it)
	}
	return len(active)
}

// Active returns the rented items in the order they were rented.
func (p *Pool[T]) Active() []T {
	out := make([]T, len(p.order))
	copy(out, p.order)
	return out
}

// ForEachActive calls fn for every rented item in rent order. fn may return
// items to the pool.
func (p *Pool[T]) ForEachActive(fn func(T)) {
	for _, it := range p.Active() {
		if p.IsActive(it) {
			fn(it)
		}
	}
}

func (p *Pool[T]) ActiveCount() int {
	return len(p.active)
}

func (p *Pool[T]) IdleCount() int {
	return len(p.idle)
}

// IsActive reports whether it is currently rented.
func (p *Pool[T]) IsActive(it T) bool {
	_, ok := p.active[it]
	return ok
}
