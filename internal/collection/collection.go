// Package collection provides a generic, order-preserving container with
// pure transformations. Every operation returns a new collection; receivers
// are never mutated, so a collection behaves as an immutable snapshot of the
// query that produced it.
package collection

import "sort"

// Collection is an ordered, finite sequence of items.
// The zero value is an empty collection, ready to use.
type Collection[T any] struct {
	items []T
}

// New creates a collection over the given items. The slice is copied, so
// later changes to it do not leak into the collection.
func New[T any](items []T) Collection[T] {
	copied := make([]T, len(items))
	copy(copied, items)
	return Collection[T]{items: copied}
}

// Len returns the number of items.
func (c Collection[T]) Len() int {
	return len(c.items)
}

// At returns the item at index i. Panics if i is out of range.
func (c Collection[T]) At(i int) T {
	return c.items[i]
}

// Items returns a defensive copy of the underlying slice.
func (c Collection[T]) Items() []T {
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Each calls fn for every item in order. Each call iterates from the
// beginning, so repeated iteration always starts fresh.
func (c Collection[T]) Each(fn func(T)) {
	for _, item := range c.items {
		fn(item)
	}
}

// Filter returns a new collection holding the items for which pred is true,
// in their original relative order.
func (c Collection[T]) Filter(pred func(T) bool) Collection[T] {
	kept := make([]T, 0, len(c.items))
	for _, item := range c.items {
		if pred(item) {
			kept = append(kept, item)
		}
	}
	return Collection[T]{items: kept}
}

// SortBy returns a new collection sorted by the given less function.
// The sort is stable: equal items keep their relative order.
func (c Collection[T]) SortBy(less func(a, b T) bool) Collection[T] {
	out := c.Items()
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return Collection[T]{items: out}
}

// Take returns a new collection with at most n leading items.
// n <= 0 yields an empty collection; n beyond the length yields everything.
func (c Collection[T]) Take(n int) Collection[T] {
	if n < 0 {
		n = 0
	}
	if n > len(c.items) {
		n = len(c.items)
	}
	return New(c.items[:n])
}

// Skip returns a new collection without the first n items.
// n <= 0 yields the whole collection; n beyond the length yields empty.
func (c Collection[T]) Skip(n int) Collection[T] {
	if n < 0 {
		n = 0
	}
	if n > len(c.items) {
		n = len(c.items)
	}
	return New(c.items[n:])
}

// First returns the first item, or false when the collection is empty.
func (c Collection[T]) First() (T, bool) {
	if len(c.items) == 0 {
		var zero T
		return zero, false
	}
	return c.items[0], true
}

// Last returns the last item, or false when the collection is empty.
func (c Collection[T]) Last() (T, bool) {
	if len(c.items) == 0 {
		var zero T
		return zero, false
	}
	return c.items[len(c.items)-1], true
}

// Any reports whether any item matches pred. A nil predicate tests
// non-emptiness.
func (c Collection[T]) Any(pred func(T) bool) bool {
	if pred == nil {
		return len(c.items) > 0
	}
	for _, item := range c.items {
		if pred(item) {
			return true
		}
	}
	return false
}

// All reports whether every item matches pred. True on an empty collection.
func (c Collection[T]) All(pred func(T) bool) bool {
	for _, item := range c.items {
		if !pred(item) {
			return false
		}
	}
	return true
}

// GroupBy partitions the items by the key function. Group keys appear in
// first-occurrence order and items keep their original order within a group.
func (c Collection[T]) GroupBy(key func(T) string) Grouped[T] {
	g := Grouped[T]{groups: make(map[string][]T)}
	for _, item := range c.items {
		k := key(item)
		if _, seen := g.groups[k]; !seen {
			g.keys = append(g.keys, k)
		}
		g.groups[k] = append(g.groups[k], item)
	}
	return g
}

// Map applies fn to every item and returns the results as a plain slice.
// A package function rather than a method because the element type changes.
func Map[T, U any](c Collection[T], fn func(T) U) []U {
	out := make([]U, 0, c.Len())
	c.Each(func(item T) {
		out = append(out, fn(item))
	})
	return out
}

// Grouped is the result of GroupBy: named groups in first-occurrence order.
type Grouped[T any] struct {
	keys   []string
	groups map[string][]T
}

// Keys returns the group keys in first-occurrence order.
func (g Grouped[T]) Keys() []string {
	out := make([]string, len(g.keys))
	copy(out, g.keys)
	return out
}

// Get returns the collection for a key, or false if the key has no group.
func (g Grouped[T]) Get(key string) (Collection[T], bool) {
	items, ok := g.groups[key]
	if !ok {
		return Collection[T]{}, false
	}
	return New(items), true
}

// Len returns the number of groups.
func (g Grouped[T]) Len() int {
	return len(g.keys)
}

// Each calls fn for every group in key order.
func (g Grouped[T]) Each(fn func(key string, items Collection[T])) {
	for _, k := range g.keys {
		fn(k, New(g.groups[k]))
	}
}
