package stats

// Option holds a value that may be absent. The zero value is absent.
// Absent values serialise to the report writer's NA token rather than a
// sentinel numeric value (spec.md §9's explicit design note).
type Option[T any] struct {
	value T
	ok    bool
}

// Some wraps a present value.
func Some[T any](v T) Option[T] { return Option[T]{value: v, ok: true} }

// None returns an absent value.
func None[T any]() Option[T] { return Option[T]{} }

// Get returns the value and whether it was present.
func (o Option[T]) Get() (T, bool) { return o.value, o.ok }

// Valid reports whether the option holds a value.
func (o Option[T]) Valid() bool { return o.ok }
