// Package memo provides dependency-keyed memoization for the chart's
// recompute cascade.
//
// A [Stage] remembers the key its last value was computed for. Keys are
// comparable structs naming every input of the stage: scalar options by
// value, upstream stages by their revision. When a stage recomputes its
// revision advances, which changes the keys of the stages below it.
package memo

// Stage caches the latest output of one computation.
type Stage[K comparable, V any] struct {
	key      K
	value    V
	valid    bool
	revision uint64
	runs     int
}

// Get returns the cached value when key matches the last computed key and
// otherwise calls compute. recomputed reports whether compute ran. A failed
// compute leaves the stage invalid so the next Get retries.
func (s *Stage[K, V]) Get(key K, compute func() (V, error)) (value V, recomputed bool, err error) {
	if s.valid && s.key == key {
		return s.value, false, nil
	}
	s.runs++
	v, err := compute()
	if err != nil {
		s.valid = false
		var zero V
		return zero, true, err
	}
	s.key = key
	s.value = v
	s.valid = true
	s.revision++
	return v, true, nil
}

// Peek returns the last computed value without checking the key.
func (s *Stage[K, V]) Peek() (V, bool) {
	return s.value, s.valid
}

// Revision counts successful recomputes.
func (s *Stage[K, V]) Revision() uint64 {
	return s.revision
}

// Runs counts compute calls, failed ones included.
func (s *Stage[K, V]) Runs() int {
	return s.runs
}

// Invalidate forces the next Get to recompute.
func (s *Stage[K, V]) Invalidate() {
	s.valid = false
}
