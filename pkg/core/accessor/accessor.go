// Package accessor resolves configured values that may be constants or
// functions of the data being read.
//
// An [Accessor] is a tagged union: it either holds a fixed value or a [Func].
// Both are read the same way with [Accessor.Resolve], which never fails.
// Every accessor carries an identity assigned at construction; the chart
// engine memoizes materialization on those identities, so replacing an
// accessor with a newly built one forces a recompute even when it behaves
// the same.
package accessor

import (
	"reflect"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/matzehuels/chartcore/pkg/core/plot"
)

// Context is what an accessor reads. Series-level accessors receive the
// series record as both Record and Series, with Index equal to SeriesIndex.
type Context struct {
	Record      any
	Index       int
	Series      any
	SeriesIndex int
	Data        any
}

// Func computes a value from a context.
type Func func(Context) any

// ID identifies an accessor instance. The zero ID belongs to the zero
// Accessor.
type ID uint64

var lastID atomic.Uint64

// Accessor is either a constant or a function.
type Accessor struct {
	id    ID
	fn    Func
	value any
}

// Value returns an accessor that always yields v.
func Value(v any) Accessor {
	return Accessor{id: ID(lastID.Add(1)), value: v}
}

// Of returns an accessor backed by fn. A nil fn yields nil.
func Of(fn Func) Accessor {
	return Accessor{id: ID(lastID.Add(1)), fn: fn}
}

// Field returns an accessor reading a dotted path (for example "stats.0.y")
// from the context record. An empty path yields the record itself.
func Field(path string) Accessor {
	return Of(func(ctx Context) any {
		v, _ := Lookup(ctx.Record, path)
		return v
	})
}

// Resolve reads the accessor.
func (a Accessor) Resolve(ctx Context) any {
	if a.fn != nil {
		return a.fn(ctx)
	}
	return a.value
}

// IsZero reports whether a was never constructed.
func (a Accessor) IsZero() bool {
	return a.id == 0
}

// ID returns the accessor's identity.
func (a Accessor) ID() ID {
	return a.id
}

// Lookup walks a dotted path through maps, lists and structs. Numeric
// segments index lists; other segments read map keys or exported struct
// fields, matched by json tag first and then by name, ignoring case.
func Lookup(v any, path string) (any, bool) {
	if path == "" {
		return v, v != nil
	}
	cur := v
	for _, seg := range strings.Split(path, ".") {
		next, ok := step(cur, seg)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

func step(v any, seg string) (any, bool) {
	switch x := v.(type) {
	case map[string]any:
		r, ok := x[seg]
		return r, ok
	case map[string]string:
		r, ok := x[seg]
		return r, ok
	case map[string]float64:
		r, ok := x[seg]
		return r, ok
	}
	if r, ok := field(v, seg); ok {
		return r, true
	}
	list, ok := plot.List(v)
	if !ok {
		return nil, false
	}
	i, err := strconv.Atoi(seg)
	if err != nil || i < 0 || i >= len(list) {
		return nil, false
	}
	return list[i], true
}

func field(v any, seg string) (any, bool) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		r := rv.MapIndex(reflect.ValueOf(seg).Convert(rv.Type().Key()))
		if !r.IsValid() {
			return nil, false
		}
		return r.Interface(), true
	case reflect.Struct:
		rt := rv.Type()
		for i := 0; i < rt.NumField(); i++ {
			f := rt.Field(i)
			if !f.IsExported() {
				continue
			}
			if tag, _, _ := strings.Cut(f.Tag.Get("json"), ","); tag == seg {
				return rv.Field(i).Interface(), true
			}
		}
		for i := 0; i < rt.NumField(); i++ {
			f := rt.Field(i)
			if f.IsExported() && strings.EqualFold(f.Name, seg) {
				return rv.Field(i).Interface(), true
			}
		}
	}
	return nil, false
}
