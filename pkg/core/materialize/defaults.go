package materialize

import (
	"fmt"

	"github.com/matzehuels/chartcore/pkg/core/accessor"
	"github.com/matzehuels/chartcore/pkg/core/plot"
)

var defaults = Accessors{
	Series: accessor.Of(func(c accessor.Context) any { return c.Record }),
	Datums: accessor.Of(func(c accessor.Context) any {
		if _, ok := plot.List(c.Record); ok {
			return c.Record
		}
		return field(c.Record, "datums", "data")
	}),
	Label: accessor.Of(func(c accessor.Context) any {
		if l := field(c.Record, "label"); l != nil && l != "" {
			return l
		}
		return fmt.Sprintf("Series %d", c.SeriesIndex+1)
	}),
	SeriesID:        accessor.Of(func(c accessor.Context) any { return c.SeriesIndex }),
	Primary:         tupleOrField(0, "primary", "x"),
	Secondary:       tupleOrField(1, "secondary", "y"),
	R:               tupleOrField(2, "radius", "r"),
	PrimaryAxisID:   accessor.Field("primaryAxisID"),
	SecondaryAxisID: accessor.Field("secondaryAxisID"),
}

// DefaultAccessors returns the accessors used for unset fields:
//
//   - series: the data itself
//   - datums: the series record if it is a list, else its "datums" or "data"
//   - label: the "label" field, else "Series N" (1-based)
//   - series id: the series index
//   - primary/secondary/radius: tuple items 0/1/2, else the "primary"/"x",
//     "secondary"/"y" and "radius"/"r" fields
//   - axis ids: the "primaryAxisID" and "secondaryAxisID" fields
func DefaultAccessors() Accessors {
	return defaults
}

// tupleOrField reads item i of a list record, or the first present field.
func tupleOrField(i int, fields ...string) accessor.Accessor {
	return accessor.Of(func(c accessor.Context) any {
		if list, ok := plot.List(c.Record); ok {
			if i < len(list) {
				return list[i]
			}
			return nil
		}
		return field(c.Record, fields...)
	})
}

// field returns the first non-nil value among the named fields.
func field(rec any, names ...string) any {
	for _, n := range names {
		if v, ok := accessor.Lookup(rec, n); ok && v != nil {
			return v
		}
	}
	return nil
}
