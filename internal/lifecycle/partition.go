package lifecycle

import "github.com/nhle/nphdash/internal/model"

// Partition is the split of one loaded collection into active and
// inactive records. Records whose status is not Active land in the
// inactive list, so the two lists always cover the whole collection.
type Partition[T model.Record] struct {
	active   []T
	inactive []T
}

// Split partitions all by status, keeping the backend's order.
func Split[T model.Record](all []T) Partition[T] {
	p := Partition[T]{
		active:   make([]T, 0, len(all)),
		inactive: make([]T, 0),
	}
	for _, r := range all {
		if r.GetStatus().IsActive() {
			p.active = append(p.active, r)
		} else {
			p.inactive = append(p.inactive, r)
		}
	}
	return p
}

func (p Partition[T]) Active() []T   { return p.active }
func (p Partition[T]) Inactive() []T { return p.inactive }

// Len returns the size of the partitioned collection.
func (p Partition[T]) Len() int { return len(p.active) + len(p.inactive) }

// Find looks a record up by id in either list.
func (p Partition[T]) Find(id int64) (T, bool) {
	for _, list := range [][]T{p.active, p.inactive} {
		for _, r := range list {
			if r.GetID() == id {
				return r, true
			}
		}
	}
	var zero T
	return zero, false
}
