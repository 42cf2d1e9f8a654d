package schedule

import (
	"fmt"

	"github.com/henderiw/timeranges/pkg/rangeset"
	"k8s.io/apimachinery/pkg/labels"
)

type Entry interface {
	Name() string
	RangeSet() *rangeset.RangeSet
	Labels() labels.Set
	String() string
	Equal(e2 Entry) bool
}

type entry struct {
	name   string
	set    *rangeset.RangeSet
	labels labels.Set
}

func (r entry) Name() string                 { return r.name }
func (r entry) RangeSet() *rangeset.RangeSet { return r.set.Clone() }
func (r entry) Labels() labels.Set           { return r.labels }
func (r entry) String() string {
	return fmt.Sprintf("name: %s, ranges: [%s], labels: %s", r.name, r.set, r.labels.String())
}
func (r entry) Equal(e2 Entry) bool {
	return r.name == e2.Name() &&
		r.set.Equal(e2.RangeSet()) &&
		r.labels.String() == e2.Labels().String()
}

func NewEntry(name string, set *rangeset.RangeSet, l labels.Set) Entry {
	return entry{
		name:   name,
		set:    set.Clone(),
		labels: labels.Merge(labels.Set{}, l),
	}
}
