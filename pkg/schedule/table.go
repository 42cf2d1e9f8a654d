package schedule

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/henderiw/timeranges/pkg/daterange"
	"github.com/henderiw/timeranges/pkg/rangeset"
	"k8s.io/apimachinery/pkg/labels"
)

// Table holds named RangeSets, e.g. the busy periods of a set of
// resources, and answers free/busy questions across a label selection.
type Table interface {
	Get(name string) (Entry, error)
	Claim(name string, set *rangeset.RangeSet, l labels.Set) error
	ClaimFree(name string, window daterange.Range, d time.Duration, l labels.Set) (daterange.Range, error)
	Release(name string) error
	Update(name string, set *rangeset.RangeSet, l labels.Set) error

	Iterate() *Iterator

	Count() int
	Has(name string) bool

	IsFree(t time.Time, selector labels.Selector) bool
	Busy(selector labels.Selector) *rangeset.RangeSet
	FindFree(window daterange.Range, selector labels.Selector) *rangeset.RangeSet
	FindFreeSize(window daterange.Range, d time.Duration, selector labels.Selector) (daterange.Range, error)

	GetAll() map[string]Entry
	GetByLabel(selector labels.Selector) map[string]Entry
}

type ValidationFn func(name string, set *rangeset.RangeSet) error

type Option func(*table)

// WithLogger sets the logger used to report table changes.
func WithLogger(l logr.Logger) Option {
	return func(r *table) {
		r.log = l
	}
}

func NewTable(initEntries []Entry, v ValidationFn, opts ...Option) (Table, error) {
	r := &table{
		m:          new(sync.RWMutex),
		table:      map[string]Entry{},
		validateFn: v,
		log:        logr.Discard(),
	}
	for _, o := range opts {
		o(r)
	}

	var errm error
	for _, e := range initEntries {
		if err := r.add(NewEntry(e.Name(), e.RangeSet(), e.Labels()), true); err != nil {
			errm = errors.Join(errm, err)
		}
	}

	return r, errm
}

type table struct {
	m          *sync.RWMutex
	table      map[string]Entry
	validateFn ValidationFn
	log        logr.Logger
}

func (r *table) validate(name string, set *rangeset.RangeSet, init bool) error {
	if name == "" {
		return fmt.Errorf("entry name cannot be empty")
	}
	if r.validateFn != nil && !init {
		if err := r.validateFn(name, set); err != nil {
			return err
		}
	}
	return nil
}

func (r *table) Get(name string) (Entry, error) {
	r.m.RLock()
	defer r.m.RUnlock()

	e, ok := r.table[name]
	if !ok {
		return nil, fmt.Errorf("no match found for: %s", name)
	}
	return e, nil
}

func (r *table) Claim(name string, set *rangeset.RangeSet, l labels.Set) error {
	r.m.Lock()
	defer r.m.Unlock()

	return r.add(NewEntry(name, set, l), false)
}

// ClaimFree claims the first slot of length d inside window that no entry
// occupies.
func (r *table) ClaimFree(name string, window daterange.Range, d time.Duration, l labels.Set) (daterange.Range, error) {
	r.m.Lock()
	defer r.m.Unlock()

	slot, err := r.findFreeSize(window, d, labels.Everything())
	if err != nil {
		return daterange.Range{}, err
	}
	if err := r.add(NewEntry(name, rangeset.New(slot), l), false); err != nil {
		return daterange.Range{}, err
	}
	return slot, nil
}

func (r *table) Release(name string) error {
	r.m.Lock()
	defer r.m.Unlock()

	return r.delete(name)
}

func (r *table) Update(name string, set *rangeset.RangeSet, l labels.Set) error {
	r.m.Lock()
	defer r.m.Unlock()

	return r.update(NewEntry(name, set, l))
}

func (r *table) Iterate() *Iterator {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.iterate()
}

func (r *table) iterate() *Iterator {
	keys := make([]string, 0, len(r.table))
	snapshot := make(map[string]Entry, len(r.table))
	for key, e := range r.table {
		keys = append(keys, key)
		snapshot[key] = e
	}
	sort.Strings(keys)

	return &Iterator{current: -1, keys: keys, table: snapshot}
}

func (r *table) Count() int {
	r.m.RLock()
	defer r.m.RUnlock()

	return len(r.table)
}

func (r *table) Has(name string) bool {
	r.m.RLock()
	defer r.m.RUnlock()

	_, ok := r.table[name]
	return ok
}

// IsFree reports whether no selected entry covers t.
func (r *table) IsFree(t time.Time, selector labels.Selector) bool {
	r.m.RLock()
	defer r.m.RUnlock()

	return !r.busy(selector).Contains(t, daterange.ContainsOptions{ExcludeEnd: true})
}

// Busy returns the union of the selected entries.
func (r *table) Busy(selector labels.Selector) *rangeset.RangeSet {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.busy(selector)
}

func (r *table) busy(selector labels.Selector) *rangeset.RangeSet {
	var b rangeset.Builder
	for _, e := range r.getByLabel(selector) {
		b.AddSet(e.RangeSet())
	}
	// entries only hold valid ranges
	busy, _ := b.RangeSet()
	return busy
}

// FindFree returns the parts of window not covered by any selected entry.
func (r *table) FindFree(window daterange.Range, selector labels.Selector) *rangeset.RangeSet {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.findFree(window, selector)
}

func (r *table) findFree(window daterange.Range, selector labels.Selector) *rangeset.RangeSet {
	return rangeset.New(window).SubtractSet(r.busy(selector))
}

func (r *table) FindFreeSize(window daterange.Range, d time.Duration, selector labels.Selector) (daterange.Range, error) {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.findFreeSize(window, d, selector)
}

func (r *table) findFreeSize(window daterange.Range, d time.Duration, selector labels.Selector) (daterange.Range, error) {
	if d <= 0 {
		return daterange.Range{}, fmt.Errorf("size %s must be positive", d)
	}
	if window.Duration() < d {
		return daterange.Range{}, fmt.Errorf("size %s is bigger than window %s", d, window)
	}
	for _, free := range r.findFree(window, selector).Ranges() {
		if free.Duration() >= d {
			return daterange.New(free.Start(), free.Start().Add(d)), nil
		}
	}
	return daterange.Range{}, fmt.Errorf("could not find free slot of size %s in %s", d, window)
}

func (r *table) add(e Entry, init bool) error {
	if err := r.validate(e.Name(), e.RangeSet(), init); err != nil {
		return err
	}
	if _, ok := r.table[e.Name()]; ok {
		return fmt.Errorf("entry %s already exists", e.Name())
	}
	r.table[e.Name()] = e
	r.log.V(1).Info("claimed", "name", e.Name(), "ranges", e.RangeSet().String())
	return nil
}

func (r *table) update(e Entry) error {
	if err := r.validate(e.Name(), e.RangeSet(), false); err != nil {
		return err
	}
	if _, ok := r.table[e.Name()]; !ok {
		return fmt.Errorf("entry %s not found", e.Name())
	}
	r.table[e.Name()] = e
	r.log.V(1).Info("updated", "name", e.Name(), "ranges", e.RangeSet().String())
	return nil
}

func (r *table) delete(name string) error {
	if _, ok := r.table[name]; !ok {
		return fmt.Errorf("entry %s not found", name)
	}
	delete(r.table, name)
	r.log.V(1).Info("released", "name", name)
	return nil
}

func (r *table) GetAll() map[string]Entry {
	r.m.RLock()
	defer r.m.RUnlock()

	entries := make(map[string]Entry, len(r.table))

	iter := r.iterate()
	for iter.Next() {
		entries[iter.Name()] = iter.Value()
	}
	return entries
}

func (r *table) GetByLabel(selector labels.Selector) map[string]Entry {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.getByLabel(selector)
}

func (r *table) getByLabel(selector labels.Selector) map[string]Entry {
	if selector == nil {
		selector = labels.Everything()
	}
	entries := map[string]Entry{}

	iter := r.iterate()
	for iter.Next() {
		if selector.Matches(iter.Value().Labels()) {
			entries[iter.Name()] = iter.Value()
		}
	}
	return entries
}
