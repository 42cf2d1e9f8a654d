// Package loader reads named range sets from YAML documents of the form
//
//	sets:
//	  room-a:
//	    labels: {type: room}
//	    ranges:
//	      - start: 2024-03-04T09:00:00Z
//	        end: 2024-03-04T10:00:00Z
package loader

import (
	"io"
	"os"
	"sort"
	"time"

	"github.com/henderiw/timeranges/pkg/daterange"
	"github.com/henderiw/timeranges/pkg/rangeset"
	"github.com/henderiw/timeranges/pkg/schedule"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	"k8s.io/apimachinery/pkg/labels"
)

type Document struct {
	Sets map[string]SetSpec `yaml:"sets"`
}

type SetSpec struct {
	Labels map[string]string `yaml:"labels,omitempty"`
	Ranges []RangeSpec       `yaml:"ranges"`
}

type RangeSpec struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTime parses s as RFC 3339, a local date-time or a date. Values
// without an offset are interpreted in loc.
func ParseTime(s string, loc *time.Location) (time.Time, error) {
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.In(loc), nil
		}
	}
	return time.Time{}, errors.Errorf("cannot parse time %q", s)
}

func Decode(r io.Reader) (*Document, error) {
	doc := &Document{}
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(doc); err != nil {
		if err == io.EOF {
			return doc, nil
		}
		return nil, errors.Wrap(err, "decode range document")
	}
	return doc, nil
}

func LoadFile(name string) (*Document, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", name)
	}
	defer f.Close()
	return Decode(f)
}

// Names returns the set names in sorted order.
func (d *Document) Names() []string {
	names := make([]string, 0, len(d.Sets))
	for name := range d.Sets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RangeSet builds the set called name. Ranges with an end before their
// start are rejected.
func (d *Document) RangeSet(f *daterange.Factory, name string) (*rangeset.RangeSet, error) {
	spec, ok := d.Sets[name]
	if !ok {
		return nil, errors.Errorf("set %q not found", name)
	}
	var b rangeset.Builder
	for i, rs := range spec.Ranges {
		start, err := ParseTime(rs.Start, f.Location())
		if err != nil {
			return nil, errors.Wrapf(err, "set %q range %d start", name, i)
		}
		end, err := ParseTime(rs.End, f.Location())
		if err != nil {
			return nil, errors.Wrapf(err, "set %q range %d end", name, i)
		}
		b.AddRange(f.Range(start, end))
	}
	s, err := b.RangeSet()
	if err != nil {
		return nil, errors.Wrapf(err, "set %q", name)
	}
	return s, nil
}

// Entries returns one schedule entry per set, sorted by name.
func (d *Document) Entries(f *daterange.Factory) ([]schedule.Entry, error) {
	entries := make([]schedule.Entry, 0, len(d.Sets))
	for _, name := range d.Names() {
		s, err := d.RangeSet(f, name)
		if err != nil {
			return nil, err
		}
		entries = append(entries, schedule.NewEntry(name, s, labels.Set(d.Sets[name].Labels)))
	}
	return entries, nil
}
