package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/henderiw/timeranges/internal/config"
	"github.com/henderiw/timeranges/internal/loader"
	"github.com/henderiw/timeranges/pkg/daterange"
	"github.com/henderiw/timeranges/pkg/rangeset"
	"github.com/henderiw/timeranges/pkg/schedule"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"k8s.io/apimachinery/pkg/labels"
	"k8s.io/klog/v2"
	"k8s.io/utils/clock"
)

type options struct {
	v   *viper.Viper
	cfg *config.Config
	f   *daterange.Factory
	doc *loader.Document
}

func newRootCmd() *cobra.Command {
	o := &options{v: config.New()}

	cmd := &cobra.Command{
		Use:          "rangeset",
		Short:        "Set algebra over named sets of time ranges",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return o.complete(cmd)
		},
	}
	pf := cmd.PersistentFlags()
	pf.String(config.KeyConfig, "", "config file")
	pf.StringP(config.KeyFile, "f", "", "YAML document with the named range sets (default ranges.yaml)")
	pf.String(config.KeyLocation, "", "time zone used to read and print times (default UTC)")

	cmd.AddCommand(
		o.mergeCmd(),
		o.unionCmd(),
		o.containsCmd(),
		o.overlapsCmd(),
		o.intersectCmd(),
		o.subtractCmd(),
		o.diffCmd(),
		o.gapsCmd(),
		o.freeCmd(),
	)
	return cmd
}

func (o *options) complete(cmd *cobra.Command) error {
	cfg, err := config.Load(o.v, cmd.Flags())
	if err != nil {
		return err
	}
	loc, err := cfg.TimeLocation()
	if err != nil {
		return err
	}
	o.cfg = cfg
	o.f = daterange.NewFactory(clock.RealClock{}, loc)
	return nil
}

// document loads the range file on first use.
func (o *options) document() (*loader.Document, error) {
	if o.doc != nil {
		return o.doc, nil
	}
	doc, err := loader.LoadFile(o.cfg.File)
	if err != nil {
		return nil, err
	}
	klog.V(2).InfoS("loaded range document", "file", o.cfg.File, "sets", len(doc.Sets))
	o.doc = doc
	return doc, nil
}

func (o *options) set(name string) (*rangeset.RangeSet, error) {
	doc, err := o.document()
	if err != nil {
		return nil, err
	}
	return doc.RangeSet(o.f, name)
}

// parseRange reads "start/end" or a single instant, which yields a
// zero-length range.
func (o *options) parseRange(s string) (daterange.Range, error) {
	from, to, ok := strings.Cut(s, "/")
	start, err := loader.ParseTime(from, o.f.Location())
	if err != nil {
		return daterange.Range{}, err
	}
	if !ok {
		return daterange.Point(start), nil
	}
	end, err := loader.ParseTime(to, o.f.Location())
	if err != nil {
		return daterange.Range{}, err
	}
	r := o.f.Range(start, end)
	if !r.IsValid() {
		return daterange.Range{}, errors.Errorf("range %q ends before it starts", s)
	}
	return r, nil
}

// operand resolves arg as a set name in the document, falling back to a
// literal range.
func (o *options) operand(arg string) (*rangeset.RangeSet, error) {
	if doc, err := o.document(); err == nil {
		if _, ok := doc.Sets[arg]; ok {
			return doc.RangeSet(o.f, arg)
		}
	}
	r, err := o.parseRange(arg)
	if err != nil {
		return nil, errors.Wrapf(err, "%q is neither a set nor a range", arg)
	}
	return rangeset.New(r), nil
}

func printSet(w io.Writer, s *rangeset.RangeSet) {
	for _, r := range s.Ranges() {
		fmt.Fprintln(w, r.String())
	}
}

func (o *options) mergeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "merge RANGE...",
		Short: "Merge literal ranges into their canonical form",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rr := make([]daterange.Range, 0, len(args))
			for _, arg := range args {
				r, err := o.parseRange(arg)
				if err != nil {
					return err
				}
				rr = append(rr, r)
			}
			printSet(cmd.OutOrStdout(), rangeset.New(rr...))
			return nil
		},
	}
}

func (o *options) unionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "union SET|RANGE...",
		Short: "Print the union of sets and ranges",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := rangeset.New()
			for _, arg := range args {
				s, err := o.operand(arg)
				if err != nil {
					return err
				}
				out = out.Union(s)
			}
			printSet(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func (o *options) containsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contains SET SET|RANGE|TIME",
		Short: "Report whether a set contains a time, a range or every range of another set",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.set(args[0])
			if err != nil {
				return err
			}
			other, err := o.operand(args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), s.ContainsSet(other, o.cfg.ContainsOptions()))
			return nil
		},
	}
	cmd.Flags().Bool(config.KeyExcludeStart, false, "treat range starts as outside")
	cmd.Flags().Bool(config.KeyExcludeEnd, false, "treat range ends as outside")
	return cmd
}

func (o *options) overlapsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "overlaps SET SET|RANGE",
		Short: "Print the members of a set that overlap a range or another set",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.set(args[0])
			if err != nil {
				return err
			}
			other, err := o.operand(args[1])
			if err != nil {
				return err
			}
			printSet(cmd.OutOrStdout(), s.OverlappingSet(other, o.cfg.OverlapOptions()))
			return nil
		},
	}
	cmd.Flags().Bool(config.KeyAdjacent, false, "count touching ranges as overlapping")
	return cmd
}

func (o *options) intersectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "intersect SET SET|RANGE",
		Short: "Print the intersection of a set with a range or another set",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.set(args[0])
			if err != nil {
				return err
			}
			other, err := o.operand(args[1])
			if err != nil {
				return err
			}
			printSet(cmd.OutOrStdout(), s.IntersectSet(other))
			return nil
		},
	}
}

func (o *options) subtractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "subtract SET SET|RANGE",
		Short: "Print what remains of a set after removing a range or another set",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.set(args[0])
			if err != nil {
				return err
			}
			other, err := o.operand(args[1])
			if err != nil {
				return err
			}
			printSet(cmd.OutOrStdout(), s.SubtractSet(other))
			return nil
		},
	}
}

func (o *options) diffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff SET|RANGE",
		Short: "Print the total length of a set in a unit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.operand(args[0])
			if err != nil {
				return err
			}
			unit, err := o.cfg.DiffUnit()
			if err != nil {
				return err
			}
			v := s.Diff(unit, o.cfg.Precise)
			fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatFloat(v, 'f', -1, 64))
			return nil
		},
	}
	cmd.Flags().StringP(config.KeyUnit, "u", "", "unit, e.g. ms, hours, days, months (default milliseconds)")
	cmd.Flags().Bool(config.KeyPrecise, false, "keep the fractional part")
	return cmd
}

func (o *options) gapsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gaps SET",
		Short: "Print the holes between the members of a set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.set(args[0])
			if err != nil {
				return err
			}
			printSet(cmd.OutOrStdout(), s.Gaps())
			return nil
		},
	}
}

func (o *options) freeCmd() *cobra.Command {
	var size time.Duration
	cmd := &cobra.Command{
		Use:   "free WINDOW",
		Short: "Print the free time in a window across the selected sets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			window, err := o.parseRange(args[0])
			if err != nil {
				return err
			}
			selector, err := labels.Parse(o.cfg.Selector)
			if err != nil {
				return errors.Wrapf(err, "invalid selector %q", o.cfg.Selector)
			}
			doc, err := o.document()
			if err != nil {
				return err
			}
			entries, err := doc.Entries(o.f)
			if err != nil {
				return err
			}
			t, err := schedule.NewTable(entries, nil, schedule.WithLogger(klog.NewKlogr().WithName("schedule")))
			if err != nil {
				return err
			}
			if size > 0 {
				r, err := t.FindFreeSize(window, size, selector)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), r.String())
				return nil
			}
			printSet(cmd.OutOrStdout(), t.FindFree(window, selector))
			return nil
		},
	}
	cmd.Flags().StringP(config.KeySelector, "l", "", "label selector, e.g. type=room")
	cmd.Flags().DurationVar(&size, "size", 0, "print only the first free slot of this length")
	return cmd
}
