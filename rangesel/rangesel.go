// Package rangesel implements the range-selection driver: given a
// LineNumberSet, it decides which leaf partitions of a tree are eligible to
// be rewritten and restores verbatim source text everywhere else.
package rangesel

import (
	"sort"
	"strings"

	"github.com/hdlfmt/svfmt/partition"
	"github.com/hdlfmt/svfmt/token"
)

// Interval is a half-open [First, Last) range of 1-based input line numbers.
type Interval struct {
	First, Last int
}

func (iv Interval) contains(line int) bool { return line >= iv.First && line < iv.Last }

// LineNumberSet is an ordered, non-overlapping set of Intervals.
type LineNumberSet struct {
	intervals []Interval
}

// NewLineNumberSet builds a LineNumberSet from arbitrary (possibly
// unsorted, possibly overlapping) intervals, normalising them.
func NewLineNumberSet(intervals ...Interval) LineNumberSet {
	s := LineNumberSet{intervals: append([]Interval(nil), intervals...)}
	s.normalize()
	return s
}

// All returns a LineNumberSet that selects every line (used when the driver
// runs unrestricted, i.e. a whole-file format).
func All() LineNumberSet {
	return LineNumberSet{intervals: []Interval{{First: 0, Last: 1 << 30}}}
}

func (s *LineNumberSet) normalize() {
	if len(s.intervals) == 0 {
		return
	}
	sort.Slice(s.intervals, func(i, j int) bool { return s.intervals[i].First < s.intervals[j].First })
	out := s.intervals[:1]
	for _, iv := range s.intervals[1:] {
		last := &out[len(out)-1]
		if iv.First <= last.Last {
			if iv.Last > last.Last {
				last.Last = iv.Last
			}
			continue
		}
		out = append(out, iv)
	}
	s.intervals = out
}

// Contains reports whether line is selected.
func (s LineNumberSet) Contains(line int) bool {
	for _, iv := range s.intervals {
		if iv.contains(line) {
			return true
		}
		if line < iv.First {
			break
		}
	}
	return false
}

// Intersects reports whether any line in [first, last) is selected.
func (s LineNumberSet) Intersects(first, last int) bool {
	for _, iv := range s.intervals {
		if iv.First < last && first < iv.Last {
			return true
		}
	}
	return false
}

// Driver decides per-leaf eligibility and restores non-eligible source text.
type Driver struct {
	Selected LineNumberSet
	Source   *token.Stream
}

func New(selected LineNumberSet, src *token.Stream) *Driver {
	return &Driver{Selected: selected, Source: src}
}

// Apply walks root and, for every leaf that is not eligible for rewriting,
// marks it Opaque with its original verbatim text. A leaf is eligible only
// if at least one of its tokens falls on a selected line and the leaf is
// not already inside a format-off span, which Apply leaves untouched since
// MarkFormatOff already made those opaque.
func (d *Driver) Apply(root *partition.Partition) {
	frozenUntil := 0
	partition.Walk(root, func(p *partition.Partition, _ int) bool {
		if !p.Leaf || p.Opaque {
			return true
		}
		if d.eligible(p) {
			return true
		}
		frozenUntil = d.freeze(p, frozenUntil)
		return true
	})
}

func (d *Driver) eligible(p *partition.Partition) bool {
	for _, ft := range p.Tokens {
		if d.Selected.Contains(ft.Token.Line) {
			return true
		}
	}
	return false
}

// freeze marks a non-eligible leaf opaque, with its verbatim original text
// reproduced byte-for-byte: a selected-but-disabled line is restored, not
// rewritten. Bytes before frozenUntil were already reproduced by an earlier
// frozen leaf on the same line and are not repeated; freeze returns the
// offset up to which source text has now been reproduced.
func (d *Driver) freeze(p *partition.Partition, frozenUntil int) int {
	if len(p.Tokens) == 0 {
		return frozenUntil
	}
	src := d.Source.Source
	start := p.Tokens[0].Token.Offset.Start
	end := p.Tokens[len(p.Tokens)-1].Token.Offset.End
	// A leaf that starts its line takes the line's indentation with it.
	if ls := strings.LastIndexByte(src[:start], '\n') + 1; strings.TrimLeft(src[ls:start], " \t") == "" {
		start = ls
	}
	// Extend through the trailing line terminator so consecutive frozen
	// leaves stay on separate output lines the way they were in the input.
	if idx := strings.IndexByte(src[end:], '\n'); idx >= 0 {
		end += idx + 1
	}
	if start < frozenUntil {
		start = frozenUntil
	}
	if end < start {
		end = start
	}
	p.Opaque = true
	p.RawStart = start
	p.RawEnd = end
	p.RawText = src[start:end]
	return end
}
