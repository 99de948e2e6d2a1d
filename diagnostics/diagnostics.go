// Package diagnostics implements the ExecutionControl-gated reporting
// knobs: a partition-tree dump, a token-stream JSON dump, a
// largest-partitions report, and (pending future use by the wrap search) an
// equally-optimal-wrappings listing.
package diagnostics

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/alecthomas/repr"

	"github.com/hdlfmt/svfmt/partition"
	"github.com/hdlfmt/svfmt/token"
)

// ShowTokenPartitionTree renders the partition tree the way
// ExecutionControl.ShowTokenPartitionTree asks for, using alecthomas/repr to
// print the Go value structure for debugging.
func ShowTokenPartitionTree(root *partition.Partition) string {
	return repr.String(root, repr.Indent("  "))
}

// TokenJSON is one token's JSON representation in ShowTokenStreamJSON's
// output: byte offsets into the source buffer, its kind, and (optionally)
// its text.
type TokenJSON struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Tag   string `json:"tag"`
	Text  string `json:"text,omitempty"`
}

// ShowTokenStreamJSON renders every token in stream, in order, as a JSON
// array of {start, end, tag[, text]} objects. withText controls whether
// each token's raw text is included alongside its offsets and kind; leaving
// it off keeps the dump small when only positions and kinds are of
// interest. Malformed output from json.Marshal would mean a bug in this
// package, not a caller error, so a marshal failure here is unexpected
// enough not to warrant its own error return.
func ShowTokenStreamJSON(stream *token.Stream, withText bool) string {
	rows := make([]TokenJSON, 0, len(stream.Tokens))
	for _, t := range stream.Tokens {
		row := TokenJSON{Start: t.Offset.Start, End: t.Offset.End, Tag: t.Kind.String()}
		if withText {
			row.Text = t.Text
		}
		rows = append(rows, row)
	}
	b, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Sprintf("[] // marshal error: %v", err)
	}
	return string(b)
}

// PartitionSize is one row of the largest-token-partitions report.
type PartitionSize struct {
	Origin     string
	Indent     int
	TokenCount int
	Text       string
}

// ShowLargestTokenPartitions returns the n leaf partitions with the most
// tokens, largest first, the way ExecutionControl.ShowLargestTokenPartitions
// asks for (§9): useful for spotting a row that should have been split
// further by the builder.
func ShowLargestTokenPartitions(root *partition.Partition, n int) []PartitionSize {
	var sizes []PartitionSize
	partition.Walk(root, func(p *partition.Partition, _ int) bool {
		if p.Leaf && !p.Opaque {
			sizes = append(sizes, PartitionSize{
				Origin:     p.Origin.NodeKind.String(),
				Indent:     p.IndentationSpaces,
				TokenCount: len(p.Tokens),
				Text:       strings.Join(p.TokenTexts(), " "),
			})
		}
		return true
	})
	sort.Slice(sizes, func(i, j int) bool { return sizes[i].TokenCount > sizes[j].TokenCount })
	if n > 0 && n < len(sizes) {
		sizes = sizes[:n]
	}
	return sizes
}

// FormatLargestTokenPartitions renders ShowLargestTokenPartitions's result
// as the plain tabular text ExecutionControl's diagnostic mode prints.
func FormatLargestTokenPartitions(sizes []PartitionSize) string {
	var b strings.Builder
	for _, s := range sizes {
		fmt.Fprintf(&b, "%4d tokens  indent=%-3d  %-24s %s\n", s.TokenCount, s.Indent, s.Origin, truncate(s.Text, 80))
	}
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// EquallyOptimalWrapping is one tied-cost layout the wrap search found,
// reported when ExecutionControl.ShowEquallyOptimalWrappings is set.
type EquallyOptimalWrapping struct {
	Origin string
	Cost   int
	Breaks []bool
}

// FormatEquallyOptimalWrappings renders a set of tied wrap-search solutions.
func FormatEquallyOptimalWrappings(ws []EquallyOptimalWrapping) string {
	var b strings.Builder
	for _, w := range ws {
		fmt.Fprintf(&b, "%s cost=%d breaks=%v\n", w.Origin, w.Cost, w.Breaks)
	}
	return b.String()
}
