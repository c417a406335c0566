// MALWrapped - MyAnimeList Year in Review
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/malwrapped

package stats

// LabelCounts is a label -> count mapping that remembers the order in which
// labels were first seen. Labels are compared byte for byte.
type LabelCounts struct {
	order  []string
	counts map[string]int
}

// NewLabelCounts returns an empty LabelCounts.
func NewLabelCounts() *LabelCounts {
	return &LabelCounts{counts: make(map[string]int)}
}

// Add increments the count for label.
func (c *LabelCounts) Add(label string) {
	if _, ok := c.counts[label]; !ok {
		c.order = append(c.order, label)
	}
	c.counts[label]++
}

// Count returns the count for label (0 if never seen).
func (c *LabelCounts) Count(label string) int {
	if c == nil {
		return 0
	}
	return c.counts[label]
}

// Len returns the number of distinct labels.
func (c *LabelCounts) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}

// Labels returns the distinct labels in first-seen order.
func (c *LabelCounts) Labels() []string {
	if c == nil {
		return []string{}
	}
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Total returns the sum of all counts.
func (c *LabelCounts) Total() int {
	if c == nil {
		return 0
	}
	total := 0
	for _, n := range c.counts {
		total += n
	}
	return total
}

// Extractor selects the labels an entry contributes.
type Extractor func(ListEntry) []string

// Label extractors for CountLabels.
var (
	Genres  Extractor = func(e ListEntry) []string { return e.Genres }
	Studios Extractor = func(e ListEntry) []string { return e.Studios }
	Authors Extractor = func(e ListEntry) []string { return e.Authors }
)

// CountLabels counts every label of every entry. An entry with k labels
// contributes k increments; entries without labels contribute nothing.
func CountLabels(entries []ListEntry, extract Extractor) *LabelCounts {
	counts := NewLabelCounts()
	for _, e := range entries {
		for _, label := range extract(e) {
			counts.Add(label)
		}
	}
	return counts
}
