package diff

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Kind classifies a diff segment.
type Kind string

const (
	Unchanged Kind = "unchanged"
	Added     Kind = "added"
	Removed   Kind = "removed"
)

// Segment is one block of a comparison, in merge order.
type Segment struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text"`
}

// Blocks compares two texts at line granularity and returns one segment per
// block, in the merge order implied by the longest-common-subsequence
// alignment of the two line sequences. Identical inputs come back entirely
// unchanged; an empty side comes back entirely added or removed. The result
// is deterministic and Blocks is safe for concurrent use.
func Blocks(a, b string) []Segment {
	left := split(a)
	right := split(b)

	// autojunk off, otherwise frequent lines in large inputs would be
	// excluded from the alignment
	matcher := difflib.NewMatcherWithJunk(left, right, false, nil)

	var segments []Segment
	for _, op := range matcher.GetOpCodes() {
		switch op.Tag {
		case 'e':
			for _, line := range left[op.I1:op.I2] {
				segments = append(segments, Segment{Kind: Unchanged, Text: line})
			}
		case 'd':
			for _, line := range left[op.I1:op.I2] {
				segments = append(segments, Segment{Kind: Removed, Text: line})
			}
		case 'i':
			for _, line := range right[op.J1:op.J2] {
				segments = append(segments, Segment{Kind: Added, Text: line})
			}
		case 'r':
			for _, line := range left[op.I1:op.I2] {
				segments = append(segments, Segment{Kind: Removed, Text: line})
			}
			for _, line := range right[op.J1:op.J2] {
				segments = append(segments, Segment{Kind: Added, Text: line})
			}
		}
	}

	return segments
}

func split(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
