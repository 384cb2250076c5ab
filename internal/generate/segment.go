// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/postgen/internal/format"
)

// SegmentCap is the per-segment length applied when splitting a thread.
const SegmentCap = 140

// segmentPattern finds the markers that open each thread segment. Group 1
// is the segment number.
type segmentPattern struct {
	marker  *regexp.Regexp
	ordered bool
}

// segmentPatterns are tried in order; the first that finds between one and
// maxSegments markers wins.
var segmentPatterns = []segmentPattern{
	{marker: regexp.MustCompile(`(?:^|\s)(\d+)\s*/\s*\d+[：:]?`), ordered: true},
	{marker: regexp.MustCompile(`(?m)^[ \t]*(\d+)[．.]`)},
	{marker: regexp.MustCompile(`【(\d+)】`)},
}

// SplitThread splits a raw reply into at most maxSegments segments and truncates
// each to limit characters, counting the ellipsis. Segments numbered k/n
// are returned in k order.
func SplitThread(reply string, maxSegments, limit int) []string {
	reply = strings.TrimSpace(strings.ReplaceAll(reply, "\r\n", "\n"))
	if reply == "" || maxSegments <= 0 {
		return []string{}
	}

	var segments []string
	for _, p := range segmentPatterns {
		if segs := p.split(reply); len(segs) > 0 && len(segs) <= maxSegments {
			segments = segs
			break
		}
	}
	if segments == nil {
		for _, line := range strings.Split(reply, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				segments = append(segments, line)
			}
			if len(segments) == maxSegments {
				break
			}
		}
	}

	for i, s := range segments {
		segments[i] = format.Truncate(s, limit)
	}
	return segments
}

// split returns the text following each marker up to the next one. It
// returns nil when any segment is empty.
func (p segmentPattern) split(reply string) []string {
	locs := p.marker.FindAllStringSubmatchIndex(reply, -1)
	if len(locs) == 0 {
		return nil
	}

	type numbered struct {
		k    int
		text string
	}
	parts := make([]numbered, len(locs))
	for i, loc := range locs {
		end := len(reply)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		text := strings.TrimSpace(reply[loc[1]:end])
		if text == "" {
			return nil
		}
		k, _ := strconv.Atoi(reply[loc[2]:loc[3]])
		parts[i] = numbered{k: k, text: text}
	}

	if p.ordered {
		sort.SliceStable(parts, func(i, j int) bool { return parts[i].k < parts[j].k })
	}
	out := make([]string, len(parts))
	for i, part := range parts {
		out[i] = part.text
	}
	return out
}
