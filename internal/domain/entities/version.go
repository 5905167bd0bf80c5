package entities

import (
	"strconv"
	"strings"
	"time"
)

// Channel is the release channel a version belongs to, derived from its suffix.
type Channel int

const (
	ChannelRelease Channel = iota
	ChannelAlpha
	ChannelBeta
	ChannelReleaseCandidate
	ChannelNext
	ChannelDev
	ChannelNightly
	ChannelCustom
)

// channelMarkers is checked in order; the first marker found wins.
var channelMarkers = []struct { //nolint:gochecknoglobals // read-only lookup table
	marker  string
	channel Channel
}{
	{"-alpha", ChannelAlpha},
	{"-beta", ChannelBeta},
	{"-rc", ChannelReleaseCandidate},
	{"-next", ChannelNext},
	{"-dev", ChannelDev},
	{"-nightly", ChannelNightly},
}

func (c Channel) String() string {
	switch c {
	case ChannelRelease:
		return "release"
	case ChannelAlpha:
		return "alpha"
	case ChannelBeta:
		return "beta"
	case ChannelReleaseCandidate:
		return "rc"
	case ChannelNext:
		return "next"
	case ChannelDev:
		return "dev"
	case ChannelNightly:
		return "nightly"
	default:
		return "custom"
	}
}

const (
	defaultVersion  = "0.0.0"
	maxSegments     = 7
	WildcardVersion = "*"
)

// Vulnerability is a known advisory affecting a version.
type Vulnerability struct {
	AdvisoryURL      string
	Severity         string
	Title            string
	CVE              string
	AffectedVersions string
}

// Framework is a target platform a version declares support for.
type Framework struct {
	Name      string
	ShortName string
	NickName  string
}

// Version is an immutable parsed version string.
// Vulnerabilities and Frameworks may be attached once during registry enrichment.
type Version struct {
	Raw             string
	Parsed          string
	Segments        []string
	Channel         Channel
	PublishedAt     *time.Time
	Vulnerabilities []Vulnerability
	Frameworks      []Framework
}

// ParseVersion builds a Version from freeform text. It never fails: empty input
// degrades to "0.0.0" while Raw keeps what was given.
func ParseVersion(raw string) *Version {
	text := raw
	if strings.TrimSpace(text) == "" {
		text = defaultVersion
	}

	for _, op := range []string{" - ", " || ", " && "} {
		text = strings.ReplaceAll(text, op, " ")
	}
	fields := strings.Fields(text)
	if len(fields) == 0 {
		fields = []string{defaultVersion}
	}
	parsed := strings.Map(func(r rune) rune {
		switch r {
		case '^', '~', '>', '<', '=':
			return -1
		}
		return r
	}, fields[len(fields)-1])

	segments := make([]string, 0, maxSegments)
	for _, part := range strings.Split(parsed, ".") {
		if part == "" {
			continue
		}
		if len(segments) == maxSegments {
			break
		}
		segments = append(segments, part)
	}
	if len(segments) == 0 {
		segments = []string{"0"}
	}

	return &Version{
		Raw:      raw,
		Parsed:   parsed,
		Segments: segments,
		Channel:  classifyChannel(parsed),
	}
}

func classifyChannel(parsed string) Channel {
	lower := strings.ToLower(parsed)
	for _, m := range channelMarkers {
		if strings.Contains(lower, m.marker) {
			return m.channel
		}
	}
	if strings.Contains(lower, "-") {
		return ChannelCustom
	}
	return ChannelRelease
}

// Segment returns the i-th segment or "" when absent.
func (v *Version) Segment(i int) string {
	if v == nil || i < 0 || i >= len(v.Segments) {
		return ""
	}
	return v.Segments[i]
}

// Major returns the major segment text ("*" for wildcards).
func (v *Version) Major() string { return v.Segment(0) }

// MajorNumber returns the major segment as an integer, 0 when not numeric.
func (v *Version) MajorNumber() int { return segmentNumber(v.Major()) }

// IsPreRelease reports whether the version is on any channel other than release.
func (v *Version) IsPreRelease() bool {
	return v != nil && v.Channel != ChannelRelease
}

// HasMarker reports whether the raw text contains marker, case-insensitively.
func (v *Version) HasMarker(marker string) bool {
	if v == nil || marker == "" {
		return false
	}
	return strings.Contains(strings.ToLower(v.Raw), strings.ToLower(marker))
}

// Compare orders v against other. Major is always compared; each following
// segment only while both sides have it. A nil other sorts below v.
func (v *Version) Compare(other *Version) int {
	if other == nil {
		return 1
	}
	result := compareInts(segmentNumber(v.Segment(0)), segmentNumber(other.Segment(0)))
	if result != 0 {
		return result
	}
	for i := 1; i < maxSegments; i++ {
		left, right := v.Segment(i), other.Segment(i)
		if left == "" || right == "" {
			return result
		}
		result = compareInts(segmentNumber(left), segmentNumber(right))
		if result != 0 {
			return result
		}
	}
	return result
}

// VersionsEqual reports whether a and b have the same normalized text.
// Channel and publish time are not part of equality.
func VersionsEqual(a, b *Version) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Parsed == b.Parsed
}

// URL returns the registry page of this version below packageURL.
func (v *Version) URL(packageURL string) string {
	if v == nil || packageURL == "" {
		return ""
	}
	return packageURL + "/v/" + v.Raw
}

// HasVulnerabilities reports whether any advisory is attached.
func (v *Version) HasVulnerabilities() bool {
	return v != nil && len(v.Vulnerabilities) > 0
}

func (v *Version) String() string {
	if v == nil {
		return ""
	}
	return v.Raw
}

// HighestVersion returns the greatest version of the list, nil when empty.
func HighestVersion(versions []*Version) *Version {
	var best *Version
	for _, candidate := range versions {
		if candidate == nil {
			continue
		}
		if best == nil || candidate.Compare(best) > 0 {
			best = candidate
		}
	}
	if best == nil && len(versions) > 0 {
		return versions[0]
	}
	return best
}

func segmentNumber(segment string) int {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, segment)
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
