package schema

import "strconv"

type seriesKind uint8

const (
	seriesFlag seriesKind = iota + 1
	seriesName
)

// Series is the value of the `series` frontmatter field, which is either a
// boolean ("this post belongs to a series") or a free-form series name.
// The zero value is not a valid Series; use SeriesFlag or SeriesName.
type Series struct {
	kind seriesKind
	flag bool
	name string
}

// SeriesFlag returns a boolean Series.
func SeriesFlag(b bool) Series {
	return Series{kind: seriesFlag, flag: b}
}

// SeriesName returns a named Series. Any string is accepted, including "".
func SeriesName(name string) Series {
	return Series{kind: seriesName, name: name}
}

// Flag returns the boolean value and true when s holds a boolean.
func (s Series) Flag() (bool, bool) {
	return s.flag, s.kind == seriesFlag
}

// Name returns the series name and true when s holds a string.
func (s Series) Name() (string, bool) {
	return s.name, s.kind == seriesName
}

// InSeries reports whether the post is part of some series: a true flag or
// a non-empty name.
func (s Series) InSeries() bool {
	switch s.kind {
	case seriesFlag:
		return s.flag
	case seriesName:
		return s.name != ""
	}
	return false
}

func (s Series) String() string {
	switch s.kind {
	case seriesFlag:
		return strconv.FormatBool(s.flag)
	case seriesName:
		return s.name
	}
	return ""
}
