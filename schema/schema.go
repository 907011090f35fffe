// Package schema validates blog post frontmatter and coerces it into a typed
// Post. Validation collects every problem in a record before returning, so a
// caller can report all of them at once.
package schema

import (
	"strconv"
	"time"
)

// Frontmatter is the raw metadata block of a document as decoded from
// YAML, TOML or JSON. No shape is assumed.
type Frontmatter map[string]any

// Post is a validated blog post record. Optional fields that were absent in
// the frontmatter are left nil (or empty for strings).
type Post struct {
	Title       string
	Description string
	PubDate     *time.Time
	Date        *time.Time
	UpdatedDate *time.Time
	HeroImage   string
	CoverImage  string
	Tags        []string
	Published   *bool
	Series      *Series
}

// PublishedAt returns the publication date, preferring pubDate over date.
func (p Post) PublishedAt() time.Time {
	if p.PubDate != nil {
		return *p.PubDate
	}
	if p.Date != nil {
		return *p.Date
	}
	return time.Time{}
}

// Cover returns the post's own cover image, preferring heroImage, or "".
func (p Post) Cover() string {
	if p.HeroImage != "" {
		return p.HeroImage
	}
	return p.CoverImage
}

// IsDraft reports whether the post explicitly sets published: false.
func (p Post) IsDraft() bool {
	return p.Published != nil && !*p.Published
}

const msgDateRequired = "Either date or pubDate must be provided"

// Validate checks raw against the blog post schema. On failure the error is
// a *ValidationError holding every field-level problem, followed by the
// date/pubDate rule when neither date was usable.
func Validate(raw Frontmatter) (Post, error) {
	c := checker{raw: raw}
	p := Post{
		Title:       c.requiredString("title"),
		Description: c.requiredString("description"),
		PubDate:     c.date("pubDate"),
		Date:        c.date("date"),
		UpdatedDate: c.date("updatedDate"),
		HeroImage:   c.optionalString("heroImage"),
		CoverImage:  c.optionalString("coverImage"),
		Tags:        c.strings("tags"),
		Published:   c.boolean("published"),
		Series:      c.series("series"),
	}

	if p.Date == nil && p.PubDate == nil {
		c.errs = append(c.errs, FieldError{
			Path:    []string{"date", "pubDate"},
			Kind:    CrossFieldRuleViolation,
			Message: msgDateRequired,
		})
	}

	if len(c.errs) > 0 {
		return Post{}, &ValidationError{Errors: c.errs}
	}
	return p, nil
}

type checker struct {
	raw  Frontmatter
	errs []FieldError
}

// lookup treats a nil value the same as a missing key.
func (c *checker) lookup(field string) (any, bool) {
	v, ok := c.raw[field]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func (c *checker) fail(kind ErrorKind, msg string, path ...string) {
	c.errs = append(c.errs, FieldError{Path: path, Kind: kind, Message: msg})
}

func (c *checker) requiredString(field string) string {
	v, ok := c.lookup(field)
	if !ok {
		c.fail(MissingRequiredField, "Required", field)
		return ""
	}
	s, ok := v.(string)
	if !ok {
		c.fail(MissingRequiredField, expected("string", v), field)
		return ""
	}
	return s
}

func (c *checker) optionalString(field string) string {
	v, ok := c.lookup(field)
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		c.fail(TypeCoercionFailure, expected("string", v), field)
		return ""
	}
	return s
}

func (c *checker) date(field string) *time.Time {
	v, ok := c.lookup(field)
	if !ok {
		return nil
	}
	t, ok := coerceDate(v)
	if !ok {
		c.fail(TypeCoercionFailure, "Invalid date", field)
		return nil
	}
	return &t
}

func (c *checker) boolean(field string) *bool {
	v, ok := c.lookup(field)
	if !ok {
		return nil
	}
	b, ok := v.(bool)
	if !ok {
		c.fail(TypeCoercionFailure, expected("boolean", v), field)
		return nil
	}
	return &b
}

func (c *checker) strings(field string) []string {
	v, ok := c.lookup(field)
	if !ok {
		return nil
	}
	var items []any
	switch list := v.(type) {
	case []string:
		return append([]string{}, list...)
	case []any:
		items = list
	default:
		c.fail(TypeCoercionFailure, expected("array", v), field)
		return nil
	}

	out := make([]string, 0, len(items))
	bad := false
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			c.fail(TypeCoercionFailure, expected("string", item), field, strconv.Itoa(i))
			bad = true
			continue
		}
		out = append(out, s)
	}
	if bad {
		return nil
	}
	return out
}

func (c *checker) series(field string) *Series {
	v, ok := c.lookup(field)
	if !ok {
		return nil
	}
	var s Series
	switch x := v.(type) {
	case bool:
		s = SeriesFlag(x)
	case string:
		s = SeriesName(x)
	default:
		c.fail(TypeCoercionFailure, expected("boolean or string", v), field)
		return nil
	}
	return &s
}

func expected(want string, got any) string {
	return "Expected " + want + ", received " + typeName(got)
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return "number"
	case time.Time:
		return "date"
	case []any, []string:
		return "array"
	case map[string]any, map[any]any:
		return "object"
	default:
		return "unknown"
	}
}
