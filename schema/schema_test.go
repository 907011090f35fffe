package schema

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func validationErrors(t *testing.T, err error) *ValidationError {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T (%v)", err, err)
	}
	return verr
}

func TestValidatePubDateOnly(t *testing.T) {
	post, err := Validate(Frontmatter{
		"title":       "A",
		"description": "B",
		"pubDate":     "2024-01-01",
	})
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if post.Title != "A" || post.Description != "B" {
		t.Errorf("Title/Description = %q/%q, want A/B", post.Title, post.Description)
	}
	want := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	if post.PubDate == nil || !post.PubDate.Equal(want) {
		t.Errorf("PubDate = %v, want %v", post.PubDate, want)
	}
	if post.Date != nil {
		t.Errorf("Date = %v, want nil", post.Date)
	}
	if !post.PublishedAt().Equal(want) {
		t.Errorf("PublishedAt = %v, want %v", post.PublishedAt(), want)
	}
}

func TestValidateMissingBothDates(t *testing.T) {
	_, err := Validate(Frontmatter{"title": "A", "description": "B"})
	verr := validationErrors(t, err)

	if len(verr.Errors) != 1 {
		t.Fatalf("errors = %v, want exactly one", verr.Errors)
	}
	fe := verr.Errors[0]
	if fe.Kind != CrossFieldRuleViolation {
		t.Errorf("Kind = %v, want %v", fe.Kind, CrossFieldRuleViolation)
	}
	if !reflect.DeepEqual(fe.Path, []string{"date", "pubDate"}) {
		t.Errorf("Path = %v, want [date pubDate]", fe.Path)
	}
	if fe.Message != "Either date or pubDate must be provided" {
		t.Errorf("Message = %q", fe.Message)
	}
}

func TestValidateTagsAndSeries(t *testing.T) {
	post, err := Validate(Frontmatter{
		"title":       "A",
		"description": "B",
		"date":        "2024-02-02",
		"tags":        []any{"x", "y"},
		"series":      true,
	})
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if !reflect.DeepEqual(post.Tags, []string{"x", "y"}) {
		t.Errorf("Tags = %v, want [x y]", post.Tags)
	}
	if post.Series == nil {
		t.Fatal("Series should be set")
	}
	if flag, ok := post.Series.Flag(); !ok || !flag {
		t.Errorf("Series.Flag() = %v, %v; want true, true", flag, ok)
	}
	want := time.Date(2024, time.February, 2, 0, 0, 0, 0, time.UTC)
	if post.Date == nil || !post.Date.Equal(want) {
		t.Errorf("Date = %v, want %v", post.Date, want)
	}
}

func TestValidateAllOptionalFields(t *testing.T) {
	updated := time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC)
	post, err := Validate(Frontmatter{
		"title":       "Full",
		"description": "Every field",
		"pubDate":     "2024-03-01T10:00:00Z",
		"date":        int64(1704067200000),
		"updatedDate": updated,
		"heroImage":   "/images/hero.jpg",
		"coverImage":  "/images/cover.jpg",
		"tags":        []string{"go", "web"},
		"published":   false,
		"series":      "Building a blog",
		"unknown":     42,
	})
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if post.UpdatedDate == nil || !post.UpdatedDate.Equal(updated) {
		t.Errorf("UpdatedDate = %v, want %v", post.UpdatedDate, updated)
	}
	if post.Date == nil || !post.Date.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Date = %v, want 2024-01-01 from epoch millis", post.Date)
	}
	if post.Cover() != "/images/hero.jpg" {
		t.Errorf("Cover() = %q, want hero image", post.Cover())
	}
	if post.CoverImage != "/images/cover.jpg" {
		t.Errorf("CoverImage = %q", post.CoverImage)
	}
	if post.Published == nil || *post.Published {
		t.Errorf("Published = %v, want false", post.Published)
	}
	if !post.IsDraft() {
		t.Error("IsDraft should be true")
	}
	if name, ok := post.Series.Name(); !ok || name != "Building a blog" {
		t.Errorf("Series.Name() = %q, %v", name, ok)
	}
}

func TestValidateMissingRequired(t *testing.T) {
	tests := []struct {
		name  string
		raw   Frontmatter
		field string
	}{
		{"no title", Frontmatter{"description": "B", "date": "2024-01-01"}, "title"},
		{"no description", Frontmatter{"title": "A", "date": "2024-01-01"}, "description"},
		{"nil title", Frontmatter{"title": nil, "description": "B", "date": "2024-01-01"}, "title"},
		{"numeric title", Frontmatter{"title": 7, "description": "B", "date": "2024-01-01"}, "title"},
		{"title missing with bad tags", Frontmatter{"description": "B", "tags": "go"}, "title"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(tt.raw)
			verr := validationErrors(t, err)
			found := false
			for _, fe := range verr.Errors {
				if fe.Kind == MissingRequiredField && len(fe.Path) == 1 && fe.Path[0] == tt.field {
					found = true
				}
			}
			if !found {
				t.Errorf("errors %v do not report missing %q", verr.Errors, tt.field)
			}
		})
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	_, err := Validate(Frontmatter{
		"title":     123,
		"pubDate":   "not a date",
		"heroImage": true,
		"published": "yes",
		"series":    3,
		"tags":      []any{"ok", 1, "fine", false},
	})
	verr := validationErrors(t, err)

	want := []string{
		"title",
		"description",
		"pubDate",
		"heroImage",
		"tags.1",
		"tags.3",
		"published",
		"series",
		"date",
		"pubDate",
	}
	if got := verr.Fields(); !reflect.DeepEqual(got, want) {
		t.Errorf("Fields() = %v, want %v", got, want)
	}
	if !verr.Has(MissingRequiredField) || !verr.Has(TypeCoercionFailure) || !verr.Has(CrossFieldRuleViolation) {
		t.Errorf("expected all three error kinds in %v", verr.Errors)
	}
}

func TestValidateTags(t *testing.T) {
	base := func(tags any) Frontmatter {
		return Frontmatter{"title": "A", "description": "B", "date": "2024-01-01", "tags": tags}
	}

	post, err := Validate(base([]any{"c", "a", "b"}))
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if !reflect.DeepEqual(post.Tags, []string{"c", "a", "b"}) {
		t.Errorf("Tags = %v, want order preserved", post.Tags)
	}

	post, err = Validate(base([]any{}))
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if post.Tags == nil || len(post.Tags) != 0 {
		t.Errorf("Tags = %#v, want empty non-nil slice", post.Tags)
	}

	_, err = Validate(base([]any{"a", 2}))
	verr := validationErrors(t, err)
	if len(verr.Errors) != 1 || verr.Errors[0].Message != "Expected string, received number" {
		t.Errorf("errors = %v", verr.Errors)
	}

	_, err = Validate(base("go, web"))
	verr = validationErrors(t, err)
	if len(verr.Errors) != 1 || verr.Errors[0].Message != "Expected array, received string" {
		t.Errorf("errors = %v", verr.Errors)
	}
}

func TestValidateTagsCopied(t *testing.T) {
	tags := []string{"a", "b"}
	post, err := Validate(Frontmatter{"title": "A", "description": "B", "date": "2024-01-01", "tags": tags})
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	tags[0] = "changed"
	if post.Tags[0] != "a" {
		t.Errorf("Tags[0] = %q, post should not share the input slice", post.Tags[0])
	}
}

func TestValidateSeries(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		wantErr bool
		in      bool
	}{
		{"true", true, false, true},
		{"false", false, false, false},
		{"name", "go-basics", false, true},
		{"empty name", "", false, false},
		{"number", 3, true, false},
		{"float", 1.5, true, false},
		{"list", []any{"a"}, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post, err := Validate(Frontmatter{
				"title": "A", "description": "B", "date": "2024-01-01", "series": tt.value,
			})
			if tt.wantErr {
				verr := validationErrors(t, err)
				if verr.Errors[0].Path[0] != "series" || verr.Errors[0].Kind != TypeCoercionFailure {
					t.Errorf("errors = %v", verr.Errors)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate failed: %v", err)
			}
			if post.Series.InSeries() != tt.in {
				t.Errorf("InSeries() = %v, want %v", post.Series.InSeries(), tt.in)
			}
		})
	}
}

func TestValidateDateCoercion(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  time.Time
		ok    bool
	}{
		{"iso date", "2024-01-01", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"rfc3339", "2024-01-01T12:30:00+02:00", time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC), true},
		{"local datetime", "2024-01-01T12:30", time.Date(2024, 1, 1, 12, 30, 0, 0, time.UTC), true},
		{"space datetime", "2024-01-01 08:00:00", time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC), true},
		{"long form", "July 4, 2023", time.Date(2023, 7, 4, 0, 0, 0, 0, time.UTC), true},
		{"short form", "Jul 4, 2023", time.Date(2023, 7, 4, 0, 0, 0, 0, time.UTC), true},
		{"year month", "2023-07", time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC), true},
		{"millis int", 0, time.Unix(0, 0).UTC(), true},
		{"millis float", float64(86400000), time.Date(1970, 1, 2, 0, 0, 0, 0, time.UTC), true},
		{"time value", time.Date(2022, 5, 6, 0, 0, 0, 0, time.UTC), time.Date(2022, 5, 6, 0, 0, 0, 0, time.UTC), true},
		{"garbage", "yesterday", time.Time{}, false},
		{"empty string", "  ", time.Time{}, false},
		{"bool", true, time.Time{}, false},
		{"out of range", 9e15, time.Time{}, false},
		{"map", map[string]any{"y": 2024}, time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post, err := Validate(Frontmatter{"title": "A", "description": "B", "date": tt.value})
			if !tt.ok {
				verr := validationErrors(t, err)
				if verr.Errors[0].Message != "Invalid date" || verr.Errors[0].Path[0] != "date" {
					t.Errorf("first error = %v", verr.Errors[0])
				}
				// The failed date does not count towards the date/pubDate rule.
				if !verr.Has(CrossFieldRuleViolation) {
					t.Errorf("expected cross-field violation in %v", verr.Errors)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate failed: %v", err)
			}
			if !post.Date.Equal(tt.want) {
				t.Errorf("Date = %v, want %v", post.Date, tt.want)
			}
		})
	}
}

func TestValidateNilFrontmatter(t *testing.T) {
	_, err := Validate(nil)
	verr := validationErrors(t, err)
	if len(verr.Errors) != 3 {
		t.Errorf("errors = %v, want title, description and date rule", verr.Errors)
	}
}

func TestValidationErrorMessage(t *testing.T) {
	_, err := Validate(Frontmatter{"description": "B"})
	want := "invalid frontmatter: title: Required; date, pubDate: Either date or pubDate must be provided"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestSeriesString(t *testing.T) {
	if got := SeriesFlag(true).String(); got != "true" {
		t.Errorf("SeriesFlag(true).String() = %q", got)
	}
	if got := SeriesName("intro").String(); got != "intro" {
		t.Errorf("SeriesName.String() = %q", got)
	}
	if _, ok := SeriesName("x").Flag(); ok {
		t.Error("named series should not report a flag")
	}
}
