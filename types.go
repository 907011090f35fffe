package pubcollection

import "time"

// BlogPost is a validated post as stored in SQLite and rendered by templates.
type BlogPost struct {
	Slug        string
	Title       string
	Description string
	PubDate     time.Time
	UpdatedDate time.Time // zero when the post was never updated
	CoverImage  string    // own cover or a placeholder, never empty
	Tags        []string
	Published   bool
	Series      string // series name, "" for flag-only series
	InSeries    bool
	Content     string // Markdown body, MDX imports removed
	SourcePath  string
	Link        string
}

// DateString formats the publication date as YYYY-MM-DD.
func (p BlogPost) DateString() string {
	return p.PubDate.Format(dateLayout)
}

// Rejection is a content document that failed validation, as shown on the
// admin dashboard.
type Rejection struct {
	Slug     string
	Path     string
	Problems []string
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	Image       string // og:image
	OGType      string // "website" or "article"
}

const dateLayout = "2006-01-02"
