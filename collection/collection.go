// Package collection discovers Markdown and MDX documents under a content
// directory, extracts their frontmatter and validates it against the blog
// post schema.
package collection

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/adrg/frontmatter"
	"golang.org/x/text/unicode/norm"

	"github.com/eringen/pubcollection/schema"
)

// Entry is a document whose frontmatter passed validation.
type Entry struct {
	ID   string // slug derived from the path relative to the base dir
	Path string
	Post schema.Post
	Body []byte
}

// Rejection is a document that could not be turned into an Entry. Err is a
// *schema.ValidationError when the frontmatter was readable but invalid.
type Rejection struct {
	ID   string
	Path string
	Err  error
}

// Problems returns one human-readable line per problem.
func (r Rejection) Problems() []string {
	var verr *schema.ValidationError
	if errors.As(r.Err, &verr) {
		out := make([]string, len(verr.Errors))
		for i, fe := range verr.Errors {
			out[i] = fe.Error()
		}
		return out
	}
	return []string{r.Err.Error()}
}

// Result holds the outcome of loading a collection.
type Result struct {
	Entries  []Entry
	Rejected []Rejection
}

// Err returns nil when every document was accepted, otherwise an error
// naming the rejected documents.
func (r Result) Err() error {
	if len(r.Rejected) == 0 {
		return nil
	}
	paths := make([]string, len(r.Rejected))
	for i, rej := range r.Rejected {
		paths[i] = rej.Path
	}
	return fmt.Errorf("collection: %d invalid document(s): %s", len(r.Rejected), strings.Join(paths, ", "))
}

// IsDocument reports whether name has a .md or .mdx extension.
func IsDocument(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".mdx":
		return true
	}
	return false
}

// Load walks base and validates every document found. Bad documents end up
// in Result.Rejected; only I/O failures during the walk and ctx
// cancellation return an error.
func Load(ctx context.Context, base string) (Result, error) {
	var res Result
	err := filepath.WalkDir(base, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return fmt.Errorf("collection: walk %s: %w", p, walkErr)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !IsDocument(d.Name()) {
			return nil
		}

		rel, err := filepath.Rel(base, p)
		if err != nil {
			return err
		}
		id := EntryID(rel)

		data, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("collection: read %s: %w", p, err)
		}
		entry, err := Parse(bytes.NewReader(data))
		if err != nil {
			res.Rejected = append(res.Rejected, Rejection{ID: id, Path: p, Err: err})
			return nil
		}
		entry.ID = id
		entry.Path = p
		res.Entries = append(res.Entries, entry)
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

// Parse reads one document, splitting off its frontmatter block (YAML,
// TOML or JSON) and validating it. The returned Entry has no ID or Path.
func Parse(r io.Reader) (Entry, error) {
	var fm schema.Frontmatter
	body, err := frontmatter.Parse(r, &fm)
	if err != nil {
		return Entry{}, fmt.Errorf("read frontmatter: %w", err)
	}
	post, err := schema.Validate(fm)
	if err != nil {
		return Entry{}, err
	}
	return Entry{Post: post, Body: body}, nil
}

// EntryID turns a path relative to the content dir into a URL slug:
// "2024/Hello World.md" becomes "2024/hello-world", and index files take
// their directory's ID. A segment with nothing sluggable is kept as is.
func EntryID(rel string) string {
	rel = filepath.ToSlash(rel)
	rel = strings.TrimSuffix(rel, path.Ext(rel))
	segments := strings.Split(rel, "/")
	if len(segments) > 1 && strings.EqualFold(segments[len(segments)-1], "index") {
		segments = segments[:len(segments)-1]
	}
	out := make([]string, 0, len(segments))
	for _, seg := range segments {
		slug := Slugify(seg)
		if slug == "" {
			slug = strings.TrimSpace(seg)
		}
		if slug != "" {
			out = append(out, slug)
		}
	}
	return strings.Join(out, "/")
}

// Slugify converts a title to a URL-safe slug. Letters and digits of any
// script are kept and accents are dropped, so "Café Déjà" becomes
// "cafe-deja" and "你好 世界" becomes "你好-世界".
func Slugify(s string) string {
	s = norm.NFKD.String(strings.ToLower(strings.TrimSpace(s)))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= '\u0300' && r <= '\u036f':
			// diacritic split off by NFKD
		case unicode.IsLetter(r), unicode.IsDigit(r), unicode.IsMark(r):
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return norm.NFC.String(strings.TrimRight(b.String(), "-"))
}
