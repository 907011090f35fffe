package pubcollection

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// schemaVersion is bumped whenever the tables change shape. The tables only
// mirror the content dir, so an outdated database is dropped and refilled by
// the next sync.
const schemaVersion = 2

const postColumns = `slug, title, description, pub_date, updated_date, cover_image, tags, published, series, in_series, content, source_path`

// Store wraps a SQLite database holding the validated posts of the last
// sync and the documents it rejected.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and creates the schema.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets readers proceed while a sync rewrites the tables; the busy
	// timeout makes writers wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ensureSchema creates the tables. Dates are Unix milliseconds, which
// covers every date the frontmatter schema accepts and sorts numerically.
func (s *Store) ensureSchema() error {
	var version int
	if err := s.db.QueryRow(`PRAGMA user_version`).Scan(&version); err != nil {
		return err
	}
	if version != schemaVersion {
		if _, err := s.db.Exec(`DROP TABLE IF EXISTS posts; DROP TABLE IF EXISTS rejections;`); err != nil {
			return err
		}
	}
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS posts (
    slug TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    pub_date INTEGER NOT NULL,
    updated_date INTEGER,
    cover_image TEXT NOT NULL,
    tags TEXT NOT NULL,
    published INTEGER NOT NULL DEFAULT 1,
    series TEXT NOT NULL DEFAULT '',
    in_series INTEGER NOT NULL DEFAULT 0,
    content TEXT NOT NULL,
    source_path TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS posts_pub_date ON posts (published, pub_date);
CREATE TABLE IF NOT EXISTS rejections (
    path TEXT PRIMARY KEY,
    slug TEXT NOT NULL,
    problems TEXT NOT NULL
);
PRAGMA user_version = `+strconv.Itoa(schemaVersion)+`;
`)
	return err
}

// ReplaceAll swaps the stored posts and rejections for the given ones in a
// single transaction, so readers see either the old or the new collection.
func (s *Store) ReplaceAll(ctx context.Context, posts []BlogPost, rejections []Rejection) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM posts`); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM rejections`); err != nil {
		return err
	}

	insertPost, err := tx.PrepareContext(ctx, `INSERT INTO posts (`+postColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer insertPost.Close()
	for _, p := range posts {
		if _, err := insertPost.ExecContext(ctx,
			p.Slug, p.Title, p.Description,
			p.PubDate.UnixMilli(), nullableMillis(p.UpdatedDate),
			p.CoverImage, joinTags(p.Tags), boolToInt(p.Published),
			p.Series, boolToInt(p.InSeries), p.Content, p.SourcePath,
		); err != nil {
			return fmt.Errorf("insert post %s: %w", p.Slug, err)
		}
	}

	insertRejection, err := tx.PrepareContext(ctx, `INSERT INTO rejections (path, slug, problems) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer insertRejection.Close()
	for _, r := range rejections {
		if _, err := insertRejection.ExecContext(ctx, r.Path, r.Slug, strings.Join(r.Problems, "\n")); err != nil {
			return fmt.Errorf("insert rejection %s: %w", r.Path, err)
		}
	}

	return tx.Commit()
}

// ListPosts returns all published posts ordered by date descending.
// If tag is non-empty, results are filtered to posts containing that tag.
func (s *Store) ListPosts(tag string) ([]BlogPost, error) {
	if tag == "" {
		return s.queryPosts(`SELECT ` + postColumns + ` FROM posts WHERE published = 1 ORDER BY pub_date DESC, slug`)
	}
	return s.queryPosts(`SELECT `+postColumns+` FROM posts WHERE published = 1 AND instr(lower(tags), ',' || ? || ',') > 0 ORDER BY pub_date DESC, slug`, normalizeTag(tag))
}

// ListAllPosts returns every post (published and drafts) ordered by date descending.
func (s *Store) ListAllPosts() ([]BlogPost, error) {
	return s.queryPosts(`SELECT ` + postColumns + ` FROM posts ORDER BY pub_date DESC, slug`)
}

// ListSeries returns the published posts of a named series, oldest first.
func (s *Store) ListSeries(name string) ([]BlogPost, error) {
	return s.queryPosts(`SELECT `+postColumns+` FROM posts WHERE published = 1 AND series = ? ORDER BY pub_date ASC, slug`, name)
}

// ListTags returns a sorted, deduplicated slice of all tags from published posts.
func (s *Store) ListTags() ([]string, error) {
	rows, err := s.db.Query(`SELECT tags FROM posts WHERE published = 1`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	set := make(map[string]struct{})
	for rows.Next() {
		var tags string
		if err := rows.Scan(&tags); err != nil {
			return nil, err
		}
		for _, t := range ParseTags(tags) {
			set[strings.ToLower(t)] = struct{}{}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	result := make([]string, 0, len(set))
	for t := range set {
		result = append(result, t)
	}
	sort.Strings(result)
	return result, nil
}

// GetPost returns a single published post by slug.
func (s *Store) GetPost(slug string) (BlogPost, error) {
	return s.getPost(`SELECT `+postColumns+` FROM posts WHERE slug = ? AND published = 1`, slug)
}

// GetPostAny returns a post by slug regardless of published status (for admin).
func (s *Store) GetPostAny(slug string) (BlogPost, error) {
	return s.getPost(`SELECT `+postColumns+` FROM posts WHERE slug = ?`, slug)
}

// ListRejections returns the documents rejected by the last sync, by path.
func (s *Store) ListRejections() ([]Rejection, error) {
	rows, err := s.db.Query(`SELECT path, slug, problems FROM rejections ORDER BY path`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Rejection
	for rows.Next() {
		var r Rejection
		var problems string
		if err := rows.Scan(&r.Path, &r.Slug, &problems); err != nil {
			return nil, err
		}
		r.Problems = strings.Split(problems, "\n")
		out = append(out, r)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (BlogPost, error) {
	var p BlogPost
	var pubDate int64
	var updatedDate sql.NullInt64
	var tags string
	var published, inSeries int
	if err := row.Scan(&p.Slug, &p.Title, &p.Description, &pubDate, &updatedDate,
		&p.CoverImage, &tags, &published, &p.Series, &inSeries, &p.Content, &p.SourcePath); err != nil {
		return BlogPost{}, err
	}
	p.PubDate = time.UnixMilli(pubDate).UTC()
	if updatedDate.Valid {
		p.UpdatedDate = time.UnixMilli(updatedDate.Int64).UTC()
	}
	p.Tags = ParseTags(tags)
	p.Published = published == 1
	p.InSeries = inSeries == 1
	p.Link = postLink(p.Slug)
	return p, nil
}

func (s *Store) queryPosts(query string, args ...any) ([]BlogPost, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []BlogPost
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (s *Store) getPost(query, slug string) (BlogPost, error) {
	return scanPost(s.db.QueryRow(query, slug))
}

// ParseTags splits a comma-delimited tag string (e.g. ",go,web,") into a slice.
func ParseTags(tagString string) []string {
	tagString = strings.Trim(tagString, ",")
	if tagString == "" {
		return nil
	}
	parts := strings.Split(tagString, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// joinTags stores tags with leading and trailing commas so a single tag can
// be matched with instr. Tags are normalized to lowercase.
func joinTags(tags []string) string {
	normalized := make([]string, len(tags))
	for i, t := range tags {
		normalized[i] = normalizeTag(strings.ReplaceAll(t, ",", " "))
	}
	return "," + strings.Join(normalized, ",") + ","
}

// nullableMillis stores a zero time as NULL.
func nullableMillis(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixMilli(), Valid: true}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func postLink(slug string) string {
	return "/blog/" + slug + "/"
}
