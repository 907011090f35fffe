package pubcollection

import (
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"
)

// ErrNotFound is returned when a requested post does not exist.
var ErrNotFound = sql.ErrNoRows

// PostCache is an in-memory cache of published blog posts and tags with TTL.
// A sync invalidates it so the next read reflects the new collection.
type PostCache struct {
	mu      sync.RWMutex
	posts   []BlogPost
	bySlug  map[string]int
	tags    []string
	fetched time.Time
	ttl     time.Duration
	store   *Store
}

// NewPostCache creates a PostCache backed by the given Store.
func NewPostCache(s *Store, ttl time.Duration) *PostCache {
	return &PostCache{store: s, ttl: ttl}
}

func (c *PostCache) valid() bool {
	return c.posts != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.posts = nil
	c.bySlug = nil
	c.tags = nil
	c.mu.Unlock()
}

func (c *PostCache) load() error {
	if c.valid() {
		return nil
	}
	posts, err := c.store.ListPosts("")
	if err != nil {
		return err
	}
	tags, err := c.store.ListTags()
	if err != nil {
		return err
	}
	if posts == nil {
		// An empty collection is still a loaded one.
		posts = []BlogPost{}
	}
	bySlug := make(map[string]int, len(posts))
	for i, p := range posts {
		bySlug[p.Slug] = i
	}
	c.posts = posts
	c.bySlug = bySlug
	c.tags = tags
	c.fetched = time.Now()
	return nil
}

// snapshot returns cached posts, slug index and tags after ensuring the
// cache is fresh. It tries a read lock first and only takes the write lock
// when a reload is needed.
func (c *PostCache) snapshot() ([]BlogPost, map[string]int, []string, error) {
	c.mu.RLock()
	if c.valid() {
		posts, bySlug, tags := c.posts, c.bySlug, c.tags
		c.mu.RUnlock()
		return posts, bySlug, tags, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(); err != nil {
		return nil, nil, nil, err
	}
	return c.posts, c.bySlug, c.tags, nil
}

// ListPosts returns published posts, newest first, optionally filtered by tag.
func (c *PostCache) ListPosts(tag string) ([]BlogPost, error) {
	posts, _, _, err := c.snapshot()
	if err != nil {
		return nil, err
	}
	if tag == "" {
		return posts, nil
	}
	normalized := normalizeTag(tag)
	var filtered []BlogPost
	for _, p := range posts {
		for _, t := range p.Tags {
			if normalizeTag(t) == normalized {
				filtered = append(filtered, p)
				break
			}
		}
	}
	return filtered, nil
}

// ListTags returns all unique tags from published posts.
func (c *PostCache) ListTags() ([]string, error) {
	_, _, tags, err := c.snapshot()
	return tags, err
}

// GetPost returns a single published post by slug from the cache.
func (c *PostCache) GetPost(slug string) (BlogPost, error) {
	posts, bySlug, _, err := c.snapshot()
	if err != nil {
		return BlogPost{}, err
	}
	i, ok := bySlug[slug]
	if !ok {
		return BlogPost{}, ErrNotFound
	}
	return posts[i], nil
}

// ListSeries returns the published posts of a named series, oldest first.
// An empty name yields nothing.
func (c *PostCache) ListSeries(name string) ([]BlogPost, error) {
	if name == "" {
		return nil, nil
	}
	posts, _, _, err := c.snapshot()
	if err != nil {
		return nil, err
	}
	var out []BlogPost
	for _, p := range posts {
		if p.Series == name {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PubDate.Before(out[j].PubDate)
	})
	return out, nil
}

func normalizeTag(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}
