package pubcollection

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/a-h/templ"

	"github.com/eringen/pubcollection/placeholder"
)

const (
	testPassword = "correct horse"
	testSecret   = "0123456789abcdef0123456789abcdef"
)

// firstPlaceholder always picks placeholder 1.
type firstPlaceholder struct{}

func (firstPlaceholder) IntN(int) int { return 0 }

func text(format string, args ...any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, format, args...)
		return err
	})
}

func slugs(posts []BlogPost) string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.Slug
	}
	return strings.Join(out, ",")
}

func stubViews() ViewFuncs {
	return ViewFuncs{
		Home: func(posts []BlogPost, activeTag string, tags []string, siteURL string) templ.Component {
			return text("home tag=%s posts=%s tags=%s", activeTag, slugs(posts), strings.Join(tags, ","))
		},
		Post: func(post BlogPost, series, related []BlogPost, siteURL string) templ.Component {
			return text("post=%s cover=%s series=%s related=%s", post.Slug, post.CoverImage, slugs(series), slugs(related))
		},
		AdminLogin: func(showError bool, csrfToken string) templ.Component {
			return text("login error=%v csrf=%s", showError, csrfToken)
		},
		AdminDashboard: func(posts []BlogPost, rejections []Rejection, message string, csrfToken string) templ.Component {
			return text("dashboard posts=%d rejected=%d msg=%s", len(posts), len(rejections), message)
		},
		NotFound:    func() templ.Component { return text("not found") },
		ServerError: func() templ.Component { return text("server error") },
	}
}

func writeDoc(t *testing.T, dir, name, content string) {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func doc(frontmatter string) string {
	return "---\n" + strings.TrimSpace(frontmatter) + "\n---\nBody of the post.\n"
}

var sampleDocs = map[string]string{
	"hello-world.md": doc(`
title: Hello World
description: The first post
pubDate: 2024-01-10
heroImage: /images/hello.jpg
tags: [Go, web]
`),
	"second.md": doc(`
title: Second
description: No cover here
date: 2024-02-01
updatedDate: 2024-02-05
tags: [go]
series: basics
`),
	"third.mdx": doc(`
title: Third
description: Also in the series
date: 2024-03-01
series: basics
`),
	"draft.md": doc(`
title: Draft
description: Not yet
date: 2024-04-01
published: false
`),
	"broken.md": doc(`
title: Broken
description: Missing dates
tags: [1, 2]
`),
}

func testConfig(dir string) SiteConfig {
	return SiteConfig{
		Name:          "Test Blog",
		URL:           "https://example.com",
		Description:   "A test blog",
		DatabasePath:  filepath.Join(dir, "data", "blog.db"),
		ContentDir:    filepath.Join(dir, "content"),
		StaticDir:     filepath.Join(dir, "public"),
		AdminPassword: testPassword,
		SessionSecret: testSecret,
	}
}

// newTestApp writes docs into a fresh content dir and returns an opened App.
func newTestApp(t *testing.T, docs map[string]string, mutate ...func(*SiteConfig)) *App {
	t.Helper()
	dir := t.TempDir()
	cfg := testConfig(dir)
	for _, m := range mutate {
		m(&cfg)
	}
	if err := os.MkdirAll(cfg.ContentDir, 0o755); err != nil {
		t.Fatal(err)
	}
	for name, content := range docs {
		writeDoc(t, cfg.ContentDir, name, content)
	}

	a := New(cfg, stubViews(), WithPicker(placeholder.NewPicker(firstPlaceholder{})))
	if err := a.Open(context.Background()); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func serve(a *App, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	return rec
}

func get(a *App, target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return serve(a, req)
}
