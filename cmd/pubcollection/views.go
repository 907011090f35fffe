package main

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/eringen/pubcollection"
	"github.com/eringen/pubcollection/markdown"
)

// defaultViews renders plain, unstyled pages. Sites that want their own
// look build a binary around pubcollection.New with templ templates.
func defaultViews(cfg pubcollection.SiteConfig) pubcollection.ViewFuncs {
	return pubcollection.ViewFuncs{
		Home: func(posts []pubcollection.BlogPost, activeTag string, tags []string, siteURL string) templ.Component {
			return page(cfg.Name, pubcollection.WebsiteJsonLD(cfg), func(ctx context.Context, w io.Writer) error {
				fmt.Fprintf(w, "<h1>%s</h1><nav>", esc(cfg.Name))
				for _, t := range tags {
					fmt.Fprintf(w, `<a href="/?tag=%s">#%s</a> `, esc(t), esc(t))
				}
				fmt.Fprint(w, "</nav><ul>")
				for _, p := range posts {
					fmt.Fprintf(w, `<li><a href="%s"><img src="%s" alt="" width="240"> %s</a> <time>%s</time><p>%s</p></li>`,
						esc(p.Link), esc(p.CoverImage), esc(p.Title), p.DateString(), esc(p.Description))
				}
				_, err := fmt.Fprint(w, "</ul>")
				return err
			})
		},
		Post: func(post pubcollection.BlogPost, series, related []pubcollection.BlogPost, siteURL string) templ.Component {
			meta := pubcollection.PostMeta(post, cfg)
			return page(meta.Title, pubcollection.BlogPostingJsonLD(post, cfg), func(ctx context.Context, w io.Writer) error {
				fmt.Fprintf(w, `<article><img src="%s" alt=""><h1>%s</h1><time>%s</time>`,
					esc(post.CoverImage), esc(post.Title), post.DateString())
				if len(series) > 1 {
					fmt.Fprint(w, "<ol>")
					for _, s := range series {
						fmt.Fprintf(w, `<li><a href="%s">%s</a></li>`, esc(s.Link), esc(s.Title))
					}
					fmt.Fprint(w, "</ol>")
				}
				if err := markdown.Markdown(post.Content).Render(ctx, w); err != nil {
					return err
				}
				fmt.Fprint(w, "</article>")
				if len(related) > 0 {
					fmt.Fprint(w, "<aside><h2>Related</h2><ul>")
					for _, r := range related {
						fmt.Fprintf(w, `<li><a href="%s">%s</a></li>`, esc(r.Link), esc(r.Title))
					}
					fmt.Fprint(w, "</ul></aside>")
				}
				return nil
			})
		},
		AdminLogin: func(showError bool, csrfToken string) templ.Component {
			return page("Admin", "", func(ctx context.Context, w io.Writer) error {
				if showError {
					fmt.Fprint(w, "<p>Wrong password.</p>")
				}
				_, err := fmt.Fprintf(w, `<form method="post" action="/admin/login/"><input type="hidden" name="_csrf" value="%s"><input type="password" name="password"><button>Log in</button></form>`, esc(csrfToken))
				return err
			})
		},
		AdminDashboard: func(posts []pubcollection.BlogPost, rejections []pubcollection.Rejection, message string, csrfToken string) templ.Component {
			return page("Admin", "", func(ctx context.Context, w io.Writer) error {
				if message != "" {
					fmt.Fprintf(w, "<p>%s</p>", esc(message))
				}
				fmt.Fprintf(w, `<form method="post" action="/admin/sync/"><input type="hidden" name="_csrf" value="%s"><button>Resync</button></form>`, esc(csrfToken))
				fmt.Fprintf(w, "<h2>Rejected (%d)</h2><ul>", len(rejections))
				for _, r := range rejections {
					fmt.Fprintf(w, "<li>%s<ul>", esc(r.Path))
					for _, p := range r.Problems {
						fmt.Fprintf(w, "<li>%s</li>", esc(p))
					}
					fmt.Fprint(w, "</ul></li>")
				}
				fmt.Fprintf(w, "</ul><h2>Posts (%d)</h2><ul>", len(posts))
				for _, p := range posts {
					status := ""
					if !p.Published {
						status = " (draft)"
					}
					fmt.Fprintf(w, `<li><a href="/admin/preview/%s/">%s</a>%s</li>`, esc(p.Slug), esc(p.Title), status)
				}
				_, err := fmt.Fprint(w, "</ul>")
				return err
			})
		},
		NotFound: func() templ.Component {
			return page("Not found", "", staticBody("<h1>404</h1><p>Page not found.</p>"))
		},
		ServerError: func() templ.Component {
			return page("Error", "", staticBody("<h1>500</h1><p>Something went wrong.</p>"))
		},
	}
}

func esc(s string) string { return templ.EscapeString(s) }

func staticBody(html string) templ.ComponentFunc {
	return func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, html)
		return err
	}
}

// page wraps body in a minimal HTML document.
func page(title, jsonLD string, body templ.ComponentFunc) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		fmt.Fprintf(w, `<!doctype html><html><head><meta charset="utf-8"><title>%s</title>`, esc(title))
		if jsonLD != "" {
			fmt.Fprintf(w, `<script type="application/ld+json">%s</script>`, jsonLD)
		}
		fmt.Fprint(w, "</head><body>")
		if err := body(ctx, w); err != nil {
			return err
		}
		_, err := fmt.Fprint(w, "</body></html>")
		return err
	})
}
