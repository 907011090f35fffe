package pubcollection

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

func (a *App) handleHome(c echo.Context) error {
	tag := c.QueryParam("tag")
	posts, err := a.Cache.ListPosts(tag)
	if err != nil {
		return err
	}
	tags, err := a.Cache.ListTags()
	if err != nil {
		return err
	}
	return Render(c, a.Views.Home(posts, tag, tags, a.Config.URL))
}

// relatedLimit caps the related posts shown under a post.
const relatedLimit = 3

// postSlug returns the unescaped post ID from a /blog/* or /admin/preview/*
// route. IDs may contain slashes and non-ASCII letters.
func postSlug(c echo.Context) string {
	raw := c.Param("*")
	if slug, err := url.PathUnescape(raw); err == nil {
		raw = slug
	}
	return strings.Trim(raw, "/")
}

func (a *App) handlePost(c echo.Context) error {
	slug := postSlug(c)
	if slug == "" {
		return c.Redirect(http.StatusMovedPermanently, "/")
	}
	post, err := a.Cache.GetPost(slug)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		}
		return err
	}
	series, err := a.Cache.ListSeries(post.Series)
	if err != nil {
		return err
	}
	all, err := a.Cache.ListPosts("")
	if err != nil {
		return err
	}
	related := RelatedPosts(post, all, relatedLimit)
	return Render(c, a.Views.Post(post, series, related, a.Config.URL))
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return err
	}
	return a.renderSitemap(c, posts)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return err
	}
	return a.renderRSS(c, posts)
}

// apiPost is the JSON shape of a post in /api/posts/. Dates are
// preformatted: time.Time refuses to marshal years outside 0-9999.
type apiPost struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	PubDate     string   `json:"pubDate"`
	UpdatedDate string   `json:"updatedDate,omitempty"`
	CoverImage  string   `json:"coverImage"`
	Tags        []string `json:"tags"`
	Series      string   `json:"series,omitempty"`
	InSeries    bool     `json:"inSeries"`
	URL         string   `json:"url"`
}

func (a *App) handleAPIPosts(c echo.Context) error {
	posts, err := a.Cache.ListPosts(c.QueryParam("tag"))
	if err != nil {
		return err
	}
	out := make([]apiPost, 0, len(posts))
	for _, p := range posts {
		ap := apiPost{
			Slug:        p.Slug,
			Title:       p.Title,
			Description: p.Description,
			PubDate:     p.PubDate.Format(time.RFC3339),
			CoverImage:  p.CoverImage,
			Tags:        p.Tags,
			Series:      p.Series,
			InSeries:    p.InSeries,
			URL:         BuildURL(a.Config.URL, "blog", p.Slug),
		}
		if !p.UpdatedDate.IsZero() {
			ap.UpdatedDate = p.UpdatedDate.Format(time.RFC3339)
		}
		if ap.Tags == nil {
			ap.Tags = []string{}
		}
		out = append(out, ap)
	}
	return c.JSON(http.StatusOK, out)
}

// handlePlaceholder redirects to a randomly chosen placeholder image.
func (a *App) handlePlaceholder(c echo.Context) error {
	c.Response().Header().Set("Cache-Control", "no-store")
	return c.Redirect(http.StatusFound, a.picker.Pick())
}

func handleBlogRedirect(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, "/")
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(filepath.Join(a.Config.StaticDir, "favicon.svg"))
}

func (a *App) handleRobots(c echo.Context) error {
	return c.File(filepath.Join(a.Config.StaticDir, "robots.txt"))
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.log.Error().Err(err).Str("uri", c.Request().RequestURI).Msg("server error")
		_ = RenderStatus(c, code, a.Views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component as HTML with the given status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	res.WriteHeader(code)
	if err := cmp.Render(c.Request().Context(), res); err != nil {
		return fmt.Errorf("render %s: %w", c.Path(), err)
	}
	return nil
}
