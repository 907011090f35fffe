package pubcollection

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, a.Views.AdminLogin(false, CsrfToken(c)))
	}
	return a.renderAdminDashboard(c, c.QueryParam("msg"))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) == 1 {
		if err := setAdminSession(c); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	a.loginLimiter.Record(ip)
	a.log.Warn().Str("ip", ip).Msg("failed admin login")
	return RenderStatus(c, http.StatusUnauthorized, a.Views.AdminLogin(true, CsrfToken(c)))
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

// handleAdminSync rereads the content directory on demand.
func (a *App) handleAdminSync(c echo.Context) error {
	report, err := a.Sync(c.Request().Context())
	if err != nil {
		return err
	}
	msg := fmt.Sprintf("synced %d posts", report.Posts)
	if n := len(report.Rejections); n > 0 {
		msg += fmt.Sprintf(", %d rejected", n)
	}
	return a.renderAdminDashboard(c, msg)
}

// handleAdminPreview renders any stored post, drafts included.
func (a *App) handleAdminPreview(c echo.Context) error {
	post, err := a.Store.GetPostAny(postSlug(c))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		}
		return err
	}
	var series []BlogPost
	if post.Series != "" {
		if series, err = a.Store.ListSeries(post.Series); err != nil {
			return err
		}
	}
	all, err := a.Cache.ListPosts("")
	if err != nil {
		return err
	}
	return Render(c, a.Views.Post(post, series, RelatedPosts(post, all, relatedLimit), a.Config.URL))
}

func (a *App) handleAPIRejections(c echo.Context) error {
	rejections, err := a.Store.ListRejections()
	if err != nil {
		return err
	}
	if rejections == nil {
		rejections = []Rejection{}
	}
	return c.JSON(http.StatusOK, rejections)
}

func (a *App) renderAdminDashboard(c echo.Context, msg string) error {
	posts, err := a.Store.ListAllPosts()
	if err != nil {
		return err
	}
	rejections, err := a.Store.ListRejections()
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminDashboard(posts, rejections, msg, CsrfToken(c)))
}
