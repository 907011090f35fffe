package pubcollection

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/eringen/pubcollection/collection"
	"github.com/eringen/pubcollection/markdown"
)

// SyncReport summarises one pass over the content directory.
type SyncReport struct {
	Posts      int
	Drafts     int
	Rejections []Rejection
	Duration   time.Duration
}

// Sync loads the content directory, validates every document and replaces
// the stored collection with the result. Invalid documents do not stop the
// sync; they are stored as rejections and logged.
func (a *App) Sync(ctx context.Context) (SyncReport, error) {
	a.syncMu.Lock()
	defer a.syncMu.Unlock()

	start := time.Now()
	res, err := collection.Load(ctx, a.Config.ContentDir)
	if err != nil {
		a.metrics.SyncFailures.Inc()
		return SyncReport{}, fmt.Errorf("pubcollection: load content: %w", err)
	}

	report := SyncReport{}
	posts := make([]BlogPost, 0, len(res.Entries))
	seen := make(map[string]string, len(res.Entries))
	for _, e := range res.Entries {
		if prev, dup := seen[e.ID]; dup {
			rej := Rejection{
				Slug:     e.ID,
				Path:     e.Path,
				Problems: []string{fmt.Sprintf("slug %q already used by %s", e.ID, prev)},
			}
			report.Rejections = append(report.Rejections, rej)
			a.metrics.Documents.WithLabelValues("rejected").Inc()
			a.metrics.ValidationErrors.WithLabelValues("duplicate_slug").Inc()
			continue
		}
		seen[e.ID] = e.Path

		p := a.postFromEntry(e)
		if !p.Published {
			report.Drafts++
		}
		posts = append(posts, p)
		a.metrics.Documents.WithLabelValues("accepted").Inc()
	}
	for _, r := range res.Rejected {
		report.Rejections = append(report.Rejections, Rejection{
			Slug:     r.ID,
			Path:     r.Path,
			Problems: r.Problems(),
		})
		a.metrics.observeRejection(r.Err)
	}

	if err := a.Store.ReplaceAll(ctx, posts, report.Rejections); err != nil {
		a.metrics.SyncFailures.Inc()
		return SyncReport{}, fmt.Errorf("pubcollection: store content: %w", err)
	}
	a.Cache.Invalidate()

	report.Posts = len(posts)
	report.Duration = time.Since(start)
	a.metrics.Posts.Set(float64(len(posts)))
	a.metrics.SyncDuration.Observe(report.Duration.Seconds())

	for _, r := range report.Rejections {
		a.log.Warn().
			Str("path", r.Path).
			Strs("problems", r.Problems).
			Msg("document rejected")
	}
	a.log.Info().
		Int("posts", report.Posts).
		Int("drafts", report.Drafts).
		Int("rejected", len(report.Rejections)).
		Dur("duration", report.Duration).
		Msg("content synced")
	return report, nil
}

// postFromEntry maps a validated document onto a BlogPost. Posts are
// published unless they say otherwise, and posts without a cover image
// get a placeholder.
func (a *App) postFromEntry(e collection.Entry) BlogPost {
	fm := e.Post
	p := BlogPost{
		Slug:        e.ID,
		Title:       fm.Title,
		Description: fm.Description,
		PubDate:     fm.PublishedAt(),
		CoverImage:  fm.Cover(),
		Tags:        fm.Tags,
		Published:   !fm.IsDraft(),
		SourcePath:  e.Path,
		Link:        postLink(e.ID),
	}
	if fm.UpdatedDate != nil {
		p.UpdatedDate = *fm.UpdatedDate
	}
	if p.CoverImage == "" {
		p.CoverImage = a.picker.Pick()
	}
	if fm.Series != nil {
		p.InSeries = fm.Series.InSeries()
		if name, ok := fm.Series.Name(); ok {
			p.Series = name
		}
	}
	body := e.Body
	if strings.EqualFold(filepath.Ext(e.Path), ".mdx") {
		body = markdown.StripESM(body)
	}
	p.Content = string(body)
	return p
}
