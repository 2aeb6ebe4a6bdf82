// Package reports computes analytical reports over the content repository.
package reports

import (
	"context"
	"time"

	"github.com/foomo/contentreports/content"
	"github.com/foomo/contentreports/pkg/metrics"
	"github.com/foomo/contentreports/pkg/repo"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	// ErrUnknownReport no report is configured for the requested id
	ErrUnknownReport = errors.New("unknown report")
	// ErrAlreadyExecuted aggregates are single use
	ErrAlreadyExecuted = errors.New("report was already executed")
)

// display format for dates in report rows
const dateDisplayFormat = "01/02/2006 15:04"

type (
	// Session the query surface a report execution runs against
	Session interface {
		Sites() []*content.Site
		Site(key string) (*content.Site, error)
		NodeByPath(siteKey, path string) (*content.Node, error)
		NodeByID(id string) (siteKey string, node *content.Node, err error)
		QueryNodes(ctx context.Context, q repo.Query, offset, limit int) ([]*content.Node, error)
		Count(ctx context.Context, q repo.Query) (int, error)
	}

	// Aggregate a configured report. Execute folds query results into the
	// aggregate, Payload projects them into the serializable reply.
	// Aggregates are single use, a second Execute fails.
	Aggregate interface {
		Execute(ctx context.Context, session Session, offset, limit int) error
		Payload() map[string]interface{}
	}

	// Base common state embedded by every report
	Base struct {
		l             *zap.Logger
		id            string
		site          *content.Site
		locale        Locale
		defaultLocale Locale
		now           time.Time
		executed      bool
		partial       bool
	}
)

func newBase(l *zap.Logger, id string, site *content.Site, requestedLocale string, now time.Time) Base {
	active, def := ResolveLocales(site, requestedLocale)
	return Base{
		l:             l.Named("report." + id),
		id:            id,
		site:          site,
		locale:        active,
		defaultLocale: def,
		now:           now,
	}
}

// begin enforces the single use contract
func (b *Base) begin() error {
	if b.executed {
		return errors.Wrap(ErrAlreadyExecuted, b.id)
	}
	b.executed = true
	return nil
}

// absorbQueryError degrades a failed sub query to zero results
func (b *Base) absorbQueryError(err error) {
	b.partial = true
	b.l.Error("report query failed, degrading to zero results", zap.Error(err))
	metrics.ReportQueryFailedCounter.WithLabelValues(b.id).Inc()
}

// basePayload the fields shared by every report payload
func (b *Base) basePayload() map[string]interface{} {
	payload := map[string]interface{}{
		"siteName":            b.site.Name,
		"siteDisplayableName": b.site.DisplayName,
	}
	if b.partial {
		payload["partial"] = true
	}
	return payload
}

// scopeQuery a query on the report's site
func (b *Base) scopeQuery(nodeType, scope string) repo.Query {
	return repo.Query{
		Site:  b.site.Key,
		Type:  nodeType,
		Scope: scope,
	}
}

// displayName the node's title in the report locale, falling back to its
// name
func (b *Base) displayName(node *content.Node) string {
	if title := node.TranslatedProperty(b.locale.Lang, content.PropTitle); title != "" {
		return title
	}
	return node.Name
}

// percentage share of count in total, 0 when total is 0
func percentage(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) * 100 / float64(total)
}

// clampTotal derived totals never go below zero
func clampTotal(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
