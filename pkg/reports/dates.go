package reports

import (
	"context"
	"sort"
	"time"

	"github.com/foomo/contentreports/content"
	"github.com/foomo/contentreports/pkg/repo"
)

// ------------------------------------------------------------------------------------------------
// ~ By all dates
// ------------------------------------------------------------------------------------------------

// ByAllDate counts pages and editorial content per month of their creation
// or last modification date.
type ByAllDate struct {
	Base
	scope         string
	byCreation    bool
	useSystemUser bool
	months        map[monthKey]*monthCount
	totalPages    int
	totalContent  int
}

type monthKey struct {
	year  int
	month time.Month
}

type monthCount struct {
	pages   int
	content int
}

func (r *ByAllDate) Execute(ctx context.Context, session Session, offset, limit int) error {
	if err := r.begin(); err != nil {
		return err
	}
	r.months = map[monthKey]*monthCount{}

	r.fetchAll(ctx, session, r.scopeQuery(content.TypePage, r.scope), func(node *content.Node) {
		if key, ok := r.monthOf(node); ok {
			r.monthCount(key).pages++
			r.totalPages++
		}
	})
	r.fetchAll(ctx, session, r.scopeQuery(content.MixinEditorial, r.scope), func(node *content.Node) {
		if node.Type == content.TypePage {
			return
		}
		if key, ok := r.monthOf(node); ok {
			r.monthCount(key).content++
			r.totalContent++
		}
	})
	return nil
}

func (r *ByAllDate) Payload() map[string]interface{} {
	keys := make([]monthKey, 0, len(r.months))
	for key := range r.months {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year == keys[j].year {
			return keys[i].month < keys[j].month
		}
		return keys[i].year < keys[j].year
	})

	items := make([]map[string]interface{}, 0, len(keys))
	for _, key := range keys {
		items = append(items, map[string]interface{}{
			"year":    key.year,
			"month":   key.month.String(),
			"pages":   r.months[key].pages,
			"content": r.months[key].content,
		})
	}

	payload := r.basePayload()
	payload["totalPages"] = r.totalPages
	payload["totalContent"] = r.totalContent
	payload["items"] = items
	return payload
}

func (r *ByAllDate) monthOf(node *content.Node) (monthKey, bool) {
	if !r.useSystemUser && node.PropertyString(content.PropCreatedBy) == "system" {
		return monthKey{}, false
	}
	property := content.PropLastModified
	if r.byCreation {
		property = content.PropCreated
	}
	t := node.PropertyTime(property)
	if t.IsZero() {
		return monthKey{}, false
	}
	return monthKey{year: t.Year(), month: t.Month()}, true
}

func (r *ByAllDate) monthCount(key monthKey) *monthCount {
	count, ok := r.months[key]
	if !ok {
		count = &monthCount{}
		r.months[key] = count
	}
	return count
}

// ------------------------------------------------------------------------------------------------
// ~ Before date
// ------------------------------------------------------------------------------------------------

// BeforeDate lists editorial content last modified up to the end of the
// given day, bucketed per day for charting.
type BeforeDate struct {
	Base
	scope string
	date  time.Time
	items []map[string]interface{}
	total int
}

func (r *BeforeDate) Execute(ctx context.Context, session Session, offset, limit int) error {
	if err := r.begin(); err != nil {
		return err
	}
	q := r.scopeQuery(content.MixinEditorial, r.scope)
	if !r.date.IsZero() {
		q.Conditions = append(q.Conditions, conditionBefore(content.PropLastModified, r.date.AddDate(0, 0, 1)))
	}

	r.fetch(ctx, session, q, offset, limit, func(node *content.Node) {
		r.items = append(r.items, map[string]interface{}{
			"date":     formatDay(node.PropertyTime(content.PropLastModified)),
			"nodeName": r.displayName(node),
			"type":     shortType(node.Type),
			"typeName": node.Type,
		})
	})
	r.total = r.count(ctx, session, q)
	return nil
}

func (r *BeforeDate) Payload() map[string]interface{} {
	buckets := map[string]int{}
	for _, item := range r.items {
		buckets[item["date"].(string)]++
	}
	labels := make([]string, 0, len(buckets))
	for label := range buckets {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	values := make([]int, 0, len(labels))
	for _, label := range labels {
		values = append(values, buckets[label])
	}

	payload := r.basePayload()
	payload["totalContent"] = r.total
	payload["items"] = emptyItems(r.items)
	payload["chartLabels"] = labels
	payload["chartValues"] = values
	return payload
}

func conditionBefore(property string, t time.Time) repo.Condition {
	return repo.Condition{Property: property, Op: repo.OpBefore, Time: t}
}

func formatDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(paramDateFormat)
}

// emptyItems never nil, the serialized payload carries [] instead of null
func emptyItems(items []map[string]interface{}) []map[string]interface{} {
	if items == nil {
		return []map[string]interface{}{}
	}
	return items
}
