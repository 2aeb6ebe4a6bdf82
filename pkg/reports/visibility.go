package reports

import (
	"context"
	"strings"
	"time"

	"github.com/foomo/contentreports/content"
	"github.com/foomo/contentreports/pkg/repo"
)

// ------------------------------------------------------------------------------------------------
// ~ Live content
// ------------------------------------------------------------------------------------------------

// LiveContent lists content nodes carrying visibility conditions together
// with their evaluated visibility state.
type LiveContent struct {
	Base
	scope string
	rows  [][]interface{}
	total int
}

func (r *LiveContent) Execute(ctx context.Context, session Session, offset, limit int) error {
	if err := r.begin(); err != nil {
		return err
	}
	q := r.scopeQuery(content.TypeContent, r.scope)
	q.Visibility = &repo.Visibility{}

	evaluator := NewConditionEvaluator(r.now)
	r.fetch(ctx, session, q, offset, limit, func(node *content.Node) {
		match := evaluator.Evaluate(node)
		if len(match.Conditions) == 0 || !hasRecurringConditions(node, match) {
			return
		}
		descriptions := make([]string, 0, len(match.Conditions))
		for _, condition := range match.Conditions {
			descriptions = append(descriptions, condition.Description)
		}
		r.rows = append(r.rows, []interface{}{
			node.Name,
			parentPath(node),
			nodeTypes(node),
			strings.Join(descriptions, "<br/>"),
			match.Matched,
			match.CurrentStatus(),
		})
	})

	// visible now = all conditioned nodes minus the ones with an inactive
	// date range, unless a weekday or time condition also constrains them
	all := r.count(ctx, session, q)
	invalid := r.countVisibility(ctx, session, repo.Visibility{InvalidAt: r.now})
	invalidDay := r.countVisibility(ctx, session, repo.Visibility{
		InvalidAt:             r.now,
		RequireConditionTypes: []string{content.TypeDayOfWeekCondition},
	})
	invalidTime := r.countVisibility(ctx, session, repo.Visibility{
		InvalidAt:             r.now,
		RequireConditionTypes: []string{content.TypeTimeOfDayCondition},
	})
	invalidBoth := r.countVisibility(ctx, session, repo.Visibility{
		InvalidAt:             r.now,
		RequireConditionTypes: []string{content.TypeDayOfWeekCondition, content.TypeTimeOfDayCondition},
	})
	r.total = clampTotal(all - (invalid - invalidDay - invalidTime - invalidBoth))
	return nil
}

func (r *LiveContent) Payload() map[string]interface{} {
	payload := r.basePayload()
	payload["recordsTotal"] = r.total
	payload["recordsFiltered"] = r.total
	payload["data"] = emptyRows(r.rows)
	return payload
}

func (r *LiveContent) countVisibility(ctx context.Context, session Session, v repo.Visibility) int {
	q := r.scopeQuery(content.TypeContent, r.scope)
	q.Visibility = &v
	return r.count(ctx, session, q)
}

// ------------------------------------------------------------------------------------------------
// ~ Expired content
// ------------------------------------------------------------------------------------------------

// ExpiredContent lists content nodes whose visibility date range has ended.
// Nodes that are additionally constrained by weekday or time conditions are
// excluded, their state cannot be reduced to an expiry date.
type ExpiredContent struct {
	Base
	scope string
	rows  [][]interface{}
	total int
}

func (r *ExpiredContent) Execute(ctx context.Context, session Session, offset, limit int) error {
	if err := r.begin(); err != nil {
		return err
	}
	q := r.scopeQuery(content.TypeContent, r.scope)
	q.Visibility = &repo.Visibility{EndBefore: r.now}
	q.OrderBy = repo.OrderByName

	seen := map[string]bool{}
	r.fetch(ctx, session, q, offset, limit, func(node *content.Node) {
		if seen[node.Name] {
			return
		}
		expiredOn, ok := expiredCondition(node, r.now)
		if !ok {
			return
		}
		seen[node.Name] = true
		r.rows = append(r.rows, []interface{}{
			node.Name,
			parentPath(node),
			nodeTypes(node),
			expiredOn.Format(dateDisplayFormat),
		})
	})

	r.total = clampTotal(r.count(ctx, session, q) - r.countConstrained(ctx, session, q, repo.Visibility{EndBefore: r.now}))
	return nil
}

func (r *ExpiredContent) Payload() map[string]interface{} {
	payload := r.basePayload()
	payload["recordsTotal"] = r.total
	payload["recordsFiltered"] = r.total
	payload["data"] = emptyRows(r.rows)
	return payload
}

// ------------------------------------------------------------------------------------------------
// ~ Future content
// ------------------------------------------------------------------------------------------------

// FutureContent lists content nodes whose visibility date range has not
// started yet. Like ExpiredContent it excludes nodes that are additionally
// constrained by weekday or time conditions.
type FutureContent struct {
	Base
	scope string
	rows  [][]interface{}
	total int
}

func (r *FutureContent) Execute(ctx context.Context, session Session, offset, limit int) error {
	if err := r.begin(); err != nil {
		return err
	}
	q := r.scopeQuery(content.TypeContent, r.scope)
	q.Visibility = &repo.Visibility{StartAfter: r.now}
	q.OrderBy = repo.OrderByName

	seen := map[string]bool{}
	r.fetch(ctx, session, q, offset, limit, func(node *content.Node) {
		if seen[node.Name] {
			return
		}
		liveOn, ok := futureCondition(node, r.now)
		if !ok {
			return
		}
		seen[node.Name] = true
		r.rows = append(r.rows, []interface{}{
			node.Name,
			parentPath(node),
			nodeTypes(node),
			liveOn.Format(dateDisplayFormat),
		})
	})

	r.total = clampTotal(r.count(ctx, session, q) - r.countConstrained(ctx, session, q, repo.Visibility{StartAfter: r.now}))
	return nil
}

func (r *FutureContent) Payload() map[string]interface{} {
	payload := r.basePayload()
	payload["recordsTotal"] = r.total
	payload["recordsFiltered"] = r.total
	payload["data"] = emptyRows(r.rows)
	return payload
}

// ------------------------------------------------------------------------------------------------
// ~ Helpers
// ------------------------------------------------------------------------------------------------

// countConstrained counts nodes matching the date filter that also carry
// weekday or time conditions
func (b *Base) countConstrained(ctx context.Context, session Session, q repo.Query, v repo.Visibility) int {
	constrained := 0
	for _, requires := range [][]string{
		{content.TypeDayOfWeekCondition},
		{content.TypeTimeOfDayCondition},
		{content.TypeDayOfWeekCondition, content.TypeTimeOfDayCondition},
	} {
		withTypes := q
		visibility := v
		visibility.RequireConditionTypes = requires
		withTypes.Visibility = &visibility
		constrained += b.count(ctx, session, withTypes)
	}
	return constrained
}

// hasRecurringConditions reports whether a node belongs on the live report.
// Nodes whose only conditions are inactive date ranges are plain expired or
// upcoming content, not recurring.
func hasRecurringConditions(node *content.Node, match ConditionMatch) bool {
	if match.Matched {
		return true
	}
	for _, condition := range VisibilityConditions(node) {
		if condition.Type != content.TypeStartEndDateCondition {
			return true
		}
	}
	return false
}

func parentPath(node *content.Node) string {
	if parentNode := node.Parent(); parentNode != nil {
		return parentNode.Path
	}
	return ""
}

func nodeTypes(node *content.Node) string {
	return strings.Join(append([]string{node.Type}, node.Mixins...), "<br/>")
}

// expiredCondition the latest end date of the node's date range conditions.
// Nodes carrying any other condition type yield no expiry date.
func expiredCondition(node *content.Node, now time.Time) (time.Time, bool) {
	var latest time.Time
	for _, condition := range VisibilityConditions(node) {
		if condition.Type != content.TypeStartEndDateCondition {
			return time.Time{}, false
		}
		if end := condition.PropertyTime(content.PropEnd); !end.IsZero() && end.Before(now) && end.After(latest) {
			latest = end
		}
	}
	if latest.IsZero() {
		return time.Time{}, false
	}
	return latest, true
}

// futureCondition the earliest start date of the node's date range
// conditions that lies in the future
func futureCondition(node *content.Node, now time.Time) (time.Time, bool) {
	var earliest time.Time
	for _, condition := range VisibilityConditions(node) {
		if condition.Type != content.TypeStartEndDateCondition {
			return time.Time{}, false
		}
		start := condition.PropertyTime(content.PropStart)
		if start.IsZero() || !start.After(now) {
			continue
		}
		if earliest.IsZero() || start.Before(earliest) {
			earliest = start
		}
	}
	if earliest.IsZero() {
		return time.Time{}, false
	}
	return earliest, true
}

// emptyRows never nil, the serialized payload carries [] instead of null
func emptyRows(rows [][]interface{}) [][]interface{} {
	if rows == nil {
		return [][]interface{}{}
	}
	return rows
}
