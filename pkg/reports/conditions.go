package reports

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/foomo/contentreports/content"
)

type (
	// ConditionEvaluator evaluates conditional visibility condition nodes
	// against a fixed point in time
	ConditionEvaluator struct {
		now time.Time
	}

	// ConditionInfo one visibility condition of a node
	ConditionInfo struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Matched     bool   `json:"matched"`
	}

	// ConditionMatch the visibility facts of a node
	ConditionMatch struct {
		Conditions []ConditionInfo
		Matched    bool // all conditions match
		Published  bool
	}
)

func NewConditionEvaluator(now time.Time) ConditionEvaluator {
	return ConditionEvaluator{now: now}
}

// CurrentStatus "visible" only for published nodes whose conditions all match
func (m ConditionMatch) CurrentStatus() string {
	if m.Matched && m.Published {
		return "visible"
	}
	return "not visible"
}

// Descriptions condition descriptions keyed by condition name
func (m ConditionMatch) Descriptions() map[string]string {
	descriptions := map[string]string{}
	for _, condition := range m.Conditions {
		descriptions[condition.Name] = condition.Description
	}
	return descriptions
}

// Evaluate collects and evaluates the conditions of the node's conditional
// visibility child. A node without conditions matches.
func (e ConditionEvaluator) Evaluate(node *content.Node) ConditionMatch {
	match := ConditionMatch{
		Matched:   true,
		Published: node.PropertyBool(content.PropPublished),
	}
	for _, condition := range VisibilityConditions(node) {
		matched, description := e.evaluateCondition(condition)
		match.Conditions = append(match.Conditions, ConditionInfo{
			Name:        condition.Name,
			Description: description,
			Matched:     matched,
		})
		if !matched {
			match.Matched = false
		}
	}
	return match
}

// VisibilityConditions the condition children of a node's conditional
// visibility child, nil if it has none
func VisibilityConditions(node *content.Node) []*content.Node {
	for _, childNode := range node.Nodes {
		if childNode.Type == content.TypeConditionalVisibility {
			return childNode.Children()
		}
	}
	return nil
}

func (e ConditionEvaluator) evaluateCondition(condition *content.Node) (matched bool, description string) {
	switch condition.Type {
	case content.TypeDayOfWeekCondition:
		return e.evaluateDayOfWeek(condition)
	case content.TypeTimeOfDayCondition:
		return e.evaluateTimeOfDay(condition)
	case content.TypeStartEndDateCondition:
		return e.evaluateStartEndDate(condition)
	}
	// unknown condition types never match
	return false, condition.Type
}

// evaluateDayOfWeek matches when today's weekday is in the configured list.
// The description carries the days lowercased and sorted.
func (e ConditionEvaluator) evaluateDayOfWeek(condition *content.Node) (bool, string) {
	stored := condition.PropertyStrings(content.PropDays)
	days := make([]string, len(stored))
	for i, day := range stored {
		days[i] = strings.ToLower(day)
	}
	sort.Strings(days)

	today := strings.ToLower(e.now.Weekday().String())
	matched := false
	for _, day := range days {
		if day == today {
			matched = true
			break
		}
	}
	return matched, "Visible on [ " + strings.Join(days, ", ") + " ]"
}

// evaluateTimeOfDay matches within [start, end) of the day, minutes default
// to "00", missing sides are open ended and two missing sides always match
func (e ConditionEvaluator) evaluateTimeOfDay(condition *content.Node) (bool, string) {
	var (
		startHour   = condition.PropertyString(content.PropStartHour)
		startMinute = condition.PropertyString(content.PropStartMinute)
		endHour     = condition.PropertyString(content.PropEndHour)
		endMinute   = condition.PropertyString(content.PropEndMinute)
	)
	if startMinute == "" {
		startMinute = "00"
	}
	if endMinute == "" {
		endMinute = "00"
	}

	description := "Visible from " + startHour + ":" + startMinute + " until " + endHour + ":" + endMinute

	nowMinutes := e.now.Hour()*60 + e.now.Minute()
	switch {
	case startHour == "" && endHour == "":
		return true, description
	case endHour == "":
		return nowMinutes >= minutesOfDay(startHour, startMinute), description
	case startHour == "":
		return nowMinutes < minutesOfDay(endHour, endMinute), description
	default:
		return nowMinutes >= minutesOfDay(startHour, startMinute) &&
			nowMinutes < minutesOfDay(endHour, endMinute), description
	}
}

// evaluateStartEndDate matches strictly inside (start, end), missing sides
// are open ended and two missing sides never match
func (e ConditionEvaluator) evaluateStartEndDate(condition *content.Node) (bool, string) {
	var (
		start = condition.PropertyTime(content.PropStart)
		end   = condition.PropertyTime(content.PropEnd)
	)

	description := "Visible starting from " + formatConditionDate(start) + " until " + formatConditionDate(end)

	switch {
	case start.IsZero() && end.IsZero():
		return false, description
	case end.IsZero():
		return e.now.After(start), description
	case start.IsZero():
		return e.now.Before(end), description
	default:
		return e.now.After(start) && e.now.Before(end), description
	}
}

func formatConditionDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateDisplayFormat)
}

func minutesOfDay(hour, minute string) int {
	return parseClockInt(hour)*60 + parseClockInt(minute)
}

func parseClockInt(v string) int {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}
