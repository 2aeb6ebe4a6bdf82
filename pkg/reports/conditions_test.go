package reports

import (
	"testing"
	"time"

	"github.com/foomo/contentreports/content"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// a wednesday at noon
var testNow = time.Date(2024, time.May, 15, 12, 0, 0, 0, time.UTC)

func conditionNode(conditionType string, properties map[string]interface{}) *content.Node {
	return &content.Node{
		ID:         "condition",
		Name:       "condition",
		Type:       conditionType,
		Properties: properties,
	}
}

func nodeWithConditions(published bool, conditions ...*content.Node) *content.Node {
	visibility := &content.Node{
		ID:    "visibility",
		Name:  "visibility",
		Type:  content.TypeConditionalVisibility,
		Nodes: map[string]*content.Node{},
	}
	for i, condition := range conditions {
		visibility.Nodes[condition.Name+string(rune('a'+i))] = condition
	}
	node := &content.Node{
		ID:   "node",
		Name: "node",
		Type: content.TypeContent,
		Properties: map[string]interface{}{
			content.PropPublished: published,
		},
		Nodes: map[string]*content.Node{"visibility": visibility},
	}
	return node
}

func TestEvaluateWithoutConditions(t *testing.T) {
	e := NewConditionEvaluator(testNow)

	match := e.Evaluate(&content.Node{ID: "plain", Properties: map[string]interface{}{}})
	assert.True(t, match.Matched)
	assert.Empty(t, match.Conditions)
	assert.Equal(t, "not visible", match.CurrentStatus())

	match = e.Evaluate(nodeWithConditions(true))
	assert.True(t, match.Matched)
	assert.Equal(t, "visible", match.CurrentStatus())
}

func TestEvaluateDayOfWeek(t *testing.T) {
	e := NewConditionEvaluator(testNow)

	match := e.Evaluate(nodeWithConditions(true, conditionNode(content.TypeDayOfWeekCondition, map[string]interface{}{
		content.PropDays: []string{"Wednesday"},
	})))
	assert.True(t, match.Matched)

	match = e.Evaluate(nodeWithConditions(true, conditionNode(content.TypeDayOfWeekCondition, map[string]interface{}{
		content.PropDays: []string{"monday", "tuesday"},
	})))
	assert.False(t, match.Matched)
	require.Len(t, match.Conditions, 1)
	assert.Equal(t, "Visible on [ monday, tuesday ]", match.Conditions[0].Description)

	// descriptions normalize the stored days to lowercase and sorted order
	match = e.Evaluate(nodeWithConditions(true, conditionNode(content.TypeDayOfWeekCondition, map[string]interface{}{
		content.PropDays: []string{"Tuesday", "MONDAY"},
	})))
	require.Len(t, match.Conditions, 1)
	assert.Equal(t, "Visible on [ monday, tuesday ]", match.Conditions[0].Description)
}

func TestEvaluateTimeOfDay(t *testing.T) {
	e := NewConditionEvaluator(testNow)

	tests := map[string]struct {
		properties map[string]interface{}
		matched    bool
	}{
		"within window": {
			properties: map[string]interface{}{
				content.PropStartHour: "8",
				content.PropEndHour:   "18",
			},
			matched: true,
		},
		"before window": {
			properties: map[string]interface{}{
				content.PropStartHour: "14",
			},
			matched: false,
		},
		"end is exclusive": {
			properties: map[string]interface{}{
				content.PropEndHour: "12",
			},
			matched: false,
		},
		"open ended start": {
			properties: map[string]interface{}{
				content.PropStartHour:   "11",
				content.PropStartMinute: "30",
			},
			matched: true,
		},
		"no bounds": {
			properties: map[string]interface{}{},
			matched:    true,
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			match := e.Evaluate(nodeWithConditions(true, conditionNode(content.TypeTimeOfDayCondition, test.properties)))
			assert.Equal(t, test.matched, match.Matched)
		})
	}
}

func TestEvaluateStartEndDate(t *testing.T) {
	e := NewConditionEvaluator(testNow)

	tests := map[string]struct {
		properties map[string]interface{}
		matched    bool
	}{
		"active range": {
			properties: map[string]interface{}{
				content.PropStart: "2024-01-01T00:00:00Z",
				content.PropEnd:   "2024-12-31T00:00:00Z",
			},
			matched: true,
		},
		"expired range": {
			properties: map[string]interface{}{
				content.PropEnd: "2024-01-01T00:00:00Z",
			},
			matched: false,
		},
		"future range": {
			properties: map[string]interface{}{
				content.PropStart: "2024-12-01T00:00:00Z",
			},
			matched: false,
		},
		"no bounds never match": {
			properties: map[string]interface{}{},
			matched:    false,
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			match := e.Evaluate(nodeWithConditions(true, conditionNode(content.TypeStartEndDateCondition, test.properties)))
			assert.Equal(t, test.matched, match.Matched)
		})
	}
}

func TestEvaluateUnknownConditionType(t *testing.T) {
	e := NewConditionEvaluator(testNow)
	match := e.Evaluate(nodeWithConditions(true, conditionNode("cms:somethingElse", nil)))
	assert.False(t, match.Matched)
}

// all conditions must match, and visibility additionally requires the node
// to be published
func TestEvaluateAllConditionsAndPublished(t *testing.T) {
	e := NewConditionEvaluator(testNow)

	matching := conditionNode(content.TypeDayOfWeekCondition, map[string]interface{}{
		content.PropDays: []string{"wednesday"},
	})
	failing := conditionNode(content.TypeStartEndDateCondition, map[string]interface{}{
		content.PropEnd: "2024-01-01T00:00:00Z",
	})

	match := e.Evaluate(nodeWithConditions(true, matching, failing))
	assert.False(t, match.Matched)
	assert.Equal(t, "not visible", match.CurrentStatus())
	assert.Len(t, match.Conditions, 2)

	unpublished := e.Evaluate(nodeWithConditions(false, matching))
	assert.True(t, unpublished.Matched)
	assert.Equal(t, "not visible", unpublished.CurrentStatus())
}
