// Package diet models the weekly meal plan returned by the diet planner
package diet

import "strings"

// Meals are the dishes planned for a single day
type Meals struct {
	Breakfast string `json:"breakfast,omitempty"`
	Lunch     string `json:"lunch,omitempty"`
	Dinner    string `json:"dinner,omitempty"`
	Snacks    string `json:"snacks,omitempty"`
}

// Empty reports whether no meal is planned
func (m Meals) Empty() bool {
	return m.Breakfast == "" && m.Lunch == "" && m.Dinner == "" && m.Snacks == ""
}

// Plan maps a weekday name to its meals
type Plan map[string]Meals

// Weekdays in the order the planner displays them
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Day is one entry of a plan
type Day struct {
	Name  string
	Meals Meals
}

// Days returns the planned days from Monday to Sunday. Keys are matched
// case-insensitively; days missing from the plan are skipped.
func (p Plan) Days() []Day {
	byName := make(map[string]Meals, len(p))
	for name, meals := range p {
		byName[strings.ToLower(strings.TrimSpace(name))] = meals
	}

	days := make([]Day, 0, len(p))
	for _, name := range Weekdays {
		if meals, ok := byName[strings.ToLower(name)]; ok {
			days = append(days, Day{Name: name, Meals: meals})
		}
	}
	return days
}

// Result is a generated plan with the planner's notes
type Result struct {
	Plan  Plan   `json:"diet"`
	Notes string `json:"notes,omitempty"`
}
