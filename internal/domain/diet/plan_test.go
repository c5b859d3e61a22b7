package diet

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlan_DaysOrderedAndFiltered(t *testing.T) {
	plan := Plan{
		"sunday":    {Dinner: "Roast"},
		"Monday":    {Breakfast: "Oats"},
		"Wednesday": {Lunch: "Salad"},
		"Holiday":   {Snacks: "Cake"},
	}

	days := plan.Days()
	require.Len(t, days, 3)
	assert.Equal(t, "Monday", days[0].Name)
	assert.Equal(t, "Oats", days[0].Meals.Breakfast)
	assert.Equal(t, "Wednesday", days[1].Name)
	assert.Equal(t, "Sunday", days[2].Name)
	assert.Equal(t, "Roast", days[2].Meals.Dinner)
}

func TestResult_Decode(t *testing.T) {
	payload := `{"success":true,"diet":{"Tuesday":{"breakfast":"Eggs","dinner":"Curry"}},"notes":"High protein"}`

	var result Result
	require.NoError(t, json.Unmarshal([]byte(payload), &result))
	assert.Equal(t, "High protein", result.Notes)

	days := result.Plan.Days()
	require.Len(t, days, 1)
	assert.Equal(t, "Tuesday", days[0].Name)
	assert.Equal(t, "Curry", days[0].Meals.Dinner)
	assert.False(t, days[0].Meals.Empty())
	assert.True(t, Meals{}.Empty())
}
