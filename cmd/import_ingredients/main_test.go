package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/models"
)

func TestReadIngredients(t *testing.T) {
	input := "name,measurement_unit\nабрикосовое варенье, г\n\n\"соль, морская\",щепотка\n"

	ingredients, err := readIngredients(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []models.Ingredient{
		{Name: "абрикосовое варенье", MeasurementUnit: "г"},
		{Name: "соль, морская", MeasurementUnit: "щепотка"},
	}, ingredients)
}

func TestReadIngredientsWithoutHeader(t *testing.T) {
	ingredients, err := readIngredients(strings.NewReader("flour,g\nmilk,ml\n"))
	require.NoError(t, err)
	assert.Len(t, ingredients, 2)
}

func TestReadIngredientsRejectsBadRows(t *testing.T) {
	for name, input := range map[string]string{
		"too many fields": "flour,g,extra\n",
		"missing unit":    "flour,\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := readIngredients(strings.NewReader(input))
			assert.Error(t, err)
		})
	}
}
