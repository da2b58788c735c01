package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ValidatesRequiredFields(t *testing.T) {
	_, err := New("", "title", "quick-light", "summary", nil, "", 0.9)
	assert.Error(t, err)

	_, err = New("id", "", "quick-light", "summary", nil, "", 0.9)
	assert.Error(t, err)

	_, err = New("id", "title", "", "summary", nil, "", 0.9)
	assert.Error(t, err)
}

func TestNew_TruncatesSummaryTo500Chars(t *testing.T) {
	long := make([]byte, 600)
	for i := range long {
		long[i] = 'a'
	}
	r, err := New("id", "title", "quick-light", string(long), nil, "", 0.9)
	require.NoError(t, err)
	assert.Len(t, r.Summary(), 500)
}

func TestIngredientsPreview_FirstFiveOnly(t *testing.T) {
	ingredients := []string{"flour", "sugar", "eggs", "butter", "salt", "vanilla", "baking soda"}
	r, err := New("id", "title", "desserts-sweets", "a cake", ingredients, "mix and bake", 0.8)
	require.NoError(t, err)

	assert.Equal(t, []string{"flour", "sugar", "eggs", "butter", "salt"}, r.IngredientsPreview())
	assert.Equal(t, ingredients, r.Ingredients())
	assert.Equal(t, "mix and bake", r.Instructions())
}

func TestIngredientsPreview_FewerThanFive(t *testing.T) {
	ingredients := []string{"salt", "pepper"}
	r, err := New("id", "title", "quick-light", "", ingredients, "", 0.5)
	require.NoError(t, err)
	assert.Equal(t, ingredients, r.IngredientsPreview())
}
