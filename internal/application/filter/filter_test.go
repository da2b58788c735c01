package filter

import (
	"testing"

	"github.com/flavorgraph/sous-chef/internal/domain/search"
	"github.com/stretchr/testify/assert"
)

func recWithIngredients(id string, ingredients []string) search.Recommendation {
	return search.Recommendation{
		RecipeID: id,
		Metadata: map[string]interface{}{
			"original_data": map[string]interface{}{"ingredients": ingredients},
		},
	}
}

func TestFilter_NoRestrictions_ReturnsUnchanged(t *testing.T) {
	recs := []search.Recommendation{recWithIngredients("r1", []string{"chicken"})}
	out := Filter(recs, search.Preferences{})
	assert.Equal(t, recs, out)
}

func TestFilter_VeganBlocksMeatAndDairy(t *testing.T) {
	recs := []search.Recommendation{
		recWithIngredients("r1", []string{"chicken breast", "garlic"}),
		recWithIngredients("r2", []string{"tofu", "broccoli"}),
		recWithIngredients("r3", []string{"cheese", "tomato"}),
	}
	out := Filter(recs, search.Preferences{DietaryRestrictions: []string{"vegan"}})

	require := assert.New(t)
	require.Len(out, 1)
	require.Equal("r2", out[0].RecipeID)
}

func TestFilter_CaseInsensitive(t *testing.T) {
	recs := []search.Recommendation{recWithIngredients("r1", []string{"Chicken Breast"})}
	out := Filter(recs, search.Preferences{DietaryRestrictions: []string{"vegetarian"}})
	assert.Empty(t, out)
}

func TestFilter_PreservesOrderOfSurvivors(t *testing.T) {
	recs := []search.Recommendation{
		recWithIngredients("r1", []string{"tofu"}),
		recWithIngredients("r2", []string{"beef"}),
		recWithIngredients("r3", []string{"lentils"}),
	}
	out := Filter(recs, search.Preferences{DietaryRestrictions: []string{"vegetarian"}})
	require := assert.New(t)
	require.Len(out, 2)
	require.Equal("r1", out[0].RecipeID)
	require.Equal("r3", out[1].RecipeID)
}

func TestFilter_MissingMetadata_NeverBlocked(t *testing.T) {
	recs := []search.Recommendation{{RecipeID: "r1"}}
	out := Filter(recs, search.Preferences{DietaryRestrictions: []string{"vegan"}})
	assert.Len(t, out, 1)
}

func TestFilter_PreferredCuisinesAndMaxCookingTime_AreNoOps(t *testing.T) {
	recs := []search.Recommendation{recWithIngredients("r1", []string{"tofu"})}
	out := Filter(recs, search.Preferences{
		DietaryRestrictions: nil,
		PreferredCuisines:   []string{"italian"},
		MaxCookingTimeMins:  10,
	})
	assert.Equal(t, recs, out)
}

func TestFilter_MultipleRestrictions(t *testing.T) {
	recs := []search.Recommendation{
		recWithIngredients("r1", []string{"bread", "cheese"}),
		recWithIngredients("r2", []string{"rice", "beans"}),
	}
	out := Filter(recs, search.Preferences{DietaryRestrictions: []string{"gluten-free", "dairy-free"}})
	require := assert.New(t)
	require.Len(out, 1)
	require.Equal("r2", out[0].RecipeID)
}
