package stripe

import (
	"testing"

	"mealsaver-backend/models"

	"github.com/stretchr/testify/assert"
)

func TestPlanTierFromPriceId(t *testing.T) {
	testCases := []struct {
		name     string
		priceId  string
		expected models.SubscriptionTier
	}{
		{
			name:     "price premium mensuel",
			priceId:  "price_1QkT2eGFxQ1r8NdSyMe4LsvB",
			expected: models.TierPremium,
		},
		{
			name:     "price premium annuel",
			priceId:  "price_1QkT3aGFxQ1r8NdSg7VwPjkM",
			expected: models.TierPremium,
		},
		{
			name:     "price household mensuel",
			priceId:  "price_1QkT4cGFxQ1r8NdShH2tRmNq",
			expected: models.TierHouseholdPremium,
		},
		{
			name:     "price household annuel",
			priceId:  "price_1QkT5bGFxQ1r8NdSkW9xBcZp",
			expected: models.TierHouseholdPremium,
		},
		{
			// un abonnement payé ne doit jamais retomber en basic
			name:     "price inconnu",
			priceId:  "price_nouveau_catalogue",
			expected: models.TierPremium,
		},
		{
			name:     "price vide",
			priceId:  "",
			expected: models.TierPremium,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, PlanTierFromPriceId(tc.priceId))
		})
	}
}

func TestPlanTierFromPriceId_EnvOverride(t *testing.T) {
	t.Setenv("STRIPE_HOUSEHOLD_PRICE_IDS", "price_custom_hh_1, price_custom_hh_2")
	t.Setenv("STRIPE_PREMIUM_PRICE_IDS", "price_custom_premium")

	assert.Equal(t, models.TierHouseholdPremium, PlanTierFromPriceId("price_custom_hh_2"))
	assert.Equal(t, models.TierPremium, PlanTierFromPriceId("price_custom_premium"))

	// les defaults ne s'appliquent plus une fois la variable posée
	assert.Equal(t, models.TierPremium, PlanTierFromPriceId("price_1QkT4cGFxQ1r8NdShH2tRmNq"))
}

func TestPriceIdsFromEnv_BlankFallsBack(t *testing.T) {
	t.Setenv("STRIPE_PREMIUM_PRICE_IDS", " , ,")

	assert.Equal(t, defaultPremiumPriceIds, PremiumPriceIds())
}
