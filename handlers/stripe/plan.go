package stripe

import (
	"os"
	"strings"

	"mealsaver-backend/models"
)

// Price ids connus du catalogue Stripe. Surchargeables par variables
// d'environnement pour suivre le catalogue sans recompiler.
var (
	defaultPremiumPriceIds = []string{
		"price_1QkT2eGFxQ1r8NdSyMe4LsvB",
		"price_1QkT3aGFxQ1r8NdSg7VwPjkM",
	}
	defaultHouseholdPriceIds = []string{
		"price_1QkT4cGFxQ1r8NdShH2tRmNq",
		"price_1QkT5bGFxQ1r8NdSkW9xBcZp",
	}
)

func priceIdsFromEnv(key string, defaults []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return defaults
	}

	var ids []string
	for _, id := range strings.Split(raw, ",") {
		id = strings.TrimSpace(id)
		if id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return defaults
	}
	return ids
}

func PremiumPriceIds() []string {
	return priceIdsFromEnv("STRIPE_PREMIUM_PRICE_IDS", defaultPremiumPriceIds)
}

func HouseholdPriceIds() []string {
	return priceIdsFromEnv("STRIPE_HOUSEHOLD_PRICE_IDS", defaultHouseholdPriceIds)
}

// PlanTierFromPriceId mappe un price id vers la formule correspondante.
// Un price id inconnu donne premium, jamais basic: un abonnement payé ne
// doit pas rétrograder l'utilisateur parce que le catalogue a bougé.
func PlanTierFromPriceId(priceId string) models.SubscriptionTier {
	for _, id := range HouseholdPriceIds() {
		if id == priceId {
			return models.TierHouseholdPremium
		}
	}
	for _, id := range PremiumPriceIds() {
		if id == priceId {
			return models.TierPremium
		}
	}
	return models.TierPremium
}
