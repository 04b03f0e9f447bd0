package pantry

import (
	"time"

	"mealsaver-backend/models"
)

type AnalyticsBucket struct {
	Label    string `json:"label"`
	Consumed int    `json:"consumed"`
	Wasted   int    `json:"wasted"`
}

type AnalyticsResult struct {
	Period        string            `json:"period"`
	Buckets       []AnalyticsBucket `json:"buckets"`
	TotalConsumed int               `json:"totalConsumed"`
	TotalWasted   int               `json:"totalWasted"`
	WasteRate     float64           `json:"wasteRate"`
}

// buildAnalytics répartit les événements en paniers journaliers (semaine)
// ou hebdomadaires (mois). Les événements "added" ne comptent ni comme
// consommés ni comme gaspillés.
func buildAnalytics(events []models.PantryEvent, period string, now time.Time) AnalyticsResult {
	result := AnalyticsResult{Period: period}

	var buckets []AnalyticsBucket
	bucketIndex := func(t time.Time) int { return -1 }

	if period == "week" {
		// Un panier par jour, du plus ancien au plus récent
		start := now.AddDate(0, 0, -6)
		startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
		for i := 0; i < 7; i++ {
			day := startDay.AddDate(0, 0, i)
			buckets = append(buckets, AnalyticsBucket{Label: day.Format("2006-01-02")})
		}
		bucketIndex = func(t time.Time) int {
			// la division tronque vers zéro, un instant avant minuit
			// retomberait sinon dans le premier panier
			if t.Before(startDay) {
				return -1
			}
			idx := int(t.Sub(startDay).Hours() / 24)
			if idx > 6 {
				return -1
			}
			return idx
		}
	} else {
		// Quatre paniers de sept jours
		start := now.AddDate(0, 0, -27)
		startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
		for i := 0; i < 4; i++ {
			weekStart := startDay.AddDate(0, 0, i*7)
			buckets = append(buckets, AnalyticsBucket{Label: weekStart.Format("2006-01-02")})
		}
		bucketIndex = func(t time.Time) int {
			if t.Before(startDay) {
				return -1
			}
			idx := int(t.Sub(startDay).Hours() / 24 / 7)
			if idx > 3 {
				return -1
			}
			return idx
		}
	}

	for _, event := range events {
		idx := bucketIndex(event.OccurredAt)
		switch event.EventType {
		case models.PantryEventConsumed:
			result.TotalConsumed++
			if idx >= 0 {
				buckets[idx].Consumed++
			}
		case models.PantryEventWasted:
			result.TotalWasted++
			if idx >= 0 {
				buckets[idx].Wasted++
			}
		}
	}

	result.Buckets = buckets
	if total := result.TotalConsumed + result.TotalWasted; total > 0 {
		result.WasteRate = float64(result.TotalWasted) / float64(total)
	}
	return result
}
