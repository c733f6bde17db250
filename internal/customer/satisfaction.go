package customer

import "time"

const (
	waitWeight    = 0.4
	correctServe  = 0.6
	wrongServe    = 0.05
	missedService = 0.2
)

// Score rates a visit between 0 and 1. Customers who never sat score 0; the
// rest are scored on how long they waited relative to their patience and on
// whether they were served what they ordered.
func Score(seated bool, waited, patience time.Duration, served, correct bool) float64 {
	if !seated {
		return 0
	}

	wait := 1.0
	if patience > 0 {
		wait = 1 - float64(waited)/float64(patience)
		wait = max(0, min(1, wait))
	}

	service := missedService
	if served {
		service = wrongServe
		if correct {
			service = correctServe
		}
	}

	return waitWeight*wait + service
}

// Mood names a score for display.
func Mood(score float64) string {
	switch {
	case score >= 0.8:
		return "delighted"
	case score >= 0.5:
		return "content"
	case score > 0:
		return "grumpy"
	default:
		return "gave up"
	}
}
