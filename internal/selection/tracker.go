package selection

import (
	"sort"

	"learning-service/internal/models"
)

// ErrorProfile is a read-only view of a user's wrong answers over the fixed
// category set.
type ErrorProfile struct {
	wrong map[models.Category]int
	total int
}

func NewErrorProfile(state *models.LearningState) ErrorProfile {
	profile := ErrorProfile{wrong: make(map[models.Category]int, len(models.Categories))}
	for _, c := range models.Categories {
		n := 0
		if state != nil {
			n = state.WrongByCategory[c]
		}
		if n < 0 {
			n = 0
		}
		profile.wrong[c] = n
		profile.total += n
	}
	return profile
}

// HasSignal reports whether any wrong answer has been recorded yet.
func (p ErrorProfile) HasSignal() bool {
	return p.total > 0
}

// Ratio is the share of wrong answers that fell in category c. Without any
// wrong answers every category gets an equal share.
func (p ErrorProfile) Ratio(c models.Category) float64 {
	if !c.Valid() {
		return 0
	}
	if p.total == 0 {
		return 1 / float64(len(models.Categories))
	}
	return float64(p.wrong[c]) / float64(p.total)
}

func (p ErrorProfile) Ratios() map[models.Category]float64 {
	ratios := make(map[models.Category]float64, len(models.Categories))
	for _, c := range models.Categories {
		ratios[c] = p.Ratio(c)
	}
	return ratios
}

// Allocate splits batchSize across categories in proportion to the wrong
// answer ratio using largest remainders over integer weights. Remainder ties
// go to the earlier category in models.Categories, which for two categories
// is round half up on the first one.
func (p ErrorProfile) Allocate(batchSize int) map[models.Category]int {
	counts := make(map[models.Category]int, len(models.Categories))
	if batchSize <= 0 {
		for _, c := range models.Categories {
			counts[c] = 0
		}
		return counts
	}

	weights := make(map[models.Category]int, len(models.Categories))
	weightSum := 0
	for _, c := range models.Categories {
		w := 1
		if p.total > 0 {
			w = p.wrong[c]
		}
		weights[c] = w
		weightSum += w
	}

	type share struct {
		category  models.Category
		remainder int
		position  int
	}
	shares := make([]share, 0, len(models.Categories))
	allocated := 0
	for i, c := range models.Categories {
		n := batchSize * weights[c]
		counts[c] = n / weightSum
		allocated += counts[c]
		shares = append(shares, share{category: c, remainder: n % weightSum, position: i})
	}

	sort.SliceStable(shares, func(i, j int) bool {
		if shares[i].remainder != shares[j].remainder {
			return shares[i].remainder > shares[j].remainder
		}
		return shares[i].position < shares[j].position
	})
	for i := 0; allocated < batchSize; i++ {
		counts[shares[i%len(shares)].category]++
		allocated++
	}

	return counts
}
