package selection

import (
	"math"

	"github.com/quantcoach/tempo/internal/domain/model"
)

// Distribution is a count plus its share of all selections so far.
type Distribution struct {
	Count      int
	Percentage float64
}

// Stats summarizes question usage across one interview, computed from the
// append-only selection log.
type Stats struct {
	TotalSelections int
	ByType          map[model.QuestionType]Distribution
	ByCompetency    map[model.Competency]Distribution
	ByDifficulty    map[model.DifficultyLevel]Distribution
}

// Stats computes the current usage distributions.
func (s *Selector) Stats() Stats {
	total := len(s.history)
	stats := Stats{
		TotalSelections: total,
		ByType:          make(map[model.QuestionType]Distribution),
		ByCompetency:    make(map[model.Competency]Distribution),
		ByDifficulty:    make(map[model.DifficultyLevel]Distribution),
	}

	if total == 0 {
		return stats
	}

	typeCounts := make(map[model.QuestionType]int)
	compCounts := make(map[model.Competency]int)
	diffCounts := make(map[model.DifficultyLevel]int)
	for _, rec := range s.history {
		typeCounts[rec.Type]++
		compCounts[rec.Competency]++
		diffCounts[rec.Difficulty]++
	}

	for t, count := range typeCounts {
		stats.ByType[t] = distribution(count, total)
	}
	for c, count := range compCounts {
		stats.ByCompetency[c] = distribution(count, total)
	}
	for d, count := range diffCounts {
		stats.ByDifficulty[d] = distribution(count, total)
	}

	return stats
}

func distribution(count, total int) Distribution {
	return Distribution{
		Count:      count,
		Percentage: math.Round(float64(count)/float64(total)*1000) / 10,
	}
}
