// Package leaderboard locates a player inside a listing ordered by the backend.
package leaderboard

import (
	"encoding/json"
	"github.com/Alcereo/scoregate/pkg/common"
	"math"
)

type Placement struct {
	Rank  int `json:"rank"`
	Score int `json:"score"`
}

// Place returns the 1-based rank and score of the first entry named username,
// or nil when the user is unranked or the entry's score is not an integer.
// The listing order is taken as is.
func Place(username string, scores []common.ScoreEntry) *Placement {
	for index, entry := range scores {
		if entry.Name != username {
			continue
		}
		score, ok := IntegerScore(entry.BestScore)
		if !ok {
			return nil
		}
		return &Placement{
			Rank:  index + 1,
			Score: score,
		}
	}
	return nil
}

// IntegerScore accepts only JSON integers. Floats, strings, booleans and null
// are rejected even when they look numeric.
func IntegerScore(value interface{}) (int, bool) {
	switch number := value.(type) {
	case json.Number:
		parsed, err := number.Int64()
		if err != nil || parsed > math.MaxInt32 || parsed < math.MinInt32 {
			return 0, false
		}
		return int(parsed), true
	case int:
		return number, true
	case int64:
		return int(number), true
	default:
		return 0, false
	}
}
