package service

import (
	"context"
	"time"
)

// Stats summarizes a user's calculation history.
type Stats struct {
	Total int `json:"total_calculations"`
	// ByType counts calculations per type.
	ByType map[string]int `json:"calculation_types"`
	// MostUsed is the most frequent type; ties go to the alphabetically first.
	MostUsed string `json:"most_used_function,omitempty"`
	// Last is the time of the newest calculation, zero when there is none.
	Last time.Time `json:"last_calculation"`
}

// Statistics computes Stats over the retained history of userID.
func (g *Gateway) Statistics(ctx context.Context, userID int64) (Stats, error) {
	calcs, err := g.GetUserCalculations(ctx, userID)
	if err != nil {
		return Stats{}, err
	}

	st := Stats{Total: len(calcs), ByType: map[string]int{}}
	for _, c := range calcs {
		st.ByType[c.Type]++
	}
	best := 0
	for typ, n := range st.ByType {
		if n > best || (n == best && typ < st.MostUsed) {
			st.MostUsed, best = typ, n
		}
	}
	if len(calcs) > 0 {
		st.Last = calcs[0].CreatedAt
	}
	return st, nil
}
