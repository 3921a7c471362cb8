package stats

import (
	"context"

	"github.com/mgalan/lince/internal/model"
	"github.com/mgalan/lince/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Runs    []model.RunAggregate
	ByGame  []model.GameAggregate
	TotalXP int
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	runs, err := st.ListRuns(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	totalXP, err := st.TotalXP(cfg.User)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Runs:    runs,
		ByGame:  AggregateByGame(runs),
		TotalXP: totalXP,
	}, nil
}
