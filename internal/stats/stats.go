package stats

import (
	"context"

	"github.com/danielattilasimon/lqty-circulating-supply/internal/deployment"
	"github.com/danielattilasimon/lqty-circulating-supply/internal/model"
)

// FetchStats reads the protocol at ref and returns its serialized summary.
// Any read failure fails the whole call. The returned error names the failed
// field; the source's error stays reachable through errors.Is and errors.As.
func FetchStats(ctx context.Context, src Source, dep deployment.Deployment, ref model.BlockRef) (model.StatsRecord, error) {
	collected, err := Collect(ctx, src, dep, ref)
	if err != nil {
		return model.StatsRecord{}, err
	}

	branches := make([]model.BranchMetrics, 0, len(collected.Branches))
	for _, raw := range collected.Branches {
		branches = append(branches, DeriveBranchMetrics(raw, dep.SPYieldSplit))
	}

	summary, err := ReduceProtocol(collected.TotalBoldSupply, branches)
	if err != nil {
		return model.StatsRecord{}, err
	}

	return FormatStats(summary, branches), nil
}
