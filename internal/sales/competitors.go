package sales

import (
	"math"
	"sort"

	"github.com/competition-service/internal/domain"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

const (
	// MaxCompetitorRank is the number of nearest markets of a chain (or of the
	// local providers) that keep attraction at a cell.
	MaxCompetitorRank = 3

	// DefaultCutoffKm is the distance to the nearest market of the same chain
	// up to which a market counts as nearby.
	DefaultCutoffKm = 1.0

	cutoffTolerance = 1e-9
)

// ChainMember is one market of a chain group.
type ChainMember struct {
	// Row is the market's row in the distance table.
	Row      int
	Discount domain.DiscountCoefficient
}

// competitor carries what the ranking needs to know about an active market.
type competitor struct {
	row      int
	tier     domain.Tier
	chainID  int64
	discount domain.DiscountCoefficient
}

type chainGroup struct {
	tier    domain.Tier
	chainID int64
	members []ChainMember
}

// calcCompetitors computes the discount factors of the markets of one chain,
// indexed [member][cell]. At every cell the members are ranked by proximity;
// ranks beyond MaxCompetitorRank are excluded, the rest are discounted by how
// many of them lie within cutoffKm of the chain's nearest market.
func calcCompetitors(dist *DistanceTable, members []ChainMember, cutoffKm float64) [][]float64 {
	_, cells := dist.Dims()
	out := onesRows(len(members), cells)

	order := make([]int, 0, len(members))
	for j := 0; j < cells; j++ {
		order = order[:0]
		for k, m := range members {
			if dist.Reachable(m.Row, j) {
				order = append(order, k)
			} else {
				out[k][j] = 0
			}
		}
		if len(order) == 0 {
			continue
		}
		sort.SliceStable(order, func(a, b int) bool {
			return dist.Less(members[order[a]].Row, members[order[b]].Row, j)
		})

		retained := order
		if len(order) > MaxCompetitorRank {
			for _, k := range order[MaxCompetitorRank:] {
				out[k][j] = 0
			}
			retained = order[:MaxCompetitorRank]
		}

		nearest := dist.Kilometers(members[retained[0]].Row, j)
		var near [MaxCompetitorRank]bool
		nearby := 0
		for r, k := range retained {
			relative := roundTo2(dist.Kilometers(members[k].Row, j) - nearest)
			if relative <= cutoffKm+cutoffTolerance {
				near[r] = true
				nearby++
			}
		}
		for r, k := range retained {
			out[k][j] = discountFactor(members[k].Discount, near[r], nearby, r+1)
		}
	}
	return out
}

// discountFactor maps a retained market's situation to its discount factor.
func discountFactor(c domain.DiscountCoefficient, near bool, nearby, rank int) float64 {
	if near {
		switch nearby {
		case 1:
			return c.OneNearby
		case 2:
			return c.TwoNearby
		case 3:
			return c.ThreeNearby
		}
		return 1
	}
	switch {
	case nearby == 1 && rank == 2:
		return c.SecondFar
	case nearby == 1 && rank == 3:
		return c.ThirdFarOneNear
	case nearby == 2 && rank == 3:
		return c.ThirdFarTwoNear
	}
	return 1
}

// localProviderFactors keeps the MaxCompetitorRank nearest local providers at
// every cell (factor 1) and excludes the rest (factor 0). Providers tied on
// distance share a rank, so a tie with the last retained rank is retained too.
//
// The discount table is not applied to local providers.
func localProviderFactors(dist *DistanceTable, rows []int) [][]float64 {
	_, cells := dist.Dims()
	out := onesRows(len(rows), cells)

	order := make([]int, 0, len(rows))
	for j := 0; j < cells; j++ {
		order = order[:0]
		for k, row := range rows {
			if dist.Reachable(row, j) {
				order = append(order, k)
			} else {
				out[k][j] = 0
			}
		}
		sort.SliceStable(order, func(a, b int) bool {
			return dist.Less(rows[order[a]], rows[order[b]], j)
		})

		rank := 0
		for pos, k := range order {
			if pos == 0 || !dist.Tied(rows[order[pos-1]], rows[k], j) {
				rank = pos + 1
			}
			if rank > MaxCompetitorRank {
				out[k][j] = 0
			}
		}
	}
	return out
}

// chainGroups collects the chains of a tier that have more than one market.
// Groups are ordered by chain id, members by row.
func chainGroups(competitors []competitor, tier domain.Tier) []chainGroup {
	byChain := make(map[int64][]ChainMember)
	for _, c := range competitors {
		if c.tier != tier || c.chainID == domain.DefaultChainID {
			continue
		}
		byChain[c.chainID] = append(byChain[c.chainID], ChainMember{Row: c.row, Discount: c.discount})
	}

	groups := make([]chainGroup, 0, len(byChain))
	for chainID, members := range byChain {
		if len(members) < 2 {
			continue
		}
		sort.Slice(members, func(a, b int) bool { return members[a].Row < members[b].Row })
		groups = append(groups, chainGroup{tier: tier, chainID: chainID, members: members})
	}
	sort.Slice(groups, func(a, b int) bool { return groups[a].chainID < groups[b].chainID })
	return groups
}

// discountMatrix merges the discount factors of all tiers into one matrix
// shaped like dist. Large markets are written first, then small markets, then
// local providers; unreachable pairs end up at 0.
func discountMatrix(dist *DistanceTable, competitors []competitor, cutoffKm float64, parallelism int) (*mat.Dense, error) {
	markets, cells := dist.Dims()
	out := mat.NewDense(markets, cells, nil)
	for i := 0; i < markets; i++ {
		for j := 0; j < cells; j++ {
			out.Set(i, j, 1)
		}
	}

	groups := append(chainGroups(competitors, domain.TierLargeMarket), chainGroups(competitors, domain.TierSmallMarket)...)
	results := make([][][]float64, len(groups))

	var g errgroup.Group
	if parallelism > 0 {
		g.SetLimit(parallelism)
	}
	for gi := range groups {
		g.Go(func() error {
			results[gi] = calcCompetitors(dist, groups[gi].members, cutoffKm)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for gi, group := range groups {
		for k, m := range group.members {
			out.SetRow(m.Row, results[gi][k])
		}
	}

	var locals []int
	for _, c := range competitors {
		if c.tier == domain.TierLocalProvider {
			locals = append(locals, c.row)
		}
	}
	if len(locals) > 0 {
		for k, factors := range localProviderFactors(dist, locals) {
			out.SetRow(locals[k], factors)
		}
	}

	for i := 0; i < markets; i++ {
		for j := 0; j < cells; j++ {
			if !dist.Reachable(i, j) {
				out.Set(i, j, 0)
			}
		}
	}
	return out, nil
}

func onesRows(rows, cols int) [][]float64 {
	out := make([][]float64, rows)
	for k := range out {
		out[k] = make([]float64, cols)
		for j := range out[k] {
			out[k][j] = 1
		}
	}
	return out
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
