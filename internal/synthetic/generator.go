// Package synthetic builds reproducible demo projects. Purchasing power
// follows a fractal noise field so that markets cluster around dense areas.
package synthetic

import (
	"fmt"
	"math"
	"math/rand/v2"

	opensimplex "github.com/ojrac/opensimplex-go"
	"github.com/paulmach/orb"

	"github.com/competition-service/internal/domain"
	"github.com/competition-service/internal/pkg/utils"
)

// Config describes the generated project.
type Config struct {
	Seed    int64
	Markets int
	Cells   int
	// Chains is the number of chains. Roughly a fifth of the markets stay independent.
	Chains         int
	Municipalities int

	CenterLat float64
	CenterLon float64
	ExtentKm  float64

	// MaxRelationKm bounds which pairs get a relation at all.
	MaxRelationKm    float64
	UnreachableShare float64
	PlannedShare     float64
	ClosingShare     float64
	// SubAreaShare is the share of cells in the planned development area.
	SubAreaShare float64
}

// DefaultConfig returns a mid-sized project around Hannover.
func DefaultConfig() Config {
	return Config{
		Seed:             1,
		Markets:          40,
		Cells:            1500,
		Chains:           5,
		Municipalities:   9,
		CenterLat:        52.3759,
		CenterLon:        9.7320,
		ExtentKm:         20,
		MaxRelationKm:    15,
		UnreachableShare: 0.01,
		PlannedShare:     0.1,
		ClosingShare:     0.05,
		SubAreaShare:     0.03,
	}
}

// Validate checks that the config can produce a project.
func (c Config) Validate() error {
	switch {
	case c.Markets <= 0 || c.Cells <= 0:
		return fmt.Errorf("markets and cells must be positive, got %d and %d", c.Markets, c.Cells)
	case c.Municipalities <= 0:
		return fmt.Errorf("municipalities must be positive, got %d", c.Municipalities)
	case c.ExtentKm <= 0 || c.MaxRelationKm <= 0:
		return fmt.Errorf("extent and relation radius must be positive")
	case c.Chains < 0:
		return fmt.Errorf("chains must not be negative, got %d", c.Chains)
	}
	for name, share := range map[string]float64{
		"unreachable": c.UnreachableShare,
		"planned":     c.PlannedShare,
		"closing":     c.ClosingShare,
		"sub area":    c.SubAreaShare,
	} {
		if share < 0 || share > 1 {
			return fmt.Errorf("%s share must be within [0,1], got %v", name, share)
		}
	}
	if c.PlannedShare+c.ClosingShare > 1 {
		return fmt.Errorf("planned and closing shares exceed 1")
	}
	return nil
}

type point struct {
	x, y float64 // km from the south west corner
}

type generator struct {
	cfg     Config
	rng     *rand.Rand
	density opensimplex.Noise
	detour  opensimplex.Noise
	grid    int
}

// Generate builds a project and matching base data. The same config
// always yields the same output.
func Generate(cfg Config) (*domain.Project, *domain.BaseData, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	g := &generator{
		cfg:     cfg,
		rng:     rand.New(rand.NewPCG(uint64(cfg.Seed), uint64(cfg.Seed)^0x9e3779b97f4a7c15)),
		density: opensimplex.NewNormalized(cfg.Seed),
		detour:  opensimplex.NewNormalized(cfg.Seed + 1),
		grid:    int(math.Ceil(math.Sqrt(float64(cfg.Municipalities)))),
	}

	cellPts := make([]point, cfg.Cells)
	cells := g.cells(cellPts)
	marketPts := make([]point, cfg.Markets)
	markets := g.markets(marketPts)
	g.subArea(cells, cellPts)

	project := &domain.Project{
		Markets:   markets,
		Cells:     cells,
		Relations: g.relations(markets, marketPts, cells, cellPts),
	}
	return project, g.baseData(), nil
}

// densityAt returns a value in [0,1] with a few octaves of detail.
func (g *generator) densityAt(p point) float64 {
	return octaveNoise(g.density, p.x, p.y, 4, 0.08, 0.5)
}

func (g *generator) randomPoint() point {
	return point{x: g.rng.Float64() * g.cfg.ExtentKm, y: g.rng.Float64() * g.cfg.ExtentKm}
}

// densePoint samples a point with probability proportional to density squared.
func (g *generator) densePoint() point {
	for range 64 {
		p := g.randomPoint()
		d := g.densityAt(p)
		if g.rng.Float64() < d*d {
			return p
		}
	}
	return g.randomPoint()
}

func (g *generator) municipality(p point) string {
	col := min(int(p.x/g.cfg.ExtentKm*float64(g.grid)), g.grid-1)
	row := min(int(p.y/g.cfg.ExtentKm*float64(g.grid)), g.grid-1)
	idx := (row*g.grid + col) % g.cfg.Municipalities
	return municipalityCode(idx)
}

func municipalityCode(idx int) string {
	return fmt.Sprintf("03241%03d", idx+1)
}

func (g *generator) lonLat(p point) (lon, lat float64) {
	const kmPerDegLat = 111.32
	half := g.cfg.ExtentKm / 2
	lat = g.cfg.CenterLat + (p.y-half)/kmPerDegLat
	lon = g.cfg.CenterLon + (p.x-half)/(kmPerDegLat*math.Cos(g.cfg.CenterLat*math.Pi/180))
	return lon, lat
}

func (g *generator) cells(pts []point) []domain.Cell {
	cells := make([]domain.Cell, len(pts))
	for j := range pts {
		p := g.densePoint()
		pts[j] = p
		lon, lat := g.lonLat(p)
		d := g.densityAt(p)
		// Purchasing power in EUR per cell and year
		pp := math.Round(20000 + 480000*d*d*(0.8+0.4*g.rng.Float64()))
		cells[j] = domain.Cell{
			ID:               int64(j + 1),
			PurchasingPower:  pp,
			SubAreaID:        -1,
			MunicipalityCode: g.municipality(p),
			Lon:              lon,
			Lat:              lat,
		}
	}
	return cells
}

func (g *generator) businessType() int {
	r := g.rng.Float64()
	switch {
	case r < 0.2:
		return domain.BusinessTypeLocalProvider
	case r < 0.7:
		return domain.BusinessTypeSmallMarket
	case r < 0.9:
		return 3
	default:
		return 4
	}
}

func (g *generator) markets(pts []point) []domain.Market {
	markets := make([]domain.Market, len(pts))
	for i := range pts {
		p := g.densePoint()
		pts[i] = p

		var chain int64
		if g.cfg.Chains > 0 && g.rng.Float64() >= 0.2 {
			chain = int64(g.rng.IntN(g.cfg.Chains) + 1)
		}
		bt := g.businessType()
		m := domain.Market{
			ID:                   int64(i + 1),
			Name:                 fmt.Sprintf("Markt %d", i+1),
			ChainID:              chain,
			BusinessTypeNullfall: bt,
			BusinessTypePlanfall: bt,
			MunicipalityCode:     g.municipality(p),
		}

		r := g.rng.Float64()
		switch {
		case r < g.cfg.PlannedShare:
			m.BusinessTypeNullfall = domain.BusinessTypeClosed
		case r < g.cfg.PlannedShare+g.cfg.ClosingShare:
			m.BusinessTypePlanfall = domain.BusinessTypeClosed
		}
		markets[i] = m
	}
	return markets
}

// subArea marks the cells nearest to a random center as one development area.
func (g *generator) subArea(cells []domain.Cell, pts []point) {
	n := int(math.Round(g.cfg.SubAreaShare * float64(len(cells))))
	if n == 0 {
		return
	}
	center := g.densePoint()
	order := make([]int, len(cells))
	for j := range order {
		order[j] = j
	}
	dist := func(j int) float64 { return math.Hypot(pts[j].x-center.x, pts[j].y-center.y) }
	// Partial selection is enough, n is small
	for k := 0; k < n; k++ {
		best := k
		for j := k + 1; j < len(order); j++ {
			if dist(order[j]) < dist(order[best]) {
				best = j
			}
		}
		order[k], order[best] = order[best], order[k]
		cells[order[k]].SubAreaID = 1
	}
}

func (g *generator) relations(markets []domain.Market, mpts []point, cells []domain.Cell, cpts []point) []domain.Relation {
	relations := make([]domain.Relation, 0, len(markets)*len(cells)/2)
	for i, m := range markets {
		mlon, mlat := g.lonLat(mpts[i])
		from := orb.Point{mlon, mlat}
		for j, c := range cells {
			meters := utils.BeelineMeters(from, orb.Point{c.Lon, c.Lat})
			if meters > g.cfg.MaxRelationKm*1000 {
				continue
			}
			rel := domain.Relation{
				MarketID:        m.ID,
				CellID:          c.ID,
				BeelineDistance: meters,
			}
			if g.rng.Float64() < g.cfg.UnreachableShare {
				rel.RoadDistance = domain.UnreachableDistance
			} else {
				mid := point{x: (mpts[i].x + cpts[j].x) / 2, y: (mpts[i].y + cpts[j].y) / 2}
				factor := 1.15 + 0.45*g.detour.Eval2(mid.x*0.2, mid.y*0.2)
				rel.RoadDistance = math.Round(meters * factor)
			}
			relations = append(relations, rel)
		}
	}
	return relations
}

// baseData returns chain independent coefficients for three size classes.
func (g *generator) baseData() *domain.BaseData {
	base := &domain.BaseData{}
	for idx := 0; idx < g.cfg.Municipalities; idx++ {
		base.SizeClasses = append(base.SizeClasses, domain.MunicipalitySizeClass{
			MunicipalityCode: municipalityCode(idx),
			SizeClass:        idx%3 + 1,
		})
	}
	for sc := 1; sc <= 3; sc++ {
		for bt := 1; bt <= 4; bt++ {
			base.DecayCoefficients = append(base.DecayCoefficients, domain.DecayCoefficient{
				SizeClass:    sc,
				ChainID:      domain.DefaultChainID,
				BusinessType: bt,
				Exponent:     -1.6 + 0.2*float64(bt) + 0.1*float64(sc),
				ScaleFactor:  float64(bt),
			})
		}
	}
	for bt := 1; bt <= 4; bt++ {
		base.DiscountCoefficients = append(base.DiscountCoefficients, domain.DiscountCoefficient{
			ChainID:         domain.DefaultChainID,
			BusinessType:    bt,
			OneNearby:       0.9,
			TwoNearby:       0.8,
			ThreeNearby:     0.7,
			SecondFar:       0.85,
			ThirdFarOneNear: 0.8,
			ThirdFarTwoNear: 0.75,
		})
	}
	return base
}

// octaveNoise layers several frequencies of normalized noise.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}
