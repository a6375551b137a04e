package reward

import (
	"fmt"
	"math/rand"

	"github.com/pettycoon/backend/internal/domain"
)

// flatEntry is one resolved entry in a flattened drop table.
type flatEntry struct {
	Category    domain.RewardCategory
	Rarity      domain.Rarity
	CumulWeight int // cumulative weight up to and including this entry
}

// flatTable is a drop table pre-computed for weighted selection.
type flatTable struct {
	Entries     []flatEntry
	TotalWeight int
}

// Generator draws rewards from weighted drop tables. The random source is
// injectable so reward generation is deterministic and replayable in tests
// and audits.
type Generator struct {
	tables      map[string]*flatTable
	amounts     map[amountKey]AmountRange
	accessories map[domain.Rarity][]string
	rnd         func() float64
}

// Option configures a Generator.
type Option func(*Generator)

// WithRand overrides the random source. Pass a seeded source for
// deterministic replay.
func WithRand(rnd func() float64) Option {
	return func(g *Generator) {
		g.rnd = rnd
	}
}

// NewGenerator builds a Generator from a validated config.
func NewGenerator(cfg *Config, opts ...Option) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	g := &Generator{
		tables:      make(map[string]*flatTable, len(cfg.DropTables)),
		amounts:     make(map[amountKey]AmountRange, len(cfg.AmountRanges)),
		accessories: cfg.Accessories,
		rnd:         rand.Float64,
	}

	for tableID, def := range cfg.DropTables {
		ft := &flatTable{}
		for _, entry := range def.Entries {
			if entry.Weight == 0 {
				continue
			}
			ft.TotalWeight += entry.Weight
			ft.Entries = append(ft.Entries, flatEntry{
				Category:    entry.Category,
				Rarity:      entry.Rarity,
				CumulWeight: ft.TotalWeight,
			})
		}
		g.tables[tableID] = ft
	}

	for _, ar := range cfg.AmountRanges {
		g.amounts[amountKey{ar.Category, ar.Rarity}] = ar
	}

	for _, opt := range opts {
		opt(g)
	}

	return g, nil
}

// Generate draws one reward from the named drop table: a weighted category
// pick followed by amount resolution through the (category, rarity) range.
func (g *Generator) Generate(tableID string) (domain.Reward, error) {
	table, ok := g.tables[tableID]
	if !ok {
		return domain.Reward{}, fmt.Errorf("%w: unknown table %q", domain.ErrInvalidDropTable, tableID)
	}

	entry := selectEntry(table, g.rnd())

	reward := domain.Reward{
		Category: entry.Category,
		Rarity:   entry.Rarity,
	}

	if entry.Category == domain.RewardAccessory {
		pool := g.accessories[entry.Rarity]
		reward.AccessoryID = pool[int(g.rnd()*float64(len(pool)))%len(pool)]
		return reward, nil
	}

	ar, ok := g.amounts[amountKey{entry.Category, entry.Rarity}]
	if !ok {
		return domain.Reward{}, fmt.Errorf("%w: no amount range for %s@%s", domain.ErrInvalidDropTable, entry.Category, entry.Rarity)
	}
	reward.Amount = uniformInt(g.rnd, ar.Min, ar.Max)

	return reward, nil
}

// HasTable reports whether the generator knows the named table.
func (g *Generator) HasTable(tableID string) bool {
	_, ok := g.tables[tableID]
	return ok
}

// selectEntry returns the entry chosen by a weighted roll in [0, TotalWeight).
func selectEntry(table *flatTable, rnd float64) flatEntry {
	roll := int(rnd * float64(table.TotalWeight))
	lo, hi := 0, len(table.Entries)-1
	for lo < hi {
		mid := (lo + hi) / 2
		if table.Entries[mid].CumulWeight <= roll {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return table.Entries[lo]
}

// uniformInt draws a uniform integer in [min, max].
func uniformInt(rnd func() float64, min, max int64) int64 {
	if max <= min {
		return min
	}
	return min + int64(rnd()*float64(max-min+1))
}
