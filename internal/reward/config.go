package reward

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pettycoon/backend/internal/domain"
)

// TableEntry is one authored (category, rarity, weight) row of a drop table.
// Weights need not sum to 100; selection normalizes over the total.
type TableEntry struct {
	Category domain.RewardCategory `json:"category"`
	Rarity   domain.Rarity         `json:"rarity"`
	Weight   int                   `json:"weight"`
}

// TableDef is an authored drop table.
type TableDef struct {
	Entries []TableEntry `json:"entries"`
}

// AmountRange resolves a (category, rarity) pair to a uniform integer range.
type AmountRange struct {
	Category domain.RewardCategory `json:"category"`
	Rarity   domain.Rarity         `json:"rarity"`
	Min      int64                 `json:"min"`
	Max      int64                 `json:"max"`
}

// Config is the on-disk drop-table configuration.
type Config struct {
	Version      string                     `json:"version"`
	DropTables   map[string]TableDef        `json:"drop_tables"`
	AmountRanges []AmountRange              `json:"amount_ranges"`
	Accessories  map[domain.Rarity][]string `json:"accessories"`
}

// LoadConfig reads and validates a drop-table configuration file.
// An invalid table is a fatal content-authoring error and must never be
// silently defaulted.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read drop tables file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse drop tables file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks every table has at least one positive-weight entry and
// every currency entry has an amount range to resolve against.
func (c *Config) Validate() error {
	if len(c.DropTables) == 0 {
		return fmt.Errorf("%w: no drop tables defined", domain.ErrInvalidDropTable)
	}

	ranges := make(map[amountKey]bool, len(c.AmountRanges))
	for _, ar := range c.AmountRanges {
		if ar.Min < 0 || ar.Max < ar.Min {
			return fmt.Errorf("%w: bad amount range for %s@%s", domain.ErrInvalidDropTable, ar.Category, ar.Rarity)
		}
		ranges[amountKey{ar.Category, ar.Rarity}] = true
	}

	for tableID, table := range c.DropTables {
		total := 0
		for _, entry := range table.Entries {
			if entry.Weight < 0 {
				return fmt.Errorf("%w: negative weight in table %q", domain.ErrInvalidDropTable, tableID)
			}
			total += entry.Weight

			if entry.Category == domain.RewardAccessory {
				if len(c.Accessories[entry.Rarity]) == 0 {
					return fmt.Errorf("%w: table %q drops %s accessories but none are defined", domain.ErrInvalidDropTable, tableID, entry.Rarity)
				}
				continue
			}
			if !ranges[amountKey{entry.Category, entry.Rarity}] {
				return fmt.Errorf("%w: table %q entry %s@%s has no amount range", domain.ErrInvalidDropTable, tableID, entry.Category, entry.Rarity)
			}
		}
		if total == 0 {
			return fmt.Errorf("%w: table %q has no positive-weight entries", domain.ErrInvalidDropTable, tableID)
		}
	}

	return nil
}

type amountKey struct {
	category domain.RewardCategory
	rarity   domain.Rarity
}
