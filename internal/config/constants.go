package config

import "time"

// Configuration file paths
const (
	ConfigPathDropTables = "configs/drop_tables.json"
)

// Database pool defaults
const (
	DefaultDBMaxConns = 10
	DefaultDBMaxIdle  = 5 * time.Minute
	DefaultDBMaxLife  = 30 * time.Minute
)

// Passive income defaults. One full offline hour earns crystals at the
// rate below; hours past the grace span cost XP instead.
const (
	DefaultPassiveRatePerHour    = 10
	DefaultPassiveMaxHours       = 24
	DefaultPassiveGraceHours     = 24
	DefaultPassivePenaltyPerHour = 5
)

// DefaultSeasonID is used until live ops sets SEASON_ID explicitly
const DefaultSeasonID = "season-1"
