package profile

import "time"

// Cache sizing
const (
	DefaultCacheSize = 10000
	DefaultCacheTTL  = 30 * time.Second
)

// Pet types selectable from the client. Stored as-is on the profile row.
var validPetTypes = map[string]bool{
	"cat":     true,
	"dog":     true,
	"hamster": true,
	"parrot":  true,
	"axolotl": true,
}
