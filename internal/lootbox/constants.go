package lootbox

// Purchase limits per request
const (
	MinPurchaseQuantity = 1
	MaxPurchaseQuantity = 50
)

// DefaultHistoryLimit bounds the opening history response
const DefaultHistoryLimit = 20

// MaxHistoryLimit is the largest page a client may request
const MaxHistoryLimit = 100
