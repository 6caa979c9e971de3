package types

// JSONMap is the open key-value metadata blob carried by orders and ledger
// transactions. Keys are free-form; the constants below document the keys the
// platform itself reads and writes.
type JSONMap map[string]any

// Known metadata keys.
const (
	MetaDeliveryAddress    = "delivery_address"
	MetaTrackingInfo       = "tracking_info"
	MetaRejectionReason    = "rejection_reason"
	MetaCancellationReason = "cancellation_reason"
	MetaBuyerRating        = "buyer_rating"
)

// GetString returns the string value stored at key, if any.
func (m JSONMap) GetString(key string) (string, bool) {
	if m == nil {
		return "", false
	}
	value, ok := m[key].(string)
	return value, ok
}

// Set stores a value and returns the map, allocating it when nil.
func (m JSONMap) Set(key string, value any) JSONMap {
	if m == nil {
		m = JSONMap{}
	}
	m[key] = value
	return m
}
