package entities

// StockLevel represents the stock alert bucket of an inventory quantity
type StockLevel int

const (
	StockDanger StockLevel = iota
	StockWarning
	StockNormal
)

// String method for StockLevel enum
func (s StockLevel) String() string {
	switch s {
	case StockDanger:
		return "danger"
	case StockWarning:
		return "warning"
	case StockNormal:
		return "normal"
	default:
		return "unknown"
	}
}

// Label returns the display badge text
func (s StockLevel) Label() string {
	switch s {
	case StockDanger:
		return "mức nguy hiểm"
	case StockWarning:
		return "mức thấp"
	case StockNormal:
		return "đủ tồn kho"
	default:
		return "N/A"
	}
}

// MarshalText encodes the level by name
func (s StockLevel) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ExpiryStatus represents the expiry alert bucket of an inventory unit
type ExpiryStatus int

const (
	ExpiryUnknown ExpiryStatus = iota
	ExpiryExpired
	ExpiryExpiringSoon
	ExpiryValid
)

// String method for ExpiryStatus enum
func (s ExpiryStatus) String() string {
	switch s {
	case ExpiryExpired:
		return "expired"
	case ExpiryExpiringSoon:
		return "expiringSoon"
	case ExpiryValid:
		return "valid"
	default:
		return "unknown"
	}
}

// Label returns the display badge text
func (s ExpiryStatus) Label() string {
	switch s {
	case ExpiryExpired:
		return "đã hết hạn"
	case ExpiryExpiringSoon:
		return "sắp hết hạn"
	case ExpiryValid:
		return "còn hạn"
	default:
		return "N/A"
	}
}

// MarshalText encodes the status by name
func (s ExpiryStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
