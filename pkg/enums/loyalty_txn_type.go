package enums

import "fmt"

// LoyaltyTxnType maps to the loyalty_txn_type_enum enum in Postgres.
type LoyaltyTxnType string

const (
	LoyaltyTxnTypeEarn   LoyaltyTxnType = "earn"
	LoyaltyTxnTypeRedeem LoyaltyTxnType = "redeem"
)

var validLoyaltyTxnTypes = []LoyaltyTxnType{
	LoyaltyTxnTypeEarn,
	LoyaltyTxnTypeRedeem,
}

// IsValid reports whether the value is a known LoyaltyTxnType.
func (t LoyaltyTxnType) IsValid() bool {
	for _, candidate := range validLoyaltyTxnTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseLoyaltyTxnType converts raw input into a LoyaltyTxnType.
func ParseLoyaltyTxnType(value string) (LoyaltyTxnType, error) {
	for _, candidate := range validLoyaltyTxnTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid loyalty txn type %q", value)
}
