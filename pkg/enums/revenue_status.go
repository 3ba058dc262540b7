package enums

import "fmt"

// RevenueStatus tracks settlement of a revenue record. Movement is one-way:
// pending records become processed and never move back.
type RevenueStatus string

const (
	RevenueStatusPending   RevenueStatus = "pending"
	RevenueStatusProcessed RevenueStatus = "processed"
)

var validRevenueStatuses = []RevenueStatus{
	RevenueStatusPending,
	RevenueStatusProcessed,
}

// String implements fmt.Stringer.
func (r RevenueStatus) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RevenueStatus.
func (r RevenueStatus) IsValid() bool {
	for _, candidate := range validRevenueStatuses {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRevenueStatus converts raw input into a RevenueStatus.
func ParseRevenueStatus(value string) (RevenueStatus, error) {
	for _, candidate := range validRevenueStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid revenue status %q", value)
}
