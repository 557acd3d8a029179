package enums

import (
	"fmt"
	"strings"
)

// ReturnPredicate selects how breakdown reports decide an item was returned.
type ReturnPredicate string

const (
	// ReturnPredicateCompound matches status "Returned" or a non-null returned_at.
	ReturnPredicateCompound ReturnPredicate = "compound"
	// ReturnPredicateStatus matches status "Returned" only.
	ReturnPredicateStatus ReturnPredicate = "status"
)

var validReturnPredicates = []ReturnPredicate{
	ReturnPredicateCompound,
	ReturnPredicateStatus,
}

func (p ReturnPredicate) String() string {
	return string(p)
}

func (p ReturnPredicate) IsValid() bool {
	for _, candidate := range validReturnPredicates {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseReturnPredicate is case-insensitive and ignores surrounding space.
func ParseReturnPredicate(value string) (ReturnPredicate, error) {
	normalized := ReturnPredicate(strings.ToLower(strings.TrimSpace(value)))
	if normalized.IsValid() {
		return normalized, nil
	}
	return "", fmt.Errorf("invalid return predicate %q", value)
}
