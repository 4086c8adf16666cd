package domain

import (
	"fmt"
	"strings"
)

// Variant is one of the alert kinds the stack generates a chain for.
type Variant string

const (
	// VariantVerified alerts on data that matches the published dashboard.
	VariantVerified Variant = "VERIFIED"
	// VariantUnverified alerts on the latest, not yet verified data.
	VariantUnverified Variant = "UNVERIFIED"
)

// KnownVariants returns the closed set of variants in their canonical order.
func KnownVariants() []Variant {
	return []Variant{VariantVerified, VariantUnverified}
}

// IsKnown reports whether v is part of the closed variant set.
func (v Variant) IsKnown() bool {
	for _, k := range KnownVariants() {
		if v == k {
			return true
		}
	}
	return false
}

// ParseVariant parses a variant tag. Tags are case sensitive.
func ParseVariant(s string) (Variant, error) {
	v := Variant(strings.TrimSpace(s))
	if !v.IsKnown() {
		return "", fmt.Errorf("%w: %q", ErrUnknownVariant, s)
	}
	return v, nil
}

// ParseVariants parses a list of variant tags, failing on the first unknown one.
func ParseVariants(tags []string) ([]Variant, error) {
	variants := make([]Variant, 0, len(tags))
	for _, tag := range tags {
		v, err := ParseVariant(tag)
		if err != nil {
			return nil, err
		}
		variants = append(variants, v)
	}
	return variants, nil
}
