package model

import (
	"errors"
	"fmt"
	"sort"
)

// ErrEmptyComposition is returned when a composition has no usable entries
var ErrEmptyComposition = errors.New("composition must contain at least one product")

// CompositionEntry is one (product, quantity) pair of a drink composition
// as submitted by a client. Quantity defaults to 1 when omitted.
type CompositionEntry struct {
	ProductID uint `json:"productid" binding:"required"`
	Quantity  int  `json:"quantity"`
}

// NormalizeComposition validates and canonicalizes a submitted composition.
// Entries with a zero product ID or a negative quantity after defaulting are
// discarded, then the result is stable-sorted by product ID ascending, so
// duplicate pairs keep their submission order. Two compositions that differ
// only in entry order normalize to the same slice.
func NormalizeComposition(entries []CompositionEntry) ([]CompositionEntry, error) {
	normalized := make([]CompositionEntry, 0, len(entries))
	for _, e := range entries {
		qty := e.Quantity
		if qty == 0 {
			qty = 1
		}
		if e.ProductID == 0 || qty < 0 {
			continue
		}
		normalized = append(normalized, CompositionEntry{ProductID: e.ProductID, Quantity: qty})
	}

	if len(normalized) == 0 {
		return nil, ErrEmptyComposition
	}

	sort.SliceStable(normalized, func(i, j int) bool {
		return normalized[i].ProductID < normalized[j].ProductID
	})

	return normalized, nil
}

// CompositionUniqueID encodes a normalized composition into the canonical
// drink identifier: for each entry, the product ID zero-padded to 4 digits
// followed by the quantity zero-padded to 2 digits, concatenated in product
// ID order. [{5,1},{12,2}] encodes to "000501001202".
func CompositionUniqueID(normalized []CompositionEntry) string {
	var uniqueID string
	for _, e := range normalized {
		uniqueID += fmt.Sprintf("%04d%02d", e.ProductID, e.Quantity)
	}
	return uniqueID
}
