package calc

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PROPORTIONAL SPLIT CALCULATOR
// Divides each item evenly among its assignees and distributes order-level
// fees (tax + delivery + tip - discount) proportionally to item subtotals
// =============================================================================

// Item is one receipt line entering the calculation
type Item struct {
	ID       int64
	Price    decimal.Decimal
	Quantity int
}

// Assignments maps an item id to the user ids sharing that item.
// Duplicate user ids within one item are de-duplicated.
type Assignments map[int64][]int64

// Share is the computed allocation for a single user
type Share struct {
	UserID       int64
	ItemIDs      []int64
	ItemSubtotal decimal.Decimal
	FeeShare     decimal.Decimal
	AmountOwed   decimal.Decimal
}

// Validation error codes
const (
	CodeUnassignedItems = "UNASSIGNED_ITEMS"
	CodeUnknownItems    = "UNKNOWN_ITEMS"
	CodeInvalidItems    = "INVALID_ITEMS"
)

// ValidationError reports which items made the split request invalid.
// ItemIDs carries enough detail for the caller to build a user-facing message.
type ValidationError struct {
	Code    string
	ItemIDs []int64
}

func (e *ValidationError) Error() string {
	ids := make([]string, len(e.ItemIDs))
	for i, id := range e.ItemIDs {
		ids[i] = fmt.Sprintf("%d", id)
	}
	switch e.Code {
	case CodeUnassignedItems:
		return "items not assigned to any user: " + strings.Join(ids, ", ")
	case CodeUnknownItems:
		return "assignments reference unknown item ids: " + strings.Join(ids, ", ")
	case CodeInvalidItems:
		return "items with negative price or non-positive quantity: " + strings.Join(ids, ", ")
	}
	return "invalid split request: items " + strings.Join(ids, ", ")
}

// Compute calculates each user's owed amount for the given items, assignments
// and net fees. Pure function: inputs are never mutated and no I/O happens.
//
// Every item must be claimed by at least one user and every assignment must
// reference a known item; otherwise a *ValidationError is returned before any
// allocation proceeds. Fees may be negative (discount exceeding the other
// fees). When the total item subtotal is zero, fees are not distributed and
// every share is zero.
//
// Arithmetic is exact decimal; only the final AmountOwed is rounded, half-up
// to cents. Shares are returned sorted by user id.
func Compute(items []Item, assignments Assignments, fees decimal.Decimal) ([]Share, error) {
	if err := validate(items, assignments); err != nil {
		return nil, err
	}

	subtotals := make(map[int64]decimal.Decimal)
	itemIDs := make(map[int64][]int64)
	totalSubtotal := decimal.Zero

	for _, item := range items {
		users := dedupe(assignments[item.ID])
		lineTotal := item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		perUser := lineTotal.Div(decimal.NewFromInt(int64(len(users))))

		for _, uid := range users {
			subtotals[uid] = subtotals[uid].Add(perUser)
			itemIDs[uid] = append(itemIDs[uid], item.ID)
		}
		totalSubtotal = totalSubtotal.Add(lineTotal)
	}

	userIDs := make([]int64, 0, len(subtotals))
	for uid := range subtotals {
		userIDs = append(userIDs, uid)
	}
	sort.Slice(userIDs, func(i, j int) bool { return userIDs[i] < userIDs[j] })

	shares := make([]Share, len(userIDs))
	for i, uid := range userIDs {
		subtotal := subtotals[uid]

		// No distribution target when all items are free: fees are dropped
		feeShare := decimal.Zero
		if totalSubtotal.IsPositive() {
			feeShare = fees.Mul(subtotal).Div(totalSubtotal)
		}

		shares[i] = Share{
			UserID:       uid,
			ItemIDs:      itemIDs[uid],
			ItemSubtotal: subtotal,
			FeeShare:     feeShare,
			AmountOwed:   subtotal.Add(feeShare).Round(2),
		}
	}

	return shares, nil
}

// validate checks the request before any allocation: fail fast, no partial results
func validate(items []Item, assignments Assignments) error {
	var invalid []int64
	for _, item := range items {
		if item.Price.IsNegative() || item.Quantity < 1 {
			invalid = append(invalid, item.ID)
		}
	}
	if len(invalid) > 0 {
		return &ValidationError{Code: CodeInvalidItems, ItemIDs: invalid}
	}

	known := make(map[int64]bool, len(items))
	var unassigned []int64
	for _, item := range items {
		known[item.ID] = true
		if len(dedupe(assignments[item.ID])) == 0 {
			unassigned = append(unassigned, item.ID)
		}
	}
	if len(unassigned) > 0 {
		return &ValidationError{Code: CodeUnassignedItems, ItemIDs: unassigned}
	}

	var unknown []int64
	for itemID := range assignments {
		if !known[itemID] {
			unknown = append(unknown, itemID)
		}
	}
	if len(unknown) > 0 {
		sort.Slice(unknown, func(i, j int) bool { return unknown[i] < unknown[j] })
		return &ValidationError{Code: CodeUnknownItems, ItemIDs: unknown}
	}

	return nil
}

// dedupe returns the user ids with duplicates removed, preserving order
func dedupe(userIDs []int64) []int64 {
	seen := make(map[int64]bool, len(userIDs))
	out := make([]int64, 0, len(userIDs))
	for _, uid := range userIDs {
		if !seen[uid] {
			seen[uid] = true
			out = append(out, uid)
		}
	}
	return out
}
