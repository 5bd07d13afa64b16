package calc

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func shareFor(t *testing.T, shares []Share, userID int64) Share {
	t.Helper()
	for _, s := range shares {
		if s.UserID == userID {
			return s
		}
	}
	t.Fatalf("no share for user %d", userID)
	return Share{}
}

func TestCompute_SingleAssigneeOwesFullLine(t *testing.T) {
	items := []Item{{ID: 1, Price: dec("12.50"), Quantity: 2}}
	assignments := Assignments{1: {7}}

	shares, err := Compute(items, assignments, decimal.Zero)
	require.NoError(t, err)
	require.Len(t, shares, 1)

	assert.Equal(t, int64(7), shares[0].UserID)
	assert.True(t, shares[0].AmountOwed.Equal(dec("25.00")),
		"owed = %s, want 25.00", shares[0].AmountOwed)
	assert.Equal(t, []int64{1}, shares[0].ItemIDs)
}

func TestCompute_ProportionalFees(t *testing.T) {
	// A takes item 1 alone and half of item 2; B takes the other half.
	// A subtotal = 20, B subtotal = 10, fees = 6 split 4/2.
	items := []Item{
		{ID: 1, Price: dec("10"), Quantity: 1},
		{ID: 2, Price: dec("20"), Quantity: 1},
	}
	assignments := Assignments{
		1: {1},
		2: {1, 2},
	}

	shares, err := Compute(items, assignments, dec("6"))
	require.NoError(t, err)
	require.Len(t, shares, 2)

	a := shareFor(t, shares, 1)
	b := shareFor(t, shares, 2)

	assert.True(t, a.ItemSubtotal.Equal(dec("20")), "A subtotal = %s", a.ItemSubtotal)
	assert.True(t, b.ItemSubtotal.Equal(dec("10")), "B subtotal = %s", b.ItemSubtotal)
	assert.True(t, a.AmountOwed.Equal(dec("24.00")), "A owes = %s", a.AmountOwed)
	assert.True(t, b.AmountOwed.Equal(dec("12.00")), "B owes = %s", b.AmountOwed)

	// Conservation: sum of owed equals subtotal + fees
	sum := a.AmountOwed.Add(b.AmountOwed)
	assert.True(t, sum.Equal(dec("36.00")), "sum = %s, want 36.00", sum)
}

func TestCompute_EvenThreeWaySplitIsExact(t *testing.T) {
	// 9.99 * 3 = 29.97 divides into exactly 9.99 each
	items := []Item{{ID: 1, Price: dec("9.99"), Quantity: 3}}
	assignments := Assignments{1: {1, 2, 3}}

	shares, err := Compute(items, assignments, decimal.Zero)
	require.NoError(t, err)
	require.Len(t, shares, 3)

	for _, s := range shares {
		assert.True(t, s.AmountOwed.Equal(dec("9.99")),
			"user %d owes %s, want 9.99", s.UserID, s.AmountOwed)
	}
}

func TestCompute_ItemContributionsConserveLineTotal(t *testing.T) {
	// 10.00 across 3 users does not divide evenly in cents; the unrounded
	// subtotals must still sum back to the line total within tolerance.
	items := []Item{{ID: 1, Price: dec("10"), Quantity: 1}}
	assignments := Assignments{1: {1, 2, 3}}

	shares, err := Compute(items, assignments, decimal.Zero)
	require.NoError(t, err)

	sum := decimal.Zero
	for _, s := range shares {
		sum = sum.Add(s.ItemSubtotal)
	}
	diff := sum.Sub(dec("10")).Abs()
	assert.True(t, diff.LessThan(dec("0.000000001")), "conservation off by %s", diff)
}

func TestCompute_ZeroFeesOwedEqualsSubtotal(t *testing.T) {
	items := []Item{
		{ID: 1, Price: dec("7.25"), Quantity: 1},
		{ID: 2, Price: dec("3.75"), Quantity: 2},
	}
	assignments := Assignments{1: {1}, 2: {1}}

	shares, err := Compute(items, assignments, decimal.Zero)
	require.NoError(t, err)
	require.Len(t, shares, 1)

	assert.True(t, shares[0].FeeShare.IsZero())
	assert.True(t, shares[0].AmountOwed.Equal(dec("14.75")))
}

func TestCompute_NegativeFees(t *testing.T) {
	// Discount larger than tax: net fees negative, owed below subtotal
	items := []Item{{ID: 1, Price: dec("20"), Quantity: 1}}
	assignments := Assignments{1: {1}}

	shares, err := Compute(items, assignments, dec("-5"))
	require.NoError(t, err)
	assert.True(t, shares[0].AmountOwed.Equal(dec("15.00")))
}

func TestCompute_ZeroSubtotalDropsFees(t *testing.T) {
	// All item prices zero: fees have no distribution target and are dropped
	items := []Item{
		{ID: 1, Price: decimal.Zero, Quantity: 1},
		{ID: 2, Price: decimal.Zero, Quantity: 1},
	}
	assignments := Assignments{1: {1}, 2: {2}}

	shares, err := Compute(items, assignments, dec("5"))
	require.NoError(t, err)
	require.Len(t, shares, 2)

	for _, s := range shares {
		assert.True(t, s.AmountOwed.IsZero(),
			"user %d owes %s with zero subtotal", s.UserID, s.AmountOwed)
	}
}

func TestCompute_ConservationWithUnevenShares(t *testing.T) {
	items := []Item{
		{ID: 1, Price: dec("10.01"), Quantity: 1},
		{ID: 2, Price: dec("6.99"), Quantity: 3},
		{ID: 3, Price: dec("0.99"), Quantity: 1},
	}
	assignments := Assignments{
		1: {1, 2, 3},
		2: {2, 3},
		3: {1},
	}
	fees := dec("4.37")

	shares, err := Compute(items, assignments, fees)
	require.NoError(t, err)

	sum := decimal.Zero
	for _, s := range shares {
		sum = sum.Add(s.AmountOwed)
	}
	expected := dec("10.01").Add(dec("20.97")).Add(dec("0.99")).Add(fees)

	// Each rounded share can be off by at most half a cent
	tolerance := dec("0.01").Mul(decimal.NewFromInt(int64(len(shares))))
	assert.True(t, sum.Sub(expected).Abs().LessThanOrEqual(tolerance),
		"sum = %s, want %s ± %s", sum, expected, tolerance)
}

func TestCompute_DuplicateAssigneesDeduplicated(t *testing.T) {
	items := []Item{{ID: 1, Price: dec("10"), Quantity: 1}}
	assignments := Assignments{1: {1, 1, 1}}

	shares, err := Compute(items, assignments, decimal.Zero)
	require.NoError(t, err)
	require.Len(t, shares, 1)
	assert.True(t, shares[0].AmountOwed.Equal(dec("10.00")))
}

func TestCompute_UnassignedItemFails(t *testing.T) {
	items := []Item{
		{ID: 1, Price: dec("10"), Quantity: 1},
		{ID: 2, Price: dec("5"), Quantity: 1},
		{ID: 3, Price: dec("5"), Quantity: 1},
	}
	assignments := Assignments{1: {1}, 3: {}}

	shares, err := Compute(items, assignments, decimal.Zero)
	assert.Nil(t, shares)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, CodeUnassignedItems, verr.Code)
	assert.ElementsMatch(t, []int64{2, 3}, verr.ItemIDs)
	assert.Contains(t, verr.Error(), "not assigned")
}

func TestCompute_UnknownItemFails(t *testing.T) {
	items := []Item{{ID: 1, Price: dec("10"), Quantity: 1}}
	assignments := Assignments{1: {1}, 99: {2}}

	_, err := Compute(items, assignments, decimal.Zero)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, CodeUnknownItems, verr.Code)
	assert.Equal(t, []int64{99}, verr.ItemIDs)
}

func TestCompute_InvalidItemFails(t *testing.T) {
	tests := []struct {
		name string
		item Item
	}{
		{"negative price", Item{ID: 1, Price: dec("-1"), Quantity: 1}},
		{"zero quantity", Item{ID: 1, Price: dec("1"), Quantity: 0}},
		{"negative quantity", Item{ID: 1, Price: dec("1"), Quantity: -2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute([]Item{tt.item}, Assignments{1: {1}}, decimal.Zero)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, CodeInvalidItems, verr.Code)
			assert.Equal(t, []int64{1}, verr.ItemIDs)
		})
	}
}

func TestCompute_DoesNotMutateInputs(t *testing.T) {
	items := []Item{{ID: 1, Price: dec("10"), Quantity: 1}}
	assignments := Assignments{1: {2, 1, 2}}

	_, err := Compute(items, assignments, dec("1"))
	require.NoError(t, err)

	assert.Equal(t, []int64{2, 1, 2}, assignments[1])
	assert.True(t, items[0].Price.Equal(dec("10")))
}
