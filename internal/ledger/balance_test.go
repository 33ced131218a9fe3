package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOwedCents(t *testing.T) {
	assert.Zero(t, OwedCents(nil))

	debts := []DebtEntry{
		{LogID: 1, CostCents: 300},
		{LogID: 2, CostCents: 500},
	}
	assert.Equal(t, int64(800), OwedCents(debts))

	// Partial allocations reduce what is owed.
	debts = []DebtEntry{
		{LogID: 1, CostCents: 1000, AllocatedCents: 500},
		{LogID: 2, CostCents: 500, AllocatedCents: 200},
	}
	assert.Equal(t, int64(800), OwedCents(debts))

	// Over-allocated entries clamp to zero instead of going negative.
	debts = []DebtEntry{{LogID: 1, CostCents: 300, AllocatedCents: 400}}
	assert.Zero(t, OwedCents(debts))
}

func TestCreditCents(t *testing.T) {
	assert.Zero(t, CreditCents(nil))

	payments := []PaymentCredit{
		{PaymentID: 1, AmountCents: 1000, AllocatedCents: 300},
		{PaymentID: 2, AmountCents: 500},
	}
	assert.Equal(t, int64(1200), CreditCents(payments))

	payments = []PaymentCredit{{PaymentID: 1, AmountCents: 1000, AllocatedCents: 1000}}
	assert.Zero(t, CreditCents(payments))

	payments = []PaymentCredit{{PaymentID: 1, AmountCents: 500, AllocatedCents: 600}}
	assert.Zero(t, CreditCents(payments))
}

func TestComputeBalance(t *testing.T) {
	b := ComputeBalance(nil, nil)
	assert.Equal(t, Balance{}, b)

	debts := []DebtEntry{{LogID: 1, CostCents: 800}}
	payments := []PaymentCredit{{PaymentID: 1, AmountCents: 1500}}
	b = ComputeBalance(debts, payments)
	assert.Equal(t, int64(1500), b.CreditCents)
	assert.Equal(t, int64(800), b.OwedCents)
	assert.Equal(t, int64(700), b.NetCents)

	debts = []DebtEntry{{LogID: 1, CostCents: 1000}}
	payments = []PaymentCredit{{PaymentID: 1, AmountCents: 300}}
	b = ComputeBalance(debts, payments)
	assert.Equal(t, int64(-700), b.NetCents)

	debts = []DebtEntry{{LogID: 1, CostCents: 1000, AllocatedCents: 1000}}
	payments = []PaymentCredit{{PaymentID: 1, AmountCents: 1000, AllocatedCents: 1000}}
	b = ComputeBalance(debts, payments)
	assert.Zero(t, b.NetCents)

	// Never negative on either side.
	assert.GreaterOrEqual(t, b.OwedCents, int64(0))
	assert.GreaterOrEqual(t, b.CreditCents, int64(0))
}

func TestPaymentStatus(t *testing.T) {
	// Cached flag wins regardless of allocation sums.
	assert.Equal(t, "paid", PaymentStatus(500, true, 0))
	assert.Equal(t, "unpaid", PaymentStatus(500, false, 0))
	assert.Equal(t, "partial", PaymentStatus(500, false, 250))
	assert.Equal(t, "paid", PaymentStatus(500, false, 500))
	assert.Equal(t, "paid", PaymentStatus(500, false, 600))
}
