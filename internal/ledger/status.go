package ledger

import "github.com/beerlog/backend/internal/models"

// PaymentStatus classifies a beer log for display. The cached paid flag
// wins; otherwise the allocated sum decides between unpaid, partial and
// paid.
func PaymentStatus(costCents int64, isPaidFor bool, allocatedCents int64) string {
	if isPaidFor {
		return models.LogStatusPaid
	}
	if allocatedCents == 0 {
		return models.LogStatusUnpaid
	}
	if allocatedCents < costCents {
		return models.LogStatusPartial
	}
	return models.LogStatusPaid
}
