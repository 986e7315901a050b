package zuora

import (
	"context"
	"fmt"
	"strings"
)

// GetRatePlans gets the subscription-side rate plans matching criteria.
// Filters are AND-combined; with no filter every rate plan is returned.
func (c *Client) GetRatePlans(ctx context.Context, productRatePlanID, subscriptionID string) ([]Record, error) {
	var filter []string
	if productRatePlanID != "" {
		filter = append(filter, fmt.Sprintf("ProductRatePlanId = '%s'", productRatePlanID))
	}
	if subscriptionID != "" {
		filter = append(filter, fmt.Sprintf("SubscriptionId = '%s'", subscriptionID))
	}

	qs := `
		SELECT
			AmendmentId, AmendmentSubscriptionRatePlanId,
			AmendmentType, CreatedById, CreatedDate, Name,
			ProductRatePlanId, SubscriptionId,
			UpdatedById, UpdatedDate
		FROM RatePlan
		`
	if len(filter) > 0 {
		qs += "WHERE " + strings.Join(filter, " AND ")
	}

	return c.queryAll(ctx, qs)
}

// GetRatePlanChargesParams filters GetRatePlanCharges. PricingInfo
// selects the single pricing column to project; the vendor only allows
// one of OveragePrice, Price, IncludedUnits, DiscountAmount or
// DiscountPercentage per query.
type GetRatePlanChargesParams struct {
	RatePlanID  string
	RatePlanIDs []string
	PricingInfo string // defaults to Price
}

// GetRatePlanCharges gets the subscription-side rate plan charges.
func (c *Client) GetRatePlanCharges(ctx context.Context, params GetRatePlanChargesParams) ([]Record, error) {
	pricingInfo := params.PricingInfo
	if pricingInfo == "" {
		pricingInfo = "Price"
	}

	qs := fmt.Sprintf(`
		SELECT
			AccountingCode, ApplyDiscountTo,
			BillCycleDay, BillCycleType,
			BillingPeriodAlignment, ChargedThroughDate,
			ChargeModel, ChargeNumber, ChargeType, CreatedById,
			CreatedDate, Description, DiscountLevel,
			DMRC, DTCV, EffectiveEndDate, EffectiveStartDate,
			IsLastSegment, MRR, Name, NumberOfPeriods,
			OriginalId, OverageCalculationOption,
			OverageUnusedUnitsCreditOption, %s,
			PriceIncreasePercentage, ProcessedThroughDate,
			ProductRatePlanChargeId, Quantity, RatePlanId,
			Segment, TCV, TriggerDate, TriggerEvent,
			UnusedUnitsCreditRates, UOM, UpdatedById, UpdatedDate,
			UpToPeriods, UsageRecordRatingOption,
			UseDiscountSpecificAccountingCode, Version
		FROM RatePlanCharge
		`, pricingInfo)

	var filter string
	switch {
	case params.RatePlanID != "":
		filter = fmt.Sprintf("RatePlanId = '%s'", params.RatePlanID)
	case len(params.RatePlanIDs) > 0:
		clauses := make([]string, 0, len(params.RatePlanIDs))
		for _, id := range params.RatePlanIDs {
			clauses = append(clauses, fmt.Sprintf("RatePlanId = '%s'", id))
		}
		filter = strings.Join(clauses, " OR ")
	}

	qs += " WHERE " + filter

	return c.queryAll(ctx, qs)
}

// MakeRatePlanData builds the RatePlanData used to pass a rate plan to
// Subscribe.
func MakeRatePlanData(productRatePlanID string) RatePlanData {
	return RatePlanData{
		RatePlan: RatePlan{
			AmendmentType:     "NewProduct",
			ProductRatePlanID: productRatePlanID,
		},
	}
}
