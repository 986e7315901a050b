package zuora

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// chargeSortLast is the sort key for charges that carry no sort order.
const chargeSortLast = 999

// GetProducts gets products by id or by short-code set (OR-combined).
// With no filter every product is returned.
func (c *Client) GetProducts(ctx context.Context, productID string, shortCodes []string) ([]Record, error) {
	qs := `
		SELECT
			Description, EffectiveEndDate, EffectiveStartDate,
			Id, SKU, Name, ShortCode__c
		FROM Product
		`

	var filter string
	switch {
	case productID != "":
		filter = fmt.Sprintf("Id = '%s'", productID)
	case len(shortCodes) > 0:
		clauses := make([]string, 0, len(shortCodes))
		for _, code := range shortCodes {
			clauses = append(clauses, fmt.Sprintf("ShortCode__c = '%s'", code))
		}
		filter = strings.Join(clauses, " OR ")
	}
	if filter != "" {
		qs += " WHERE " + filter
	}

	return c.queryAll(ctx, qs)
}

// GetProductRatePlansParams filters GetProductRatePlans. EffectiveStart
// restricts to plans whose effective window covers the date; with no
// EffectiveEnd the same date bounds both sides.
type GetProductRatePlansParams struct {
	ProductRatePlanID string
	ProductIDs        []string
	EffectiveStart    string
	EffectiveEnd      string
}

// GetProductRatePlans gets the product rate plans matching criteria.
func (c *Client) GetProductRatePlans(ctx context.Context, params GetProductRatePlansParams) ([]Record, error) {
	qs := `
		SELECT
			ActivityLevel__c, AgeGroup__c,
			Description, EffectiveEndDate, EffectiveStartDate,
			Gender__c, Id, Name,
			Priority__c, ProductId, Site__c, Term__c
		FROM ProductRatePlan
		`

	var filter string
	if params.ProductRatePlanID != "" {
		filter = fmt.Sprintf("Id = '%s'", params.ProductRatePlanID)
	} else {
		if len(params.ProductIDs) > 0 {
			clauses := make([]string, 0, len(params.ProductIDs))
			for _, id := range params.ProductIDs {
				clauses = append(clauses, fmt.Sprintf("ProductId = '%s'", id))
			}
			filter = strings.Join(clauses, " OR ")
		}
		if params.EffectiveStart != "" {
			effectiveEnd := params.EffectiveEnd
			if effectiveEnd == "" {
				effectiveEnd = params.EffectiveStart
			}
			dateWhere := fmt.Sprintf(`EffectiveEndDate >= '%s' AND
				EffectiveStartDate <= '%s'
				`, effectiveEnd, params.EffectiveStart)
			if filter != "" {
				filter += " AND " + dateWhere
			} else {
				filter = dateWhere
			}
		}
	}

	qs += " WHERE " + filter

	return c.queryAll(ctx, qs)
}

// GetProductRatePlanChargesParams filters GetProductRatePlanCharges.
type GetProductRatePlanChargesParams struct {
	ProductRatePlanID       string
	ProductRatePlanIDs      []string
	ProductRatePlanChargeID string
}

// GetProductRatePlanCharges gets the product rate plan charges matching
// criteria.
func (c *Client) GetProductRatePlanCharges(ctx context.Context, params GetProductRatePlanChargesParams) ([]Record, error) {
	qs := `
		SELECT
			AccountingCode, BillCycleDay, BillCycleType, BillingPeriod,
			BillingPeriodAlignment, ChargeModel, ChargeType,
			CustomImageURL__c, DefaultQuantity, Description,
			ExclusiveOfferFlag__c,
			HiddenBenefitText__c, Id, IncludedUnits, MaxQuantity,
			MinQuantity, Name, NumberOfPeriod, OverageCalculationOption,
			OverageUnusedUnitsCreditOption,
			PriceIncreasePercentage, ProductRatePlanId,
			RevRecCode, RevRecTriggerCondition, ShortCode__c,
			SmoothingModel, SortOrder__c, SpecificBillingPeriod,
			TriggerEvent, UOM, UpToPeriods,
			UseDiscountSpecificAccountingCode
		FROM ProductRatePlanCharge
		`

	var filter string
	switch {
	case params.ProductRatePlanID != "":
		filter = fmt.Sprintf("ProductRatePlanId = '%s'", params.ProductRatePlanID)
	case params.ProductRatePlanChargeID != "":
		filter = fmt.Sprintf("Id = '%s'", params.ProductRatePlanChargeID)
	case len(params.ProductRatePlanIDs) > 0:
		clauses := make([]string, 0, len(params.ProductRatePlanIDs))
		for _, id := range params.ProductRatePlanIDs {
			clauses = append(clauses, fmt.Sprintf("ProductRatePlanId = '%s'", id))
		}
		filter = strings.Join(clauses, " OR ")
	}

	qs += " WHERE " + filter

	return c.queryAll(ctx, qs)
}

// GetProductRatePlanChargeTiersParams filters
// GetProductRatePlanChargeTiers.
type GetProductRatePlanChargeTiersParams struct {
	ProductRatePlanChargeID  string
	ProductRatePlanChargeIDs []string
}

// GetProductRatePlanChargeTiers gets the charge tiers matching criteria.
func (c *Client) GetProductRatePlanChargeTiers(ctx context.Context, params GetProductRatePlanChargeTiersParams) ([]Record, error) {
	qs := `
		SELECT
			Currency, EndingUnit, IsOveragePrice,
			Price, PriceFormat, ProductRatePlanChargeId,
			StartingUnit, Tier
		FROM ProductRatePlanChargeTier
		`

	var filter string
	switch {
	case params.ProductRatePlanChargeID != "":
		filter = fmt.Sprintf("ProductRatePlanChargeId = '%s'", params.ProductRatePlanChargeID)
	case len(params.ProductRatePlanChargeIDs) > 0:
		clauses := make([]string, 0, len(params.ProductRatePlanChargeIDs))
		for _, id := range params.ProductRatePlanChargeIDs {
			clauses = append(clauses, fmt.Sprintf("ProductRatePlanChargeId = '%s'", id))
		}
		filter = strings.Join(clauses, " OR ")
	}

	qs += " WHERE " + filter

	return c.queryAll(ctx, qs)
}

// normalizedGroup holds normalized records grouped by a parent key,
// keeping encounter order on both levels.
type normalizedGroup struct {
	order  []string
	groups map[string][]map[string]string
}

func groupNormalized(records []Record, parentKey string) normalizedGroup {
	g := normalizedGroup{groups: make(map[string][]map[string]string)}
	for _, r := range records {
		attrs := Normalize(r)
		parent := attrs[parentKey]
		if _, seen := g.groups[parent]; !seen {
			g.order = append(g.order, parent)
		}
		g.groups[parent] = append(g.groups[parent], attrs)
	}
	return g
}

func (g normalizedGroup) childIDs() []string {
	var ids []string
	for _, parent := range g.order {
		for _, attrs := range g.groups[parent] {
			ids = append(ids, attrs["id"])
		}
	}
	return ids
}

// CatalogRatePlanCharge is one billable component of a matched rate
// plan, carrying its tiers as an unordered list.
type CatalogRatePlanCharge struct {
	Attributes map[string]string
	Tiers      []map[string]string
}

// CatalogRatePlan is a scored rate plan with its charges sorted by the
// configured sort order.
type CatalogRatePlan struct {
	Attributes map[string]string
	Score      int
	Charges    []CatalogRatePlanCharge
}

// CatalogProduct is a product augmented with its scored rate plans,
// highest score first.
type CatalogProduct struct {
	Attributes map[string]string
	RatePlans  []CatalogRatePlan
}

// MatchProductRatePlans fetches the products behind the given short
// codes together with their currently effective rate plans, charges and
// tiers, and scores every rate plan against the filter.
//
// A plan's score starts at its configured priority and gains one point
// per filter field whose value matches the plan's same-named attribute;
// the attribute is compiled as a case-insensitive pattern matched at
// the start of the filter value. With filter {"site": "runkeeper.com"}
// a plan whose site attribute is "run" or "(run|ride)" scores the
// point.
//
// Charges referencing an unknown rate plan, and tiers referencing an
// unknown charge, are silently excluded.
func (c *Client) MatchProductRatePlans(ctx context.Context, shortCodes []string, filter map[string]string) ([]CatalogProduct, error) {
	now := formatSOAPTimestamp(time.Now().UTC())

	productRecords, err := c.GetProducts(ctx, "", shortCodes)
	if err != nil {
		return nil, err
	}

	products := make([]map[string]string, 0, len(productRecords))
	productIDs := make([]string, 0, len(productRecords))
	for _, r := range productRecords {
		attrs := Normalize(r)
		products = append(products, attrs)
		productIDs = append(productIDs, attrs["id"])
	}

	planRecords, err := c.GetProductRatePlans(ctx, GetProductRatePlansParams{
		ProductIDs:     productIDs,
		EffectiveStart: now,
	})
	if err != nil {
		return nil, err
	}
	plansByProduct := groupNormalized(planRecords, "product_id")

	chargeRecords, err := c.GetProductRatePlanCharges(ctx, GetProductRatePlanChargesParams{
		ProductRatePlanIDs: plansByProduct.childIDs(),
	})
	if err != nil {
		return nil, err
	}
	chargesByPlan := groupNormalized(chargeRecords, "product_rate_plan_id")

	tierRecords, err := c.GetProductRatePlanChargeTiers(ctx, GetProductRatePlanChargeTiersParams{
		ProductRatePlanChargeIDs: chargesByPlan.childIDs(),
	})
	if err != nil {
		return nil, err
	}
	tiersByCharge := groupNormalized(tierRecords, "product_rate_plan_charge_id")

	matched := make([]CatalogProduct, 0, len(products))
	for _, productAttrs := range products {
		ratePlans := []CatalogRatePlan{}
		for _, planAttrs := range plansByProduct.groups[productAttrs["id"]] {
			plan := CatalogRatePlan{
				Attributes: planAttrs,
				Score:      scoreRatePlan(planAttrs, filter, c.log),
				Charges:    []CatalogRatePlanCharge{},
			}

			for _, chargeAttrs := range chargesByPlan.groups[planAttrs["id"]] {
				tiers := tiersByCharge.groups[chargeAttrs["id"]]
				if tiers == nil {
					tiers = []map[string]string{}
				}
				plan.Charges = append(plan.Charges, CatalogRatePlanCharge{
					Attributes: chargeAttrs,
					Tiers:      tiers,
				})
			}

			sort.SliceStable(plan.Charges, func(i, j int) bool {
				return chargeSortOrder(plan.Charges[i].Attributes) < chargeSortOrder(plan.Charges[j].Attributes)
			})

			ratePlans = append(ratePlans, plan)
		}

		sort.SliceStable(ratePlans, func(i, j int) bool {
			return ratePlans[i].Score > ratePlans[j].Score
		})

		matched = append(matched, CatalogProduct{
			Attributes: productAttrs,
			RatePlans:  ratePlans,
		})
	}

	return matched, nil
}

// scoreRatePlan computes priority plus one point per matching filter
// field. A missing attribute, or one that does not compile as a
// pattern, contributes nothing.
func scoreRatePlan(planAttrs, filter map[string]string, log *zap.Logger) int {
	score := 0
	if priority, err := strconv.Atoi(planAttrs["priority"]); err == nil {
		score = priority
	}
	for field, subject := range filter {
		pattern := planAttrs[field]
		if pattern == "" {
			continue
		}
		re, err := regexp.Compile(`^(?i:` + pattern + `)`)
		if err != nil {
			log.Debug("skipping unparsable plan attribute pattern",
				zap.String("field", field), zap.String("pattern", pattern))
			continue
		}
		if re.MatchString(subject) {
			score++
		}
	}
	return score
}

// chargeSortOrder parses a charge's configured sort order; missing or
// unparsable values sort last.
func chargeSortOrder(chargeAttrs map[string]string) int {
	order, err := strconv.Atoi(chargeAttrs["sort_order"])
	if err != nil {
		return chargeSortLast
	}
	return order
}

// GetProductRatePlanChargePricing sums the non-overage tier prices of
// one rate plan's charges, grouped by charge model then charge type.
// Charges sharing the same model/type pair accumulate into the same
// total.
func (c *Client) GetProductRatePlanChargePricing(ctx context.Context, productRatePlanID string) (map[string]map[string]decimal.Decimal, error) {
	chargeRecords, err := c.GetProductRatePlanCharges(ctx, GetProductRatePlanChargesParams{
		ProductRatePlanID: productRatePlanID,
	})
	if err != nil {
		return nil, err
	}

	charges := make([]map[string]string, 0, len(chargeRecords))
	chargeIDs := make([]string, 0, len(chargeRecords))
	for _, r := range chargeRecords {
		attrs := Normalize(r)
		charges = append(charges, attrs)
		chargeIDs = append(chargeIDs, attrs["id"])
	}

	tierRecords, err := c.GetProductRatePlanChargeTiers(ctx, GetProductRatePlanChargeTiersParams{
		ProductRatePlanChargeIDs: chargeIDs,
	})
	if err != nil {
		return nil, err
	}
	tiersByCharge := groupNormalized(tierRecords, "product_rate_plan_charge_id")

	pricing := make(map[string]map[string]decimal.Decimal)
	for _, chargeAttrs := range charges {
		chargeModel := strings.ToLower(chargeAttrs["charge_model"])
		chargeType := strings.ToLower(chargeAttrs["charge_type"])
		if pricing[chargeModel] == nil {
			pricing[chargeModel] = make(map[string]decimal.Decimal)
		}

		total := pricing[chargeModel][chargeType]
		for _, tierAttrs := range tiersByCharge.groups[chargeAttrs["id"]] {
			if isOverage, err := strconv.ParseBool(tierAttrs["is_overage_price"]); err == nil && isOverage {
				continue
			}
			price, err := decimal.NewFromString(tierAttrs["price"])
			if err != nil {
				c.log.Debug("skipping unparsable tier price",
					zap.String("charge_id", chargeAttrs["id"]),
					zap.String("price", tierAttrs["price"]))
				continue
			}
			total = total.Add(price)
		}
		pricing[chargeModel][chargeType] = total
	}

	return pricing, nil
}
