package zuora

import (
	"context"
	"fmt"
	"time"
)

// CreateProductAmendmentParams configures CreateProductAmendment.
type CreateProductAmendmentParams struct {
	EffectiveDate  string
	SubscriptionID string
	NamePrepend    string
	Type           string
	Status         string // defaults to Draft
	Description    string
	Name           string // defaults to "<NamePrepend> <EffectiveDate>"
}

// CreateProductAmendment creates a new product amendment and fills in
// the id assigned by the remote side.
func (c *Client) CreateProductAmendment(ctx context.Context, params CreateProductAmendmentParams) (*Amendment, error) {
	status := params.Status
	if status == "" {
		status = "Draft"
	}
	name := params.Name
	if name == "" {
		name = fmt.Sprintf("%s %s", params.NamePrepend, params.EffectiveDate)
	}

	amendment := &Amendment{
		EffectiveDate:  params.EffectiveDate,
		Name:           name,
		Status:         status,
		SubscriptionID: params.SubscriptionID,
		Type:           params.Type,
		Description:    params.Description,
	}

	results, err := c.Create(ctx, amendment)
	if err != nil {
		return nil, err
	}
	if err := checkSaveResults("create amendment", results); err != nil {
		return nil, err
	}
	amendment.ID = results[0].ID
	return amendment, nil
}

// UpdateProductAmendment moves a product amendment to the given status,
// Completed by default.
func (c *Client) UpdateProductAmendment(ctx context.Context, effectiveDate string, amendment *Amendment, status string) ([]SaveResult, error) {
	if status == "" {
		status = "Completed"
	}
	update := &Amendment{
		ID:                    amendment.ID,
		ContractEffectiveDate: effectiveDate,
		Status:                status,
	}
	results, err := c.Update(ctx, update)
	if err != nil {
		return nil, err
	}
	if err := checkSaveResults("update amendment", results); err != nil {
		return nil, err
	}
	return results, nil
}

// UpdateProductAmendmentChargeParams configures the charge-quantity
// update variant of a product amendment.
type UpdateProductAmendmentChargeParams struct {
	Name                    string
	Description             string
	Quantity                float64
	ContractEffectiveDate   time.Time
	EffectiveDate           time.Time
	ServiceActivationDate   time.Time
	CustomerAcceptanceDate  time.Time
	SubscriptionID          string
	RatePlanID              string
	ProductRatePlanChargeID string
	ProcessPayments         bool
}

// UpdateProductAmendmentCharge amends a subscription's existing rate
// plan with a new charge quantity via a single amend call.
func (c *Client) UpdateProductAmendmentCharge(ctx context.Context, params UpdateProductAmendmentChargeParams) ([]SaveResult, error) {
	ratePlanData := RatePlanData{
		RatePlan: RatePlan{
			AmendmentSubscriptionRatePlanID: params.RatePlanID,
		},
		RatePlanChargeData: []RatePlanChargeData{{
			RatePlanCharge: RatePlanCharge{
				ProductRatePlanChargeID: params.ProductRatePlanChargeID,
				Quantity:                params.Quantity,
			},
		}},
	}

	amendment := Amendment{
		ContractEffectiveDate:  formatSOAPTimestamp(params.ContractEffectiveDate),
		EffectiveDate:          formatSOAPTimestamp(params.EffectiveDate),
		ServiceActivationDate:  formatSOAPTimestamp(params.ServiceActivationDate),
		CustomerAcceptanceDate: formatSOAPTimestamp(params.CustomerAcceptanceDate),
		Name:                   params.Name,
		Description:            params.Description,
		Status:                 "Completed",
		SubscriptionID:         params.SubscriptionID,
		Type:                   "UpdateProduct",
		RatePlanData:           &ratePlanData,
	}

	return c.Amend(ctx, AmendRequest{
		Amendments: []Amendment{amendment},
		Options:    AmendOptions{ProcessPayments: params.ProcessPayments},
	})
}

// AddProductAmendment adds a product rate plan to a subscription: a
// draft NewProduct amendment, the rate plan, then completion. The three
// remote calls are not rolled back on a later failure.
func (c *Client) AddProductAmendment(ctx context.Context, name, subscriptionID, productRatePlanID string) ([]SaveResult, error) {
	effectiveDate := formatSOAPTimestamp(time.Now())

	amendment, err := c.CreateProductAmendment(ctx, CreateProductAmendmentParams{
		EffectiveDate:  effectiveDate,
		SubscriptionID: subscriptionID,
		NamePrepend:    "New Product Amendment",
		Type:           "NewProduct",
		Name:           name,
	})
	if err != nil {
		return nil, err
	}

	ratePlan := &RatePlan{
		AmendmentType:     "NewProduct",
		AmendmentID:       amendment.ID,
		ProductRatePlanID: productRatePlanID,
	}
	results, err := c.Create(ctx, ratePlan)
	if err != nil {
		return nil, err
	}
	if err := checkSaveResults("create rate plan", results); err != nil {
		return nil, err
	}

	return c.UpdateProductAmendment(ctx, effectiveDate, amendment, "")
}

// RemoveProductAmendment removes a rate plan from a subscription via a
// RemoveProduct amendment. Same three-call sequence as
// AddProductAmendment, same lack of rollback.
func (c *Client) RemoveProductAmendment(ctx context.Context, subscriptionID, ratePlanID string) ([]SaveResult, error) {
	effectiveDate := formatSOAPTimestamp(time.Now())

	amendment, err := c.CreateProductAmendment(ctx, CreateProductAmendmentParams{
		EffectiveDate:  effectiveDate,
		SubscriptionID: subscriptionID,
		NamePrepend:    "Remove Product Amendment",
		Type:           "RemoveProduct",
	})
	if err != nil {
		return nil, err
	}

	ratePlan := &RatePlan{
		AmendmentType:                   "RemoveProduct",
		AmendmentID:                     amendment.ID,
		AmendmentSubscriptionRatePlanID: ratePlanID,
	}
	results, err := c.Create(ctx, ratePlan)
	if err != nil {
		return nil, err
	}
	if err := checkSaveResults("create rate plan", results); err != nil {
		return nil, err
	}

	return c.UpdateProductAmendment(ctx, effectiveDate, amendment, "")
}
