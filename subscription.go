package zuora

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// GetSubscriptionsParams filters GetSubscriptions. Absent filters are
// omitted from the WHERE clause.
type GetSubscriptionsParams struct {
	SubscriptionID     string
	SubscriptionNumber string
	AccountID          string
	AutoRenew          string // "true" or "false"
	Status             string // Draft, Pending Activation, Pending Acceptance, Active, Cancelled, Expired
	TermType           string // EVERGREEN, TERMED
	TermEndDate        string
	TermStartDate      string
}

// GetSubscriptions gets the subscriptions matching criteria.
func (c *Client) GetSubscriptions(ctx context.Context, params GetSubscriptionsParams) ([]Record, error) {
	var filter []string
	if params.SubscriptionID != "" {
		filter = append(filter, fmt.Sprintf("Id = '%s'", params.SubscriptionID))
	}
	if params.SubscriptionNumber != "" {
		filter = append(filter, fmt.Sprintf("Name = '%s'", params.SubscriptionNumber))
	}
	if params.AccountID != "" {
		filter = append(filter, fmt.Sprintf("AccountId = '%s'", params.AccountID))
	}
	if params.AutoRenew != "" {
		filter = append(filter, fmt.Sprintf("AutoRenew = %s", strings.ToLower(params.AutoRenew)))
	}
	if params.Status != "" {
		filter = append(filter, fmt.Sprintf("Status = '%s'", params.Status))
	}
	if params.TermType != "" {
		filter = append(filter, fmt.Sprintf("TermType = '%s'", params.TermType))
	}
	if params.TermEndDate != "" {
		filter = append(filter, fmt.Sprintf("TermEndDate = '%s'", params.TermEndDate))
	}
	if params.TermStartDate != "" {
		filter = append(filter, fmt.Sprintf("TermStartDate = '%s'", params.TermStartDate))
	}

	qs := `
		SELECT
			AccountId, AutoRenew,
			CancelledDate, ContractAcceptanceDate,
			ContractEffectiveDate,
			CreatedById, CreatedDate, InitialTerm,
			IsInvoiceSeparate, Name, Notes, OriginalCreatedDate,
			OriginalId, PreviousSubscriptionId,
			RenewalTerm, ServiceActivationDate, Status,
			SubscriptionEndDate, SubscriptionStartDate,
			TermEndDate, TermStartDate, TermType,
			UpdatedById, UpdatedDate, Version
		FROM Subscription
		`
	if len(filter) > 0 {
		qs += "WHERE " + strings.Join(filter, " AND ")
	}

	return c.queryAll(ctx, qs)
}

// MakeSubscriptionParams configures MakeSubscription. MonthlyTerm is
// the term in months (12 = one year).
type MakeSubscriptionParams struct {
	MonthlyTerm int
	Name        string
	Notes       string
	Recurring   bool
	TermType    string // defaults to TERMED
	RenewalTerm *int   // defaults to MonthlyTerm; zero is a valid value
	OrderID     string
	StartDate   *time.Time // defaults to now
}

// MakeSubscription builds the subscription payload used by Subscribe. A
// subscription represents signing up for a product for a certain amount
// of time; each one can carry one or more rate plans.
func MakeSubscription(params MakeSubscriptionParams) *Subscription {
	now := time.Now()
	effectiveDate := formatSOAPTimestamp(now)
	startDate := effectiveDate
	if params.StartDate != nil {
		startDate = formatSOAPTimestamp(*params.StartDate)
	}
	termType := params.TermType
	if termType == "" {
		termType = "TERMED"
	}
	renewalTerm := params.MonthlyTerm
	if params.RenewalTerm != nil {
		renewalTerm = *params.RenewalTerm
	}

	return &Subscription{
		Name:                   params.Name,
		Notes:                  params.Notes,
		ContractAcceptanceDate: effectiveDate,
		ContractEffectiveDate:  effectiveDate,
		ServiceActivationDate:  startDate,
		TermStartDate:          startDate,
		InitialTerm:            params.MonthlyTerm,
		RenewalTerm:            renewalTerm,
		Status:                 "Active",
		AutoRenew:              boolPtr(params.Recurring),
		TermType:               termType,
		OrderID:                params.OrderID,
	}
}

// SubscribeParams configures Subscribe.
type SubscribeParams struct {
	ProductRatePlanID string
	MonthlyTerm       int

	Account         *Account
	Contact         *Contact
	ShippingContact *Contact

	ProcessPayments bool
	GenerateInvoice bool
	GeneratePreview bool

	TermType         string
	RenewalTerm      *int
	SubscriptionName string
	Recurring        bool
	PaymentMethod    *Record
	OrderID          string

	User            *User
	BillingAddress  *Address
	ShippingAddress *Address
	StartDate       *time.Time
	SiteName        string

	DiscountProductRatePlanID string
	ExternalPaymentMethod     *Record
}

// Subscribe bundles account, contacts, payment method and subscription
// creation into one remote call, creating whichever of them the caller
// did not supply first. Preparatory creates are individual calls with
// no rollback on a later failure.
func (c *Client) Subscribe(ctx context.Context, params SubscribeParams) ([]SubscribeResult, error) {
	account := params.Account
	if account == nil {
		var err error
		account, err = c.MakeAccount(ctx, MakeAccountParams{
			User:           params.User,
			SiteName:       params.SiteName,
			BillingAddress: params.BillingAddress,
		})
		if err != nil {
			return nil, err
		}
	}

	contact := params.Contact
	if contact == nil && account.ID == "" {
		var err error
		contact, err = c.MakeContact(ctx, MakeContactParams{
			User:           params.User,
			BillingAddress: params.BillingAddress,
			Account:        account,
		})
		if err != nil {
			return nil, err
		}
	}

	shippingContact := params.ShippingContact
	if shippingContact == nil && params.ShippingAddress != nil {
		var err error
		shippingContact, err = c.MakeContact(ctx, MakeContactParams{
			User:           params.User,
			BillingAddress: params.ShippingAddress,
			Account:        account,
		})
		if err != nil {
			return nil, err
		}
	}

	ratePlanData := []RatePlanData{MakeRatePlanData(params.ProductRatePlanID)}
	if params.DiscountProductRatePlanID != "" {
		ratePlanData = append(ratePlanData, MakeRatePlanData(params.DiscountProductRatePlanID))
	}

	subscription := MakeSubscription(MakeSubscriptionParams{
		MonthlyTerm: params.MonthlyTerm,
		Name:        params.SubscriptionName,
		Recurring:   params.Recurring,
		TermType:    params.TermType,
		RenewalTerm: params.RenewalTerm,
		OrderID:     params.OrderID,
		StartDate:   params.StartDate,
	})

	options := SubscribeOptions{
		GenerateInvoice: params.GenerateInvoice,
		ProcessPayments: params.ProcessPayments,
		InvoiceProcessingOptions: &SubscribeInvoiceProcessingOptions{
			InvoiceTargetDate:      formatSOAPTimestamp(time.Now()),
			InvoiceProcessingScope: "Subscription",
		},
	}

	if params.ExternalPaymentMethod != nil {
		external, err := c.makeExternalPaymentOptions(ctx, params.ProductRatePlanID, params.ExternalPaymentMethod)
		if err != nil {
			return nil, err
		}
		options.ExternalPaymentOptions = external
	}

	request := SubscribeRequest{
		Account:       account,
		BillToContact: contact,
		SoldToContact: shippingContact,
		PaymentMethod: params.PaymentMethod,
		SubscriptionData: SubscriptionData{
			Subscription: subscription,
			RatePlanData: ratePlanData,
		},
		SubscribeOptions: options,
	}

	if params.GeneratePreview {
		request.PreviewOptions = &PreviewOptions{
			EnablePreviewMode: true,
			NumberOfPeriods:   params.MonthlyTerm + 3,
		}
	}

	c.log.Info("subscribe request", zap.Any("request", request))
	var results []SubscribeResult
	err := c.call(ctx, "subscribe", func(session string) error {
		var err error
		results, err = c.transport.Subscribe(ctx, session, request)
		return err
	})
	if err != nil {
		return nil, err
	}
	c.log.Info("subscribe response", zap.Any("results", results))
	return results, nil
}

// makeExternalPaymentOptions prices the external payment from the first
// tier of the rate plan's first charge.
func (c *Client) makeExternalPaymentOptions(ctx context.Context, productRatePlanID string, paymentMethod *Record) (*ExternalPaymentOptions, error) {
	charges, err := c.GetProductRatePlanCharges(ctx, GetProductRatePlanChargesParams{
		ProductRatePlanID: productRatePlanID,
	})
	if err != nil {
		return nil, err
	}
	if len(charges) == 0 {
		return nil, fmt.Errorf("unable to find product rate plan charges for %s: %w", productRatePlanID, ErrNotFound)
	}
	chargeID, _ := charges[0].Get("Id")
	tiers, err := c.GetProductRatePlanChargeTiers(ctx, GetProductRatePlanChargeTiersParams{
		ProductRatePlanChargeID: stringify(chargeID),
	})
	if err != nil {
		return nil, err
	}
	if len(tiers) == 0 {
		return nil, fmt.Errorf("unable to find charge tiers for %s: %w", stringify(chargeID), ErrNotFound)
	}

	price, _ := tiers[0].Get("Price")
	amount, err := decimal.NewFromString(stringify(price))
	if err != nil {
		return nil, fmt.Errorf("invalid tier price %q for charge %s: %w", stringify(price), stringify(chargeID), err)
	}

	methodID, _ := paymentMethod.Get("Id")
	return &ExternalPaymentOptions{
		PaymentMethodID: stringify(methodID),
		Amount:          amount,
		EffectiveDate:   formatSOAPTimestamp(time.Now()),
	}, nil
}

// CancelSubscription cancels a subscription through the REST
// collaborator, optionally on a specific effective date.
func (c *Client) CancelSubscription(ctx context.Context, subscriptionKey, effectiveDate string) (map[string]any, error) {
	if c.rest == nil {
		return nil, fmt.Errorf("no REST collaborator configured: %w", ErrMissingRequired)
	}
	return c.rest.CancelSubscription(ctx, subscriptionKey, effectiveDate)
}
