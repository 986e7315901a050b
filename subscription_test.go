package zuora

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSubscriptionsFilters(t *testing.T) {
	ft := &fakeTransport{}
	c := newTestClient(t, ft)

	_, err := c.GetSubscriptions(context.Background(), GetSubscriptionsParams{
		AccountID: "a1",
		AutoRenew: "True",
		Status:    "Active",
	})
	require.NoError(t, err)

	require.Len(t, ft.queries, 1)
	// AutoRenew is a boolean column: lowercased and unquoted.
	assert.True(t, strings.HasSuffix(ft.queries[0],
		"WHERE AccountId = 'a1' AND AutoRenew = true AND Status = 'Active'"), ft.queries[0])
}

func TestGetSubscriptionsNoFilter(t *testing.T) {
	ft := &fakeTransport{}
	c := newTestClient(t, ft)

	_, err := c.GetSubscriptions(context.Background(), GetSubscriptionsParams{})
	require.NoError(t, err)
	require.Len(t, ft.queries, 1)
	assert.NotContains(t, ft.queries[0], "WHERE")
}

func TestMakeSubscriptionDefaults(t *testing.T) {
	s := MakeSubscription(MakeSubscriptionParams{
		MonthlyTerm: 12,
		Name:        "annual",
		Recurring:   true,
	})

	assert.Equal(t, "annual", s.Name)
	assert.Equal(t, 12, s.InitialTerm)
	assert.Equal(t, 12, s.RenewalTerm)
	assert.Equal(t, "Active", s.Status)
	assert.Equal(t, "TERMED", s.TermType)
	require.NotNil(t, s.AutoRenew)
	assert.True(t, *s.AutoRenew)
	assert.NotEmpty(t, s.ContractEffectiveDate)
	assert.Equal(t, s.ContractEffectiveDate, s.ContractAcceptanceDate)
}

func TestMakeSubscriptionZeroRenewalTerm(t *testing.T) {
	zero := 0
	s := MakeSubscription(MakeSubscriptionParams{
		MonthlyTerm: 12,
		RenewalTerm: &zero,
	})
	assert.Equal(t, 0, s.RenewalTerm)
	// Zero must still reach the wire.
	var found bool
	for _, f := range s.ObjectFields() {
		if f.Key == "RenewalTerm" {
			found = true
			assert.Equal(t, 0, f.Value)
		}
	}
	assert.True(t, found)
}

func TestMakeSubscriptionStartDate(t *testing.T) {
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	s := MakeSubscription(MakeSubscriptionParams{
		MonthlyTerm: 1,
		StartDate:   &start,
	})
	assert.Equal(t, "2026-06-01T00:00:00-06:00", s.TermStartDate)
	assert.Equal(t, s.TermStartDate, s.ServiceActivationDate)
	// The contract dates stay at the call time, not the start date.
	assert.NotEqual(t, s.TermStartDate, s.ContractEffectiveDate)
}

func TestSubscribeComposesRequest(t *testing.T) {
	ft := &fakeTransport{}
	c := newTestClient(t, ft)

	paymentMethod := rec("PaymentMethod", Field{Key: "Id", Value: "pm-1"})
	results, err := c.Subscribe(context.Background(), SubscribeParams{
		ProductRatePlanID: "prp-1",
		MonthlyTerm:       12,
		Account:           &Account{ID: "acc-1"},
		PaymentMethod:     &paymentMethod,
		GenerateInvoice:   true,
		ProcessPayments:   true,
		GeneratePreview:   true,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Success)

	// An existing account needs no preparatory creates.
	assert.Empty(t, ft.created)

	require.Len(t, ft.subscribes, 1)
	request := ft.subscribes[0]
	assert.Equal(t, "acc-1", request.Account.ID)
	assert.Nil(t, request.BillToContact)
	require.Len(t, request.SubscriptionData.RatePlanData, 1)
	assert.Equal(t, "prp-1", request.SubscriptionData.RatePlanData[0].RatePlan.ProductRatePlanID)
	assert.Equal(t, "NewProduct", request.SubscriptionData.RatePlanData[0].RatePlan.AmendmentType)

	require.NotNil(t, request.SubscribeOptions.InvoiceProcessingOptions)
	assert.Equal(t, "Subscription", request.SubscribeOptions.InvoiceProcessingOptions.InvoiceProcessingScope)
	assert.True(t, request.SubscribeOptions.GenerateInvoice)
	assert.True(t, request.SubscribeOptions.ProcessPayments)

	require.NotNil(t, request.PreviewOptions)
	assert.True(t, request.PreviewOptions.EnablePreviewMode)
	assert.Equal(t, 15, request.PreviewOptions.NumberOfPeriods)
}

func TestSubscribeCreatesAccountAndContact(t *testing.T) {
	ids := []string{"acc-1", "ct-1"}
	ft := &fakeTransport{createFn: func([]RemoteObject) ([]SaveResult, error) {
		id := ids[0]
		ids = ids[1:]
		return []SaveResult{{ID: id, Success: true}}, nil
	}}
	c := newTestClient(t, ft)

	_, err := c.Subscribe(context.Background(), SubscribeParams{
		ProductRatePlanID: "prp-1",
		MonthlyTerm:       1,
		User:              &User{ID: "7", FirstName: "John", LastName: "Doe", Email: "jd@example.com"},
	})
	require.NoError(t, err)

	require.Len(t, ft.created, 2)
	assert.Equal(t, "Account", ft.created[0].ObjectType())
	assert.Equal(t, "Contact", ft.created[1].ObjectType())

	request := ft.subscribes[0]
	assert.Equal(t, "acc-1", request.Account.ID)
	require.NotNil(t, request.BillToContact)
	assert.Equal(t, "ct-1", request.BillToContact.ID)
}

func TestSubscribeAddsDiscountRatePlan(t *testing.T) {
	ft := &fakeTransport{}
	c := newTestClient(t, ft)

	_, err := c.Subscribe(context.Background(), SubscribeParams{
		ProductRatePlanID:         "prp-1",
		DiscountProductRatePlanID: "prp-discount",
		MonthlyTerm:               1,
		Account:                   &Account{ID: "acc-1"},
	})
	require.NoError(t, err)

	data := ft.subscribes[0].SubscriptionData.RatePlanData
	require.Len(t, data, 2)
	assert.Equal(t, "prp-1", data[0].RatePlan.ProductRatePlanID)
	assert.Equal(t, "prp-discount", data[1].RatePlan.ProductRatePlanID)
}

func TestSubscribeExternalPaymentOptions(t *testing.T) {
	ft := &fakeTransport{queryFn: func(qs string) (*RecordSet, error) {
		switch queriedTable(qs) {
		case "ProductRatePlanCharge":
			return &RecordSet{
				Records: []Record{rec("ProductRatePlanCharge", Field{Key: "Id", Value: "prpc-1"})},
				Done:    true,
			}, nil
		case "ProductRatePlanChargeTier":
			return &RecordSet{
				Records: []Record{rec("ProductRatePlanChargeTier", Field{Key: "Price", Value: "9.99"})},
				Done:    true,
			}, nil
		}
		return &RecordSet{Done: true}, nil
	}}
	c := newTestClient(t, ft)

	external := rec("PaymentMethod", Field{Key: "Id", Value: "pm-ext"})
	_, err := c.Subscribe(context.Background(), SubscribeParams{
		ProductRatePlanID:     "prp-1",
		MonthlyTerm:           1,
		Account:               &Account{ID: "acc-1"},
		ExternalPaymentMethod: &external,
	})
	require.NoError(t, err)

	options := ft.subscribes[0].SubscribeOptions.ExternalPaymentOptions
	require.NotNil(t, options)
	assert.Equal(t, "pm-ext", options.PaymentMethodID)
	assert.Equal(t, "9.99", options.Amount.String())
	assert.NotEmpty(t, options.EffectiveDate)
}

func TestSubscribeExternalPaymentNoCharges(t *testing.T) {
	ft := &fakeTransport{}
	c := newTestClient(t, ft)

	external := rec("PaymentMethod", Field{Key: "Id", Value: "pm-ext"})
	_, err := c.Subscribe(context.Background(), SubscribeParams{
		ProductRatePlanID:     "prp-1",
		MonthlyTerm:           1,
		Account:               &Account{ID: "acc-1"},
		ExternalPaymentMethod: &external,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, ft.subscribes)
}

func TestCancelSubscriptionWithoutRESTClient(t *testing.T) {
	c := newTestClient(t, &fakeTransport{})
	_, err := c.CancelSubscription(context.Background(), "sub-1", "")
	assert.ErrorIs(t, err, ErrMissingRequired)
}
