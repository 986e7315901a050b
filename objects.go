package zuora

import "github.com/shopspring/decimal"

// Typed remote-object payloads. Each enumerates its wire attributes
// explicitly; ObjectFields emits only the attributes that were set, so
// one type serves both create and sparse update payloads.

func appendString(fields []Field, key, value string) []Field {
	if value == "" {
		return fields
	}
	return append(fields, Field{Key: key, Value: value})
}

func appendBool(fields []Field, key string, value *bool) []Field {
	if value == nil {
		return fields
	}
	return append(fields, Field{Key: key, Value: *value})
}

func appendInt(fields []Field, key string, value int) []Field {
	if value == 0 {
		return fields
	}
	return append(fields, Field{Key: key, Value: value})
}

func boolPtr(v bool) *bool { return &v }

// Account is the customer account payload.
type Account struct {
	ID                     string
	AccountNumber          string
	AllowInvoiceEdit       *bool
	AutoPay                *bool
	Batch                  string
	BillCycleDay           int
	BillToID               string
	CrmID                  string
	Currency               string
	DefaultPaymentMethodID string
	Name                   string
	PaymentGateway         string
	PaymentTerm            string
	SoldToID               string
	Status                 string

	// Custom fields.
	TestAccount bool
	UserSite    string
}

func (a *Account) ObjectType() string { return "Account" }

func (a *Account) ObjectFields() []Field {
	var fields []Field
	fields = appendString(fields, "Id", a.ID)
	fields = appendString(fields, "AccountNumber", a.AccountNumber)
	fields = appendBool(fields, "AllowInvoiceEdit", a.AllowInvoiceEdit)
	fields = appendBool(fields, "AutoPay", a.AutoPay)
	fields = appendString(fields, "Batch", a.Batch)
	fields = appendInt(fields, "BillCycleDay", a.BillCycleDay)
	fields = appendString(fields, "BillToId", a.BillToID)
	fields = appendString(fields, "CrmId", a.CrmID)
	fields = appendString(fields, "Currency", a.Currency)
	fields = appendString(fields, "DefaultPaymentMethodId", a.DefaultPaymentMethodID)
	fields = appendString(fields, "Name", a.Name)
	fields = appendString(fields, "PaymentGateway", a.PaymentGateway)
	fields = appendString(fields, "PaymentTerm", a.PaymentTerm)
	fields = appendString(fields, "SoldToId", a.SoldToID)
	fields = appendString(fields, "Status", a.Status)
	if a.TestAccount {
		fields = append(fields, Field{Key: "Test_Account__c", Value: 1})
	}
	fields = appendString(fields, "User_Site__c", a.UserSite)
	return fields
}

// Contact is the bill-to / sold-to contact payload.
type Contact struct {
	ID            string
	AccountID     string
	Address1      string
	Address2      string
	City          string
	Country       string
	FirstName     string
	HomePhone     string
	LastName      string
	PersonalEmail string
	PostalCode    string
	State         string
}

func (c *Contact) ObjectType() string { return "Contact" }

func (c *Contact) ObjectFields() []Field {
	var fields []Field
	fields = appendString(fields, "Id", c.ID)
	fields = appendString(fields, "AccountId", c.AccountID)
	fields = appendString(fields, "Address1", c.Address1)
	fields = appendString(fields, "Address2", c.Address2)
	fields = appendString(fields, "City", c.City)
	fields = appendString(fields, "Country", c.Country)
	fields = appendString(fields, "FirstName", c.FirstName)
	fields = appendString(fields, "HomePhone", c.HomePhone)
	fields = appendString(fields, "LastName", c.LastName)
	fields = appendString(fields, "PersonalEmail", c.PersonalEmail)
	fields = appendString(fields, "PostalCode", c.PostalCode)
	fields = appendString(fields, "State", c.State)
	return fields
}

// Subscription is the subscription payload carried inside subscribe.
type Subscription struct {
	Name                   string
	Notes                  string
	ContractAcceptanceDate string
	ContractEffectiveDate  string
	ServiceActivationDate  string
	TermStartDate          string
	InitialTerm            int
	RenewalTerm            int
	Status                 string
	AutoRenew              *bool
	TermType               string

	// OrderId__c custom field.
	OrderID string
}

func (s *Subscription) ObjectType() string { return "Subscription" }

func (s *Subscription) ObjectFields() []Field {
	var fields []Field
	fields = appendString(fields, "Name", s.Name)
	fields = appendString(fields, "Notes", s.Notes)
	fields = appendString(fields, "ContractAcceptanceDate", s.ContractAcceptanceDate)
	fields = appendString(fields, "ContractEffectiveDate", s.ContractEffectiveDate)
	fields = appendString(fields, "ServiceActivationDate", s.ServiceActivationDate)
	fields = appendString(fields, "TermStartDate", s.TermStartDate)
	fields = appendInt(fields, "InitialTerm", s.InitialTerm)
	fields = append(fields, Field{Key: "RenewalTerm", Value: s.RenewalTerm})
	fields = appendString(fields, "Status", s.Status)
	fields = appendBool(fields, "AutoRenew", s.AutoRenew)
	fields = appendString(fields, "TermType", s.TermType)
	fields = appendString(fields, "OrderId__c", s.OrderID)
	return fields
}

// Amendment is a change record applied to an existing subscription.
type Amendment struct {
	ID                     string
	Name                   string
	Description            string
	Status                 string
	SubscriptionID         string
	Type                   string
	EffectiveDate          string
	ContractEffectiveDate  string
	ServiceActivationDate  string
	CustomerAcceptanceDate string
	RatePlanData           *RatePlanData
}

func (a *Amendment) ObjectType() string { return "Amendment" }

func (a *Amendment) ObjectFields() []Field {
	var fields []Field
	fields = appendString(fields, "Id", a.ID)
	fields = appendString(fields, "Name", a.Name)
	fields = appendString(fields, "Description", a.Description)
	fields = appendString(fields, "Status", a.Status)
	fields = appendString(fields, "SubscriptionId", a.SubscriptionID)
	fields = appendString(fields, "Type", a.Type)
	fields = appendString(fields, "EffectiveDate", a.EffectiveDate)
	fields = appendString(fields, "ContractEffectiveDate", a.ContractEffectiveDate)
	fields = appendString(fields, "ServiceActivationDate", a.ServiceActivationDate)
	fields = appendString(fields, "CustomerAcceptanceDate", a.CustomerAcceptanceDate)
	if a.RatePlanData != nil {
		fields = append(fields, Field{Key: "RatePlanData", Value: *a.RatePlanData})
	}
	return fields
}

// RatePlan is the amendment-side rate plan payload.
type RatePlan struct {
	AmendmentID                     string
	AmendmentType                   string
	AmendmentSubscriptionRatePlanID string
	ProductRatePlanID               string
}

func (r *RatePlan) ObjectType() string { return "RatePlan" }

func (r *RatePlan) ObjectFields() []Field {
	var fields []Field
	fields = appendString(fields, "AmendmentId", r.AmendmentID)
	fields = appendString(fields, "AmendmentType", r.AmendmentType)
	fields = appendString(fields, "AmendmentSubscriptionRatePlanId", r.AmendmentSubscriptionRatePlanID)
	fields = appendString(fields, "ProductRatePlanId", r.ProductRatePlanID)
	return fields
}

// RatePlanCharge carries a charge quantity override inside an amendment.
type RatePlanCharge struct {
	ProductRatePlanChargeID string
	Quantity                float64
}

// RatePlanChargeData wraps a RatePlanCharge for amend payloads.
type RatePlanChargeData struct {
	RatePlanCharge RatePlanCharge
}

// RatePlanData identifies one rate plan plus optional charge data for
// subscribe and amend payloads.
type RatePlanData struct {
	RatePlan           RatePlan
	RatePlanChargeData []RatePlanChargeData
}

// InvoiceAdjustment is a credit or debit applied against an invoice.
type InvoiceAdjustment struct {
	InvoiceID  string
	Amount     decimal.Decimal
	ReasonCode string
	Type       string
}

func (i *InvoiceAdjustment) ObjectType() string { return "InvoiceAdjustment" }

func (i *InvoiceAdjustment) ObjectFields() []Field {
	var fields []Field
	fields = appendString(fields, "InvoiceId", i.InvoiceID)
	fields = append(fields, Field{Key: "Amount", Value: i.Amount})
	fields = appendString(fields, "ReasonCode", i.ReasonCode)
	fields = appendString(fields, "Type", i.Type)
	return fields
}

// AmendOptions controls amend processing.
type AmendOptions struct {
	ProcessPayments bool
}

// AmendRequest bundles amendments with their options.
type AmendRequest struct {
	Amendments []Amendment
	Options    AmendOptions
}

// SubscribeOptions controls invoice generation and payment processing on
// subscribe.
type SubscribeOptions struct {
	GenerateInvoice          bool
	ProcessPayments          bool
	InvoiceProcessingOptions *SubscribeInvoiceProcessingOptions
	ExternalPaymentOptions   *ExternalPaymentOptions
}

// SubscribeInvoiceProcessingOptions scopes invoice generation.
type SubscribeInvoiceProcessingOptions struct {
	InvoiceTargetDate      string
	InvoiceProcessingScope string
}

// ExternalPaymentOptions records a payment taken outside the vendor.
type ExternalPaymentOptions struct {
	PaymentMethodID string
	Amount          decimal.Decimal
	EffectiveDate   string
}

// PreviewOptions requests a billing preview instead of a live subscribe.
type PreviewOptions struct {
	EnablePreviewMode bool
	NumberOfPeriods   int
}

// SubscriptionData pairs the subscription with its rate plans.
type SubscriptionData struct {
	Subscription *Subscription
	RatePlanData []RatePlanData
}

// SubscribeRequest bundles everything a subscribe call creates: account,
// contacts, payment method and the subscription itself.
type SubscribeRequest struct {
	Account          *Account
	BillToContact    *Contact
	SoldToContact    *Contact
	PaymentMethod    *Record
	SubscriptionData SubscriptionData
	SubscribeOptions SubscribeOptions
	PreviewOptions   *PreviewOptions
}
