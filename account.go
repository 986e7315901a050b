package zuora

import (
	"context"
	"fmt"
	"time"
)

// User identifies the application-side user an account is created for.
type User struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
}

// Address carries billing or shipping address fields.
type Address struct {
	FirstName   string
	LastName    string
	Street1     string
	Street2     string
	City        string
	State       string
	PostalCode  string
	CountryCode string
	Phone       string
}

// GetAccount looks up the account for a user id. Accounts are stored
// under either the bare user id or the A- prefixed form.
func (c *Client) GetAccount(ctx context.Context, userID string) (*Record, error) {
	qs := fmt.Sprintf(`
		SELECT Id FROM Account
		WHERE AccountNumber = '%s' OR AccountNumber = 'A-%s'
		`, userID, userID)

	rs, err := c.Query(ctx, qs)
	if err != nil {
		return nil, err
	}
	if len(rs.Records) == 0 {
		return nil, fmt.Errorf("unable to find account for user id %s: %w", userID, ErrNotFound)
	}
	return &rs.Records[0], nil
}

// MakeAccountParams configures MakeAccount.
type MakeAccountParams struct {
	User           *User
	Currency       string // defaults to the configured currency
	Status         string // defaults to Draft
	Lazy           bool   // build the payload without creating it
	SiteName       string
	BillingAddress *Address
}

// MakeAccount builds and creates a customer account. The account is the
// source of a recurring invoice stream; it must exist before a
// subscription can be entered.
func (c *Client) MakeAccount(ctx context.Context, params MakeAccountParams) (*Account, error) {
	if params.User == nil {
		return nil, fmt.Errorf("no user selected: %w", ErrMissingRequired)
	}
	currency := params.Currency
	if currency == "" {
		currency = c.cfg.Currency
	}
	if currency == "" {
		currency = "USD"
	}
	status := params.Status
	if status == "" {
		status = "Draft"
	}

	today := time.Now()

	account := &Account{
		AccountNumber:    "A-" + params.User.ID,
		AllowInvoiceEdit: boolPtr(true),
		// AutoPay must be false at creation time; CreateActiveAccount
		// flips it once a payment method is attached.
		AutoPay:      boolPtr(false),
		Batch:        "Batch1",
		BillCycleDay: today.Day(),
		CrmID:        params.User.ID,
		Currency:     currency,
		PaymentTerm:  "Due Upon Receipt",
		Status:       status,
	}

	if addr := params.BillingAddress; addr != nil && addr.LastName != "" && addr.FirstName != "" {
		account.Name = truncate(fmt.Sprintf("%s, %s", addr.LastName, addr.FirstName), 50)
	} else {
		account.Name = truncate(fmt.Sprintf("%s, %s",
			nameOrUnderscore(params.User.LastName),
			nameOrUnderscore(params.User.FirstName)), 50)
	}

	if c.cfg.GatewayName != "" {
		account.PaymentGateway = c.cfg.GatewayName
	}
	if c.cfg.TestUsers {
		account.TestAccount = true
		account.UserSite = "staging"
	}
	if params.SiteName != "" {
		account.UserSite = params.SiteName
	}

	if params.Lazy {
		return account, nil
	}

	results, err := c.Create(ctx, account)
	if err != nil {
		return nil, err
	}
	if err := checkSaveResults("create account", results); err != nil {
		return nil, err
	}
	account.ID = results[0].ID
	return account, nil
}

// UpdateAccount applies a sparse account update. account.ID is required.
func (c *Client) UpdateAccount(ctx context.Context, account *Account) ([]SaveResult, error) {
	if account == nil || account.ID == "" {
		return nil, fmt.Errorf("no account id for update: %w", ErrMissingRequired)
	}
	results, err := c.Update(ctx, account)
	if err != nil {
		return nil, err
	}
	if err := checkSaveResults("update account", results); err != nil {
		return nil, err
	}
	return results, nil
}

// CreateActiveAccountParams configures CreateActiveAccount.
type CreateActiveAccountParams struct {
	Account         *Account
	Contact         *Contact
	PaymentMethodID string
	User            *User
	BillingAddress  *Address
	ShippingAddress *Address
	SiteName        string
	Prepaid         bool
}

// ActiveAccount is the result of CreateActiveAccount.
type ActiveAccount struct {
	Account         *Account
	Contact         *Contact
	ShippingContact *Contact
	PaymentMethod   *Record
}

// CreateActiveAccount creates an account ready for Subscribe: draft
// account, bill-to contact, optional shipping contact and payment
// method, then activates the account.
//
// The steps are individual remote calls; a failure part-way leaves the
// objects already created in place. There is no compensating rollback.
func (c *Client) CreateActiveAccount(ctx context.Context, params CreateActiveAccountParams) (*ActiveAccount, error) {
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
	if contact == nil {
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

	var shippingContact *Contact
	if params.ShippingAddress != nil {
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

	var paymentMethod *Record
	if params.PaymentMethodID != "" {
		var err error
		paymentMethod, err = c.GetPaymentMethod(ctx, params.PaymentMethodID)
		if err != nil {
			return nil, err
		}
	}

	update := &Account{
		ID:       account.ID,
		Status:   "Active",
		BillToID: contact.ID,
	}
	if shippingContact != nil {
		update.SoldToID = shippingContact.ID
	} else {
		update.SoldToID = contact.ID
	}
	// Without a payment method AutoPay must stay off.
	if params.PaymentMethodID != "" && !params.Prepaid {
		update.DefaultPaymentMethodID = params.PaymentMethodID
		update.AutoPay = boolPtr(true)
	} else {
		update.AutoPay = boolPtr(false)
	}

	if _, err := c.UpdateAccount(ctx, update); err != nil {
		return nil, err
	}

	return &ActiveAccount{
		Account:         account,
		Contact:         contact,
		ShippingContact: shippingContact,
		PaymentMethod:   paymentMethod,
	}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
