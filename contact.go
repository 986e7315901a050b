package zuora

import (
	"context"
	"fmt"
	"strings"
)

// GetContact looks up a contact by account id and/or personal email. At
// least one filter is required; both are AND-combined when supplied.
func (c *Client) GetContact(ctx context.Context, email, accountID string) (*Record, error) {
	var filter []string
	if accountID != "" {
		filter = append(filter, fmt.Sprintf("AccountId = '%s'", accountID))
	}
	if email != "" {
		filter = append(filter, fmt.Sprintf("PersonalEmail = '%s'", email))
	}
	if len(filter) == 0 {
		return nil, fmt.Errorf("contact lookup needs an account id or email: %w", ErrMissingRequired)
	}

	qs := fmt.Sprintf(`
		SELECT
			AccountId, Address1, Address2, City, Country, County,
			CreatedById, CreatedDate, Description, Fax, FirstName,
			HomePhone, Id, LastName, MobilePhone, NickName, OtherPhone,
			OtherPhoneType, PersonalEmail, PostalCode, State, TaxRegion,
			UpdatedById, UpdatedDate, WorkEmail, WorkPhone
		FROM Contact
		WHERE %s
		`, strings.Join(filter, " AND "))

	rs, err := c.Query(ctx, qs)
	if err != nil {
		return nil, err
	}
	if len(rs.Records) == 0 {
		return nil, fmt.Errorf("unable to find contact for email %s: %w", email, ErrNotFound)
	}
	return &rs.Records[0], nil
}

// MakeContactParams configures MakeContact.
type MakeContactParams struct {
	User           *User
	BillingAddress *Address
	Account        *Account
	Lazy           bool
}

// MakeContact builds and creates the contact (the end user) for an
// account. Both the bill-to and sold-to contacts are created this way.
func (c *Client) MakeContact(ctx context.Context, params MakeContactParams) (*Contact, error) {
	if params.User == nil {
		return nil, fmt.Errorf("no user selected: %w", ErrMissingRequired)
	}

	contact := &Contact{}
	if addr := params.BillingAddress; addr != nil {
		// First and last name must never be empty.
		contact.FirstName = nameOrUnderscore(addr.FirstName)
		contact.LastName = nameOrUnderscore(addr.LastName)
		contact.Address1 = addr.Street1
		contact.Address2 = addr.Street2
		contact.City = addr.City
		contact.State = addr.State
		contact.PostalCode = addr.PostalCode
		contact.Country = addr.CountryCode
		contact.HomePhone = addr.Phone
	} else {
		contact.FirstName = nameOrUnderscore(params.User.FirstName)
		contact.LastName = nameOrUnderscore(params.User.LastName)
	}
	contact.PersonalEmail = params.User.Email

	if params.Account != nil && params.Account.ID != "" {
		contact.AccountID = params.Account.ID
	}

	if params.Lazy {
		return contact, nil
	}

	results, err := c.Create(ctx, contact)
	if err != nil {
		return nil, err
	}
	if err := checkSaveResults("create contact", results); err != nil {
		return nil, err
	}
	contact.ID = results[0].ID
	return contact, nil
}
