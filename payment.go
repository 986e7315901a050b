package zuora

import (
	"context"
	"fmt"
	"strings"
)

const paymentProjection = `
	AccountID, AccountingCode, Amount, AppliedCreditBalanceAmount,
	AuthTransactionId,
	BankIdentificationNumber, CancelledOn, Comment,
	CreatedById, CreatedDate, EffectiveDate, GatewayOrderId,
	GatewayResponse, GatewayResponseCode, GatewayState,
	MarkedForSubmissionOn,
	PaymentMethodID, PaymentNumber, ReferenceId, RefundAmount,
	SecondPaymentReferenceId, SettledOn, SoftDescriptor,
	Status, SubmittedOn, TransferredToAccounting,
	Type, UpdatedById, UpdatedDate`

const paymentMethodProjection = `
	AccountId, Active,
	CreatedById, CreatedDate,
	CreditCardAddress1, CreditCardAddress2,
	CreditCardCity, CreditCardCountry,
	CreditCardExpirationMonth, CreditCardExpirationYear,
	CreditCardHolderName, CreditCardMaskNumber,
	CreditCardPostalCode, CreditCardState, CreditCardType,
	Email, Name, PaypalBaid, PaypalEmail,
	PaypalPreapprovalKey, PaypalType, Phone, Type`

// GetPayment gets one payment by id.
func (c *Client) GetPayment(ctx context.Context, paymentID string) (*Record, error) {
	qs := fmt.Sprintf(`
		SELECT %s
		FROM Payment
		WHERE Id = '%s'
		`, paymentProjection, paymentID)

	rs, err := c.Query(ctx, qs)
	if err != nil {
		return nil, err
	}
	if len(rs.Records) == 0 {
		return nil, fmt.Errorf("unable to find payment for id %s: %w", paymentID, ErrNotFound)
	}
	return &rs.Records[0], nil
}

// GetPayments gets the payments for an account. A zero filter returns
// nil without querying.
func (c *Client) GetPayments(ctx context.Context, accountID string) ([]Record, error) {
	var filter []string
	if accountID != "" {
		filter = append(filter, fmt.Sprintf("AccountId = '%s'", accountID))
	}
	if len(filter) == 0 {
		return nil, nil
	}

	qs := fmt.Sprintf(`
		SELECT %s
		FROM Payment
		WHERE %s
		`, paymentProjection, strings.Join(filter, " AND "))

	return c.queryAll(ctx, qs)
}

// GetPaymentMethod gets the payment method details.
func (c *Client) GetPaymentMethod(ctx context.Context, paymentMethodID string) (*Record, error) {
	qs := fmt.Sprintf(`
		SELECT %s
		FROM PaymentMethod
		WHERE Id = '%s'
		`, paymentMethodProjection, paymentMethodID)

	rs, err := c.Query(ctx, qs)
	if err != nil {
		return nil, err
	}
	if len(rs.Records) == 0 {
		return nil, fmt.Errorf("unable to find payment method for %s: %w", paymentMethodID, ErrNotFound)
	}
	return &rs.Records[0], nil
}

// GetPaymentMethodsParams filters GetPaymentMethods. AccountNumber wins
// over the other filters and resolves the account's default payment
// method.
type GetPaymentMethodsParams struct {
	AccountID     string
	AccountNumber string
	Email         string
	Phone         string
}

// GetPaymentMethods gets the payment methods matching criteria. A zero
// filter returns an empty list.
func (c *Client) GetPaymentMethods(ctx context.Context, params GetPaymentMethodsParams) ([]Record, error) {
	if params.AccountNumber != "" {
		qs := fmt.Sprintf(`
			SELECT
				DefaultPaymentMethodId
			FROM Account
			WHERE AccountNumber = '%s' OR AccountNumber = 'A-%s'
			`, params.AccountNumber, params.AccountNumber)

		rs, err := c.Query(ctx, qs)
		if err != nil {
			return nil, err
		}
		if len(rs.Records) > 0 {
			value, ok := rs.Records[0].Get("DefaultPaymentMethodId")
			id := stringify(value)
			if !ok || id == "" {
				return []Record{}, nil
			}
			method, err := c.GetPaymentMethod(ctx, id)
			if err != nil {
				return nil, err
			}
			return []Record{*method}, nil
		}
	}

	var filter []string
	if params.AccountID != "" {
		filter = append(filter, fmt.Sprintf("AccountId = '%s'", params.AccountID))
	}
	if params.Email != "" {
		filter = append(filter, fmt.Sprintf("Email = '%s'", params.Email))
	}
	if params.Phone != "" {
		filter = append(filter, fmt.Sprintf("Phone = '%s'", params.Phone))
	}
	if len(filter) == 0 {
		return []Record{}, nil
	}

	qs := fmt.Sprintf(`
		SELECT %s
		FROM PaymentMethod
		WHERE %s
		`, paymentMethodProjection, strings.Join(filter, " AND "))

	return c.queryAll(ctx, qs)
}
