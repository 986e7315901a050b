package zuora

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// GetInvoice gets one invoice by id.
func (c *Client) GetInvoice(ctx context.Context, invoiceID string) (*Record, error) {
	qs := fmt.Sprintf(`
		SELECT
			AccountID, AdjustmentAmount, Amount,
			Balance, CreatedDate, DueDate,
			IncludesOneTime, IncludesRecurring, IncludesUsage,
			InvoiceDate, InvoiceNumber,
			PaymentAmount, RefundAmount, Status,
			TargetDate
		FROM Invoice
		WHERE Id = '%s'
		`, invoiceID)

	rs, err := c.Query(ctx, qs)
	if err != nil {
		return nil, err
	}
	if len(rs.Records) == 0 {
		return nil, fmt.Errorf("unable to find invoice for id %s: %w", invoiceID, ErrNotFound)
	}
	return &rs.Records[0], nil
}

// GetInvoicePDF gets the invoice PDF as a base64 encoded string.
func (c *Client) GetInvoicePDF(ctx context.Context, invoiceID string) (string, error) {
	qs := fmt.Sprintf(`
		SELECT
			Body
		FROM Invoice
		WHERE Id = '%s'
		`, invoiceID)

	rs, err := c.Query(ctx, qs)
	if err != nil {
		return "", err
	}
	if len(rs.Records) == 0 {
		return "", fmt.Errorf("unable to find invoice for id %s: %w", invoiceID, ErrNotFound)
	}
	body, _ := rs.Records[0].Get("Body")
	return stringify(body), nil
}

// GetInvoices gets the invoices for an account. A zero filter returns
// nil without querying.
func (c *Client) GetInvoices(ctx context.Context, accountID string) ([]Record, error) {
	var filter []string
	if accountID != "" {
		filter = append(filter, fmt.Sprintf("AccountId = '%s'", accountID))
	}
	if len(filter) == 0 {
		return nil, nil
	}

	qs := fmt.Sprintf(`
		SELECT
			AccountID, AdjustmentAmount, Amount,
			Balance, CreatedDate, DueDate,
			IncludesOneTime, IncludesRecurring, IncludesUsage,
			InvoiceDate, InvoiceNumber,
			PaymentAmount, RefundAmount, Status,
			TargetDate
		FROM Invoice
		WHERE %s
		`, strings.Join(filter, " AND "))

	return c.queryAll(ctx, qs)
}

// GetInvoiceItems gets the invoice items matching criteria. A zero
// filter returns nil without querying.
func (c *Client) GetInvoiceItems(ctx context.Context, invoiceID, subscriptionID string) ([]Record, error) {
	var filter []string
	if invoiceID != "" {
		filter = append(filter, fmt.Sprintf("InvoiceId = '%s'", invoiceID))
	}
	if subscriptionID != "" {
		filter = append(filter, fmt.Sprintf("SubscriptionId = '%s'", subscriptionID))
	}
	if len(filter) == 0 {
		return nil, nil
	}

	qs := fmt.Sprintf(`
		SELECT
			AccountingCode, ChargeAmount, ChargeDate,
			ChargeDescription, ChargeName, ChargeNumber,
			CreatedById, CreatedDate, InvoiceId,
			ProcessingType, ProductDescription, ProductId,
			ProductName, Quantity, RatePlanChargeId,
			RevRecCode, RevRecStartDate, RevRecTriggerCondition,
			ServiceEndDate, ServiceStartDate, SKU,
			SubscriptionId, SubscriptionNumber,
			TaxAmount, TaxCode, TaxExemptAmount, UnitPrice, UOM,
			UpdatedById, UpdatedDate
		FROM InvoiceItem
		WHERE %s
		`, strings.Join(filter, " AND "))

	return c.queryAll(ctx, qs)
}

// GetInvoicePayment gets one invoice payment by id.
func (c *Client) GetInvoicePayment(ctx context.Context, invoicePaymentID string) (*Record, error) {
	qs := fmt.Sprintf(`
		SELECT
			Amount, CreatedById, CreatedDate, InvoiceId, PaymentId,
			RefundAmount, UpdatedById, UpdatedDate
		FROM InvoicePayment
		WHERE Id = '%s'
		`, invoicePaymentID)

	rs, err := c.Query(ctx, qs)
	if err != nil {
		return nil, err
	}
	if len(rs.Records) == 0 {
		return nil, fmt.Errorf("unable to find invoice payment for id %s: %w", invoicePaymentID, ErrNotFound)
	}
	return &rs.Records[0], nil
}

// GetInvoicePayments gets the invoice payments matching criteria. A
// zero filter returns nil without querying.
func (c *Client) GetInvoicePayments(ctx context.Context, invoiceID, paymentID string) ([]Record, error) {
	var filter []string
	if invoiceID != "" {
		filter = append(filter, fmt.Sprintf("InvoiceId = '%s'", invoiceID))
	}
	if paymentID != "" {
		filter = append(filter, fmt.Sprintf("PaymentId = '%s'", paymentID))
	}
	if len(filter) == 0 {
		return nil, nil
	}

	qs := fmt.Sprintf(`
		SELECT
			Amount, CreatedById, CreatedDate, InvoiceId, PaymentId,
			RefundAmount, UpdatedById, UpdatedDate
		FROM InvoicePayment
		WHERE %s
		`, strings.Join(filter, " AND "))

	return c.queryAll(ctx, qs)
}

// ApplyInvoiceAdjustment writes off part of an invoice. A positive
// amount becomes a credit, a negative one a debit.
func (c *Client) ApplyInvoiceAdjustment(ctx context.Context, invoiceID string, amount decimal.Decimal) ([]SaveResult, error) {
	adjustment := &InvoiceAdjustment{
		InvoiceID:  invoiceID,
		Amount:     amount,
		ReasonCode: "Write-off",
	}
	if amount.IsPositive() {
		adjustment.Type = "Credit"
	} else {
		adjustment.Type = "Debit"
	}

	results, err := c.Create(ctx, adjustment)
	if err != nil {
		return nil, err
	}
	if err := checkSaveResults("invoice adjustment", results); err != nil {
		return nil, err
	}
	return results, nil
}
