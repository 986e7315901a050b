package zuora

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPaymentNotFound(t *testing.T) {
	c := newTestClient(t, &fakeTransport{})
	_, err := c.GetPayment(context.Background(), "pay-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetPaymentsZeroFilter(t *testing.T) {
	ft := &fakeTransport{}
	c := newTestClient(t, ft)

	records, err := c.GetPayments(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, records)
	assert.Zero(t, ft.loginCalls)
}

func TestGetPaymentMethodsZeroFilter(t *testing.T) {
	ft := &fakeTransport{}
	c := newTestClient(t, ft)

	records, err := c.GetPaymentMethods(context.Background(), GetPaymentMethodsParams{})
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
	assert.Zero(t, ft.loginCalls)
}

func TestGetPaymentMethodsByAccountNumber(t *testing.T) {
	ft := &fakeTransport{queryFn: func(qs string) (*RecordSet, error) {
		switch queriedTable(qs) {
		case "Account":
			return &RecordSet{
				Records: []Record{rec("Account", Field{Key: "DefaultPaymentMethodId", Value: "pm-1"})},
				Done:    true,
			}, nil
		case "PaymentMethod":
			return &RecordSet{
				Records: []Record{rec("PaymentMethod", Field{Key: "Id", Value: "pm-1"})},
				Done:    true,
			}, nil
		}
		return &RecordSet{Done: true}, nil
	}}
	c := newTestClient(t, ft)

	records, err := c.GetPaymentMethods(context.Background(), GetPaymentMethodsParams{
		AccountNumber: "32432",
	})
	require.NoError(t, err)
	require.Len(t, records, 1)

	id, _ := records[0].Get("Id")
	assert.Equal(t, "pm-1", id)

	require.Len(t, ft.queries, 2)
	assert.Contains(t, ft.queries[0], "AccountNumber = '32432' OR AccountNumber = 'A-32432'")
	assert.Contains(t, ft.queries[1], "Id = 'pm-1'")
}

func TestGetPaymentMethodsNoDefaultMethod(t *testing.T) {
	ft := &fakeTransport{queryFn: func(qs string) (*RecordSet, error) {
		return &RecordSet{
			Records: []Record{rec("Account", Field{Key: "DefaultPaymentMethodId", Value: nil})},
			Done:    true,
		}, nil
	}}
	c := newTestClient(t, ft)

	records, err := c.GetPaymentMethods(context.Background(), GetPaymentMethodsParams{
		AccountNumber: "32432",
	})
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestGetPaymentMethodsByEmailAndPhone(t *testing.T) {
	ft := &fakeTransport{}
	c := newTestClient(t, ft)

	_, err := c.GetPaymentMethods(context.Background(), GetPaymentMethodsParams{
		Email: "jd@example.com",
		Phone: "555-0100",
	})
	require.NoError(t, err)
	require.Len(t, ft.queries, 1)
	assert.True(t, strings.HasSuffix(ft.queries[0],
		"WHERE Email = 'jd@example.com' AND Phone = '555-0100'"), ft.queries[0])
}
