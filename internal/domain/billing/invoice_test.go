package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hrms/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func draftInvoice(t *testing.T) *Invoice {
	t.Helper()
	invoice, err := NewInvoice(uuid.New(), "INV-2026-001", uuid.New(), time.Now(), InvoiceAmountsInput{
		Subtotal: valueobject.NewMoneyINR(decimal.NewFromInt(10000)),
		CGSTRate: decimal.NewFromInt(9),
		SGSTRate: decimal.NewFromInt(9),
		IGSTRate: decimal.Zero,
	})
	require.NoError(t, err)
	return invoice
}

func TestNewInvoice(t *testing.T) {
	t.Run("computes GST amounts and grand total", func(t *testing.T) {
		invoice := draftInvoice(t)
		assert.Equal(t, InvoiceStatusDraft, invoice.Status)
		assert.Equal(t, "900.00", invoice.CGSTAmount.StringFixed(2))
		assert.Equal(t, "900.00", invoice.SGSTAmount.StringFixed(2))
		assert.Equal(t, "0.00", invoice.IGSTAmount.StringFixed(2))
		assert.Equal(t, "11800.00", invoice.GrandTotal.StringFixed(2))
	})

	t.Run("rejects empty number", func(t *testing.T) {
		_, err := NewInvoice(uuid.New(), "  ", uuid.New(), time.Now(), InvoiceAmountsInput{
			Subtotal: valueobject.ZeroINR(),
		})
		assert.Error(t, err)
	})

	t.Run("rejects negative subtotal", func(t *testing.T) {
		_, err := NewInvoice(uuid.New(), "INV-1", uuid.New(), time.Now(), InvoiceAmountsInput{
			Subtotal: valueobject.NewMoneyINR(decimal.NewFromInt(-1)),
		})
		assert.Error(t, err)
	})

	t.Run("rejects out-of-range tax rate", func(t *testing.T) {
		_, err := NewInvoice(uuid.New(), "INV-1", uuid.New(), time.Now(), InvoiceAmountsInput{
			Subtotal: valueobject.NewMoneyINR(decimal.NewFromInt(100)),
			CGSTRate: decimal.NewFromInt(120),
		})
		assert.Error(t, err)
	})
}

func TestInvoiceStatusMachine(t *testing.T) {
	t.Run("draft to generated to sent", func(t *testing.T) {
		invoice := draftInvoice(t)
		require.NoError(t, invoice.MarkGenerated("/invoices/INV-2026-001.pdf"))
		assert.Equal(t, InvoiceStatusGenerated, invoice.Status)

		require.NoError(t, invoice.MarkSent())
		assert.Equal(t, InvoiceStatusSent, invoice.Status)
	})

	t.Run("cannot send a draft", func(t *testing.T) {
		invoice := draftInvoice(t)
		assert.Error(t, invoice.MarkSent())
	})

	t.Run("send is idempotent", func(t *testing.T) {
		invoice := draftInvoice(t)
		require.NoError(t, invoice.MarkGenerated("/invoices/x.pdf"))
		require.NoError(t, invoice.MarkSent())
		invoice.ClearDomainEvents()

		require.NoError(t, invoice.MarkSent())
		assert.Equal(t, InvoiceStatusSent, invoice.Status)
		assert.Empty(t, invoice.GetDomainEvents())
	})

	t.Run("regeneration replaces document while generated", func(t *testing.T) {
		invoice := draftInvoice(t)
		require.NoError(t, invoice.MarkGenerated("/invoices/v1.pdf"))
		require.NoError(t, invoice.MarkGenerated("/invoices/v2.pdf"))
		assert.Equal(t, "/invoices/v2.pdf", invoice.DocumentURL)
	})

	t.Run("sent invoice cannot be regenerated", func(t *testing.T) {
		invoice := draftInvoice(t)
		require.NoError(t, invoice.MarkGenerated("/invoices/v1.pdf"))
		require.NoError(t, invoice.MarkSent())
		assert.Error(t, invoice.MarkGenerated("/invoices/v2.pdf"))
	})
}

func TestInvoiceEditability(t *testing.T) {
	t.Run("draft is editable and deletable", func(t *testing.T) {
		invoice := draftInvoice(t)
		assert.True(t, invoice.IsEditable())
		assert.True(t, invoice.IsDeletable())

		err := invoice.UpdateAmounts(InvoiceAmountsInput{
			Subtotal: valueobject.NewMoneyINR(decimal.NewFromInt(20000)),
			IGSTRate: decimal.NewFromInt(18),
		})
		require.NoError(t, err)
		assert.Equal(t, "23600.00", invoice.GrandTotal.StringFixed(2))
	})

	t.Run("generated invoice rejects edits", func(t *testing.T) {
		invoice := draftInvoice(t)
		require.NoError(t, invoice.MarkGenerated("/invoices/x.pdf"))
		assert.False(t, invoice.IsEditable())
		assert.False(t, invoice.IsDeletable())

		err := invoice.UpdateAmounts(InvoiceAmountsInput{
			Subtotal: valueobject.NewMoneyINR(decimal.NewFromInt(1)),
		})
		assert.Error(t, err)
		assert.Error(t, invoice.SetCandidates([]uuid.UUID{uuid.New()}))
		assert.Error(t, invoice.SetIssueDate(time.Now()))
	})
}

func TestInvoiceCandidateSnapshot(t *testing.T) {
	invoice := draftInvoice(t)
	ids := []uuid.UUID{uuid.New(), uuid.New()}
	require.NoError(t, invoice.SetCandidates(ids))
	assert.Equal(t, ids, invoice.CandidateIDs)

	invoice.SetClientSnapshot([]byte(`{"client_name":"Globex Ltd"}`))
	assert.JSONEq(t, `{"client_name":"Globex Ltd"}`, string(invoice.ClientSnapshot))
}
