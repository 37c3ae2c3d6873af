// Package billing provides domain models for client invoicing.
//
// An Invoice is a company-scoped billing document for a staffing client.
// It moves through a small lifecycle: DRAFT invoices are fully editable,
// generating the PDF moves them to GENERATED, and sending freezes them as
// SENT. Amounts are entered manually; the GST breakdown (CGST/SGST/IGST)
// is derived from rates applied to the subtotal.
//
// Invoices freeze the client snapshot and billed candidate ids at
// generation time so later edits to staffing records do not rewrite
// issued documents.
package billing
