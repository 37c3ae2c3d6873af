package printing

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// InvoiceParty holds the billing details of one side of an invoice.
type InvoiceParty struct {
	Name    string
	Address string
	GSTIN   string
	PAN     string
	Email   string
	Phone   string
}

// InvoiceBankDetails holds the payee bank account shown on the invoice.
type InvoiceBankDetails struct {
	AccountName   string
	AccountNumber string
	IFSC          string
}

// InvoiceDocumentData is everything the invoice template needs. Amounts
// arrive pre-formatted; the template does no arithmetic.
type InvoiceDocumentData struct {
	Number    string
	IssueDate string

	Company InvoiceParty
	Client  InvoiceParty

	LogoURL      string
	SignatureURL string

	Columns []string
	Rows    [][]string

	Subtotal   string
	CGSTRate   string
	CGSTAmount string
	SGSTRate   string
	SGSTAmount string
	IGSTRate   string
	IGSTAmount string
	GrandTotal string

	Bank InvoiceBankDetails
}

var titleCaser = cases.Title(language.English)

// ColumnDisplayLabel turns a column key like "candidate_name" into a
// printable heading like "Candidate Name".
func ColumnDisplayLabel(key string) string {
	return titleCaser.String(strings.ReplaceAll(key, "_", " "))
}

var invoiceTemplate = template.Must(template.New("invoice").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>Invoice {{.Number}}</title>
<style>
  body { font-family: Helvetica, Arial, sans-serif; font-size: 12px; color: #1a1a1a; }
  .header { display: flex; justify-content: space-between; align-items: flex-start; margin-bottom: 24px; }
  .header img.logo { max-height: 64px; }
  h1 { font-size: 20px; margin: 0 0 4px 0; }
  .muted { color: #666; }
  .parties { display: flex; justify-content: space-between; margin-bottom: 24px; }
  .party { width: 48%; }
  .party h3 { margin: 0 0 6px 0; font-size: 13px; border-bottom: 1px solid #ddd; padding-bottom: 4px; }
  table.lines { width: 100%; border-collapse: collapse; margin-bottom: 16px; }
  table.lines th, table.lines td { border: 1px solid #ccc; padding: 6px 8px; text-align: left; }
  table.lines th { background: #f4f4f4; }
  table.totals { margin-left: auto; border-collapse: collapse; }
  table.totals td { padding: 4px 12px; }
  table.totals tr.grand td { font-weight: bold; border-top: 2px solid #1a1a1a; }
  .bank { margin-top: 32px; font-size: 11px; }
  .signature { margin-top: 48px; text-align: right; }
  .signature img { max-height: 56px; }
</style>
</head>
<body>
  <div class="header">
    <div>
      <h1>Tax Invoice</h1>
      <div>Invoice No: <strong>{{.Number}}</strong></div>
      <div>Date: {{.IssueDate}}</div>
    </div>
    {{if .LogoURL}}<img class="logo" src="{{.LogoURL}}" alt="logo">{{end}}
  </div>

  <div class="parties">
    <div class="party">
      <h3>From</h3>
      <div><strong>{{.Company.Name}}</strong></div>
      <div>{{.Company.Address}}</div>
      {{if .Company.GSTIN}}<div>GSTIN: {{.Company.GSTIN}}</div>{{end}}
      {{if .Company.PAN}}<div>PAN: {{.Company.PAN}}</div>{{end}}
      {{if .Company.Email}}<div>{{.Company.Email}}</div>{{end}}
      {{if .Company.Phone}}<div>{{.Company.Phone}}</div>{{end}}
    </div>
    <div class="party">
      <h3>Bill To</h3>
      <div><strong>{{.Client.Name}}</strong></div>
      <div>{{.Client.Address}}</div>
      {{if .Client.GSTIN}}<div>GSTIN: {{.Client.GSTIN}}</div>{{end}}
      {{if .Client.PAN}}<div>PAN: {{.Client.PAN}}</div>{{end}}
    </div>
  </div>

  {{if .Rows}}
  <table class="lines">
    <thead>
      <tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr>
    </thead>
    <tbody>
      {{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
      {{end}}
    </tbody>
  </table>
  {{end}}

  <table class="totals">
    <tr><td>Subtotal</td><td>{{.Subtotal}}</td></tr>
    {{if .CGSTAmount}}<tr><td>CGST ({{.CGSTRate}}%)</td><td>{{.CGSTAmount}}</td></tr>{{end}}
    {{if .SGSTAmount}}<tr><td>SGST ({{.SGSTRate}}%)</td><td>{{.SGSTAmount}}</td></tr>{{end}}
    {{if .IGSTAmount}}<tr><td>IGST ({{.IGSTRate}}%)</td><td>{{.IGSTAmount}}</td></tr>{{end}}
    <tr class="grand"><td>Grand Total</td><td>{{.GrandTotal}}</td></tr>
  </table>

  {{if .Bank.AccountNumber}}
  <div class="bank">
    <strong>Bank Details</strong><br>
    Account Name: {{.Bank.AccountName}}<br>
    Account Number: {{.Bank.AccountNumber}}<br>
    IFSC: {{.Bank.IFSC}}
  </div>
  {{end}}

  <div class="signature">
    {{if .SignatureURL}}<img src="{{.SignatureURL}}" alt="signature"><br>{{end}}
    <div class="muted">Authorised Signatory</div>
  </div>
</body>
</html>
`))

// RenderInvoiceHTML renders the invoice document template.
func RenderInvoiceHTML(data InvoiceDocumentData) (string, error) {
	var buf bytes.Buffer
	if err := invoiceTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render invoice template: %w", err)
	}
	return buf.String(), nil
}
