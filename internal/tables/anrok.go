package tables

import "github.com/JonMunkholm/sheetmap/internal/schema"

func init() {
	registerAnrokTransactions()
}

// Anrok exports use human-readable headers.
func registerAnrokTransactions() {
	schema.Register(schema.Definition{
		Key:   "anrok_transactions",
		Group: "Anrok",
		Label: "Transactions",
		Fields: []schema.FieldDef{
			{Name: "transaction_id", Column: "Transaction ID", Required: true},
			{Name: "customer_id", Column: "Customer ID"},
			{Name: "customer_name", Column: "Customer name", Normalize: []string{"trim"}},
			{Name: "overall_vat_id_status", Column: "Overall VAT ID validation status"},
			{Name: "valid_vat_ids", Column: "Valid VAT IDs"},
			{Name: "other_vat_ids", Column: "Other VAT IDs"},
			{Name: "invoice_date", Type: "date", Column: "Invoice date"},
			{Name: "tax_date", Type: "date", Column: "Tax date"},
			{Name: "transaction_currency", Column: "Transaction currency", Normalize: []string{"trim", "upper"}},
			{Name: "sales_amount", Type: "float", Column: "Sales amount"},
			{Name: "exempt_reason", Column: "Exempt reasons"},
			{Name: "tax_amount", Type: "float", Column: "Tax amount"},
			{Name: "invoice_amount", Type: "float", Column: "Invoice amount"},
			{Name: "void", Type: "bool", Column: "Void"},
			{Name: "customer_address_line1", Column: "Customer address line 1"},
			{Name: "customer_address_city", Column: "Customer address city"},
			{Name: "customer_address_region", Column: "Customer address region", Normalize: []string{"us_state"}},
			{Name: "customer_address_postal_code", Column: "Customer address postal code"},
			{Name: "customer_address_country", Column: "Customer address country"},
			{Name: "customer_country_code", Column: "Customer country code", Normalize: []string{"trim", "upper"}},
			{Name: "jurisdictions", Column: "Jurisdictions"},
			{Name: "jurisdiction_ids", Column: "Jurisdictions IDs"},
			{Name: "return_ids", Column: "Return IDs"},
		},
	})
}
