package tables

import "github.com/JonMunkholm/sheetmap/internal/schema"

func init() {
	registerNsCustomers()
	registerNsInvoiceDetail()
}

func registerNsCustomers() {
	schema.Register(schema.Definition{
		Key:   "ns_customers",
		Group: "NS",
		Label: "Customers",
		Fields: []schema.FieldDef{
			{Name: "salesforce_id_io", Column: "salesforce_id_io"},
			{Name: "internal_id", Column: "internal_id", Required: true},
			{Name: "name", Column: "name"},
			{Name: "duplicate", Type: "bool", Column: "duplicate"},
			{Name: "company_name", Column: "company_name"},
			{Name: "balance", Type: "float", Column: "balance"},
			{Name: "unbilled_orders", Type: "float", Column: "unbilled_orders"},
			{Name: "overdue_balance", Type: "float", Column: "overdue_balance"},
			{Name: "days_overdue", Type: "int", Column: "days_overdue"},
		},
	})
}

func registerNsInvoiceDetail() {
	schema.Register(schema.Definition{
		Key:   "ns_invoice_detail",
		Group: "NS",
		Label: "Invoice Detail",
		Fields: []schema.FieldDef{
			{Name: "sfdc_opp_id", Column: "sfdc_opp_id"},
			{Name: "sfdc_opp_line_id", Column: "sfdc_opp_line_id"},
			{Name: "customer_internal_id", Column: "customer_internal_id"},
			{Name: "type", Column: "type"},
			{Name: "date", Type: "date", Column: "date"},
			{Name: "date_due", Type: "date", Column: "date_due"},
			{Name: "document_number", Column: "document_number", Required: true},
			{Name: "memo", Column: "memo"},
			{Name: "item", Column: "item"},
			{Name: "qty", Type: "float", Column: "qty"},
			{Name: "unit_price", Type: "float", Column: "unit_price"},
			{Name: "amount", Type: "float", Column: "amount"},
			{Name: "shipping_address_state", Column: "shipping_address_state", Normalize: []string{"us_state"}},
			{Name: "shipping_address_country", Column: "shipping_address_country"},
		},
	})
}
