package tables

import "github.com/JonMunkholm/sheetmap/internal/schema"

func init() {
	registerSfdcContacts()
}

func registerSfdcContacts() {
	schema.Register(schema.Definition{
		Key:   "sfdc_contacts",
		Group: "SFDC",
		Label: "Contacts",
		Table: "contacts",
		Fields: []schema.FieldDef{
			{Name: "account_id", Column: "Account ID"},
			{Name: "name", Column: "Name", Required: true, Normalize: []string{"trim"}},
			{Name: "email", Column: "Email", Normalize: []string{"trim", "lower"}},
			{Name: "age", Type: "int", Column: "Age"},
			{Name: "state", Column: "State", Normalize: []string{"us_state"}},
			{Name: "opted_out", Type: "bool", Column: "Email Opt Out"},
			{Name: "last_activity", Type: "date", Column: "Last Activity"},
		},
	})
}
