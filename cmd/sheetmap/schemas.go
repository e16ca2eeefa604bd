package main

import (
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/sheetmap/internal/schema"
)

type schemaListing struct {
	Key    string   `json:"key"`
	Group  string   `json:"group"`
	Label  string   `json:"label"`
	Table  string   `json:"table"`
	Fields []string `json:"fields"`
}

func newSchemasCmd() *cobra.Command {
	var (
		pretty bool
		group  string
	)

	cmd := &cobra.Command{
		Use:   "schemas",
		Short: "List registered schemas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tables := schema.All()
			if group != "" {
				tables = schema.ByGroup(group)
			}
			out := make([]schemaListing, len(tables))
			for i, t := range tables {
				out[i] = schemaListing{
					Key:    t.Key,
					Group:  t.Group,
					Label:  t.Label,
					Table:  t.TableName(),
					Fields: t.FieldNames(),
				}
			}
			return writeJSON(cmd.OutOrStdout(), out, pretty)
		},
	}
	cmd.Flags().BoolVar(&pretty, "pretty", false, "pretty-print JSON output")
	cmd.Flags().StringVar(&group, "group", "", "only list schemas of this group, e.g. NS")
	return cmd
}
