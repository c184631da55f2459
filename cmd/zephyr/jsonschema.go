package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reoring/zephyr"
	"github.com/reoring/zephyr/codec"
)

func (a *app) jsonSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "jsonschema",
		Short: "Print the JSON Schema describing the schema's load input",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.loadSchema()
			if err != nil {
				return err
			}
			s, err := zephyr.ExportJSONSchema(t)
			if err != nil {
				return err
			}
			b, err := codec.Encode(a.outputJSON(), s)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, string(b))
			return nil
		},
	}
}
