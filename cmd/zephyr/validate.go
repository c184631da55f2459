package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reoring/zephyr"
	"github.com/reoring/zephyr/codec"
)

func (a *app) validateCmd() *cobra.Command {
	var flat bool
	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Check a document against the schema",
		Long: `Loads the document and prints every problem found, keyed by field name or
index. Exits with status 1 when the document is invalid.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.loadSchema()
			if err != nil {
				return err
			}
			data, err := a.readInput(args)
			if err != nil {
				return err
			}
			v, err := t.Load(cmd.Context(), data)
			if err == nil {
				a.debugValue(cmd.Context(), "loaded", v)
				fmt.Fprintln(a.out, "valid")
				return nil
			}
			ve, ok := zephyr.AsValidationError(err)
			if !ok {
				return err
			}
			issues := ve.Issues()
			a.log.Info("validation failed", "issues", len(issues))
			if flat {
				for _, is := range issues {
					fmt.Fprintf(a.out, "%s: %s\n", is.Path, is.Message)
				}
				return errInvalid
			}
			b, err := codec.Encode(a.outputJSON(), messageTree(ve))
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, string(b))
			return errInvalid
		},
	}
	cmd.Flags().BoolVar(&flat, "flat", false, "Print one path: message line per problem")
	return cmd
}
