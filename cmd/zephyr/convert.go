package main

import (
	"github.com/spf13/cobra"

	"github.com/reoring/zephyr/codec"
)

func (a *app) convertCmd() *cobra.Command {
	var to string
	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Load a document, dump it back and encode it in another format",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := codec.ForName(to)
			if err != nil {
				return err
			}
			if out.Name() == "json" {
				out = a.outputJSON()
			}
			t, err := a.loadSchema()
			if err != nil {
				return err
			}
			data, err := a.readInput(args)
			if err != nil {
				return err
			}
			v, err := t.Load(cmd.Context(), data)
			if err != nil {
				return err
			}
			plain, err := t.Dump(cmd.Context(), v)
			if err != nil {
				return err
			}
			a.debugValue(cmd.Context(), "dumped", plain)
			b, err := codec.Encode(out, codec.ResolveNumbers(plain))
			if err != nil {
				return err
			}
			_, err = a.out.Write(b)
			return err
		},
	}
	cmd.Flags().StringVarP(&to, "to", "t", "json", "Output format: json, yaml or msgpack")
	return cmd
}
