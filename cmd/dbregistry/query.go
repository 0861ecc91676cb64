package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/joestump/dbregistry"
	"github.com/spf13/cobra"
)

func newQueryCmd() *cobra.Command {
	var params []string

	cmd := &cobra.Command{
		Use:   "query <connection> <sql>",
		Short: "Run a query and print the recordset",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := dbregistry.Open(resolveConfigPath())
			if err != nil {
				return err
			}

			p, err := parseParams(params)
			if err != nil {
				return err
			}

			rs, err := reg.Recordset(cmd.Context(), args[0], args[1], p)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			for i, col := range rs.Columns {
				if i > 0 {
					fmt.Fprint(w, "\t")
				}
				fmt.Fprint(w, col)
			}
			fmt.Fprintln(w)
			for _, row := range rs.Rows {
				for i, val := range row {
					if i > 0 {
						fmt.Fprint(w, "\t")
					}
					fmt.Fprintf(w, "%v", val)
				}
				fmt.Fprintln(w)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "named parameter key=value (repeatable)")
	return cmd
}
