package main

import (
	"log/slog"

	"github.com/joestump/dbregistry"
	"github.com/spf13/cobra"
)

func newExecCmd() *cobra.Command {
	var params []string

	cmd := &cobra.Command{
		Use:   "exec <connection> <sql>",
		Short: "Execute a statement inside a transaction",
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

			if err := reg.Execute(cmd.Context(), args[0], args[1], p); err != nil {
				return err
			}

			slog.Info("statement committed", "connection", args[0])
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "named parameter key=value (repeatable)")
	return cmd
}
