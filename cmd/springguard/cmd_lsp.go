package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/springguard/lsp"
	"github.com/dhamidi/springguard/project"
)

func newLSPCmd() *cobra.Command {
	var parserName string

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			parse, err := project.Parser(parserName)
			if err != nil {
				return err
			}
			return lsp.NewServer(version, parse).RunStdio()
		},
	}

	cmd.Flags().StringVar(&parserName, "parser", project.ParserNative, "Java parser")

	return cmd
}
