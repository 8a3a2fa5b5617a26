package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/springguard/format"
	"github.com/dhamidi/springguard/java/parser"
)

func newParseCmd() *cobra.Command {
	var includeComments bool

	cmd := &cobra.Command{
		Use:   "parse <file.java>",
		Short: "Dump the syntax tree of a Java file as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			data, err := os.ReadFile(filename)
			if err != nil {
				return fmt.Errorf("read java file: %w", err)
			}

			opts := []parser.Option{parser.WithFile(filename)}
			if includeComments {
				opts = append(opts, parser.WithComments())
			}
			node, err := parser.ParseCompilationUnit(bytes.NewReader(data), opts...).Finish()
			if err != nil {
				return fmt.Errorf("parse java file: %w", err)
			}

			if err := format.NewTreeEncoder(cmd.OutOrStdout(), filename).Encode(node); err != nil {
				return fmt.Errorf("encode json: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&includeComments, "comments", false, "keep comments in the tree")

	return cmd
}
