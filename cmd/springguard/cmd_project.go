package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/springguard/project"
)

func newProjectCmd() *cobra.Command {
	var flags scanFlags

	cmd := &cobra.Command{
		Use:   "project <path>",
		Short: "Show the detected modules and source roots",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errMissingPath
			}
			cfg, err := flags.config(cmd, args[0])
			if err != nil {
				return err
			}
			proj, err := project.LoadFrom(args[0], cfg.ProjectOptions())
			if err != nil {
				return err
			}
			return printProject(cmd, proj)
		},
	}
	flags.register(cmd)

	return cmd
}

func printProject(cmd *cobra.Command, proj *project.Project) error {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Root:    %s\n", proj.RootDir)
	if proj.Configured {
		fmt.Fprintf(out, "Source roots come from configuration\n")
	}
	fmt.Fprintf(out, "\nModules:\n")

	for _, mod := range proj.Modules {
		fmt.Fprintf(out, "  %s\n", mod.Name)
		fmt.Fprintf(out, "    dir: %s\n", proj.Rel(mod.Dir))
		if len(mod.SourceRoots) == 0 {
			fmt.Fprintf(out, "    src: (none)\n")
		}
		for _, root := range mod.SourceRoots {
			fmt.Fprintf(out, "    src: %s\n", proj.Rel(root))
		}
	}

	files, err := proj.JavaFiles()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\n%d java files\n", len(files))
	return nil
}
