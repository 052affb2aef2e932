package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jonathan/degree-tracker/internal/catalog"
	"github.com/jonathan/degree-tracker/internal/observability"
	"github.com/jonathan/degree-tracker/internal/types"
)

var programsCmd = &cobra.Command{
	Use:   "programs",
	Short: "List, show and import degree programs",
}

var programsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the built-in programs",
	Args:  cobra.NoArgs,
	RunE:  runProgramsList,
}

var programsShowCmd = &cobra.Command{
	Use:   "show <program-id>",
	Short: "Show the requirements of a program",
	Args:  cobra.ExactArgs(1),
	RunE:  runProgramsShow,
}

var programsImportCmd = &cobra.Command{
	Use:   "import <catalog-url>",
	Short: "Import a program from a supported university catalog page",
	Args:  cobra.ExactArgs(1),
	RunE:  runProgramsImport,
}

var (
	programsType      string
	programsImportOut string
)

func init() {
	programsListCmd.Flags().StringVar(&programsType, "type", "", "Only list programs of this type: major, minor or concentration")
	programsImportCmd.Flags().StringVar(&programsType, "type", string(types.ProgramMajor), "Program type: major, minor or concentration")
	programsImportCmd.Flags().StringVarP(&programsImportOut, "out", "o", "", "Write the imported program as JSON to this file")

	programsCmd.AddCommand(programsListCmd, programsShowCmd, programsImportCmd)
	rootCmd.AddCommand(programsCmd)
}

func runProgramsList(cmd *cobra.Command, _ []string) error {
	var programType types.ProgramType
	if programsType != "" {
		parsed, err := types.ParseProgramType(programsType)
		if err != nil {
			return err
		}
		programType = parsed
	}

	registry, err := loadRegistry()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tNAME\tREQUIREMENTS")
	for _, p := range registry.List(programType) {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", p.ID, p.Type, p.Name, len(p.AllRequirements()))
	}
	return w.Flush()
}

func runProgramsShow(cmd *cobra.Command, args []string) error {
	registry, err := loadRegistry()
	if err != nil {
		return err
	}
	p, err := registry.Get(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%s)\n", p.Name, p.Type)
	if p.University != "" {
		fmt.Fprintf(out, "%s\n", p.University)
	}
	printer := observability.NewPrinter(out)
	for _, category := range p.Categories() {
		fmt.Fprintf(out, "\n%s\n", category)
		printer.PrintRequirements(p.Requirements[category])
	}
	return nil
}

func runProgramsImport(cmd *cobra.Command, args []string) error {
	programType, err := types.ParseProgramType(programsType)
	if err != nil {
		return err
	}

	importer := catalog.NewImporter(newFetcher(), logger)
	p, err := importer.Import(cmd.Context(), args[0], programType)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Imported %s (%s) with %d requirements\n", p.Name, p.ID, len(p.AllRequirements()))
	if programsImportOut != "" {
		if err := writeJSON(programsImportOut, p); err != nil {
			return err
		}
		fmt.Fprintf(out, "Program: %s\n", programsImportOut)
	}
	return nil
}
