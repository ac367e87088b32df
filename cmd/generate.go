package cmd

import (
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ciciliostudio/viewpoint/internal/generator"
	"github.com/ciciliostudio/viewpoint/internal/model"
	"github.com/ciciliostudio/viewpoint/internal/report"
	"github.com/ciciliostudio/viewpoint/internal/store"
)

var (
	genNodes       string
	genName        string
	genType        string
	genPriority    string
	genDescription string
)

var generateCmd = &cobra.Command{
	Use:   "generate <structure-id>",
	Short: "Generate a test case from a parsed structure",
	Long: `Generate a test case for selected elements of a parsed structure.
Each element yields viewpoints for the basic, boundary, equivalence and
negative strategies, with data rows and assertion checklists derived from
the element's type.

Without --nodes, interactive elements are picked one by one.

Examples:
  viewpoint generate 4f1c... --nodes element_3,element_5 --name "signup form"
  viewpoint generate 4f1c...`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&genNodes, "nodes", "", "comma-separated node ids (interactive picker when omitted)")
	generateCmd.Flags().StringVar(&genName, "name", "", "test case name")
	generateCmd.Flags().StringVar(&genType, "type", string(model.TestFunctional), "test type (functional, ui, performance, security, integration)")
	generateCmd.Flags().StringVar(&genPriority, "priority", string(model.PriorityMedium), "priority (low, medium, high, critical)")
	generateCmd.Flags().StringVar(&genDescription, "description", "", "test case description")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	st := openStore()
	structure, err := st.Structures.Load(args[0])
	if err != nil {
		return err
	}

	var nodeIDs []string
	if genNodes != "" {
		for _, id := range strings.Split(genNodes, ",") {
			if id = strings.TrimSpace(id); id != "" {
				nodeIDs = append(nodeIDs, id)
			}
		}
	} else {
		nodeIDs, err = pickNodes(structure)
		if err != nil {
			return err
		}
	}

	name := genName
	if name == "" {
		name = fmt.Sprintf("Test case for %s", structure.URL)
	}

	tc, err := generator.Synthesize(structure, nodeIDs, name,
		model.TestType(genType), model.TestPriority(genPriority), genDescription)
	if err != nil {
		return err
	}
	if err := st.Cases.Save(tc); err != nil {
		return fmt.Errorf("failed to save test case: %w", err)
	}

	fmt.Printf("Generated case %s: %q\n", tc.ID, tc.Name)
	fmt.Printf("%d viewpoints, %d data rows\n", len(tc.Viewpoints), tc.TestDataCount())
	for _, vp := range tc.Viewpoints {
		fmt.Printf("  %-28s %-12s %d rows\n", vp.Name, vp.Strategy, len(vp.TestDataList))
	}
	return nil
}

// pickNodes prompts for interactive elements until the user selects done.
func pickNodes(structure *model.PageStructure) ([]string, error) {
	interactive := structure.InteractiveNodes()
	if len(interactive) == 0 {
		return nil, fmt.Errorf("structure %s has no interactive elements", structure.ID)
	}

	const doneLabel = "(done)"
	var picked []string
	chosen := map[string]bool{}

	for {
		var items []string
		var ids []string
		for _, n := range interactive {
			if chosen[n.ID] {
				continue
			}
			items = append(items, fmt.Sprintf("%s [%s] %s", n.ID, n.Type, truncate(n.TextContent, 40)))
			ids = append(ids, n.ID)
		}
		if len(items) == 0 {
			break
		}
		items = append(items, doneLabel)

		prompt := promptui.Select{
			Label: "Select an element to test",
			Items: items,
			Size:  12,
		}
		i, choice, err := prompt.Run()
		if err != nil {
			return nil, fmt.Errorf("selection aborted: %w", err)
		}
		if choice == doneLabel {
			break
		}
		picked = append(picked, ids[i])
		chosen[ids[i]] = true
	}

	if len(picked) == 0 {
		return nil, fmt.Errorf("no elements selected")
	}
	return picked, nil
}

var casesCmd = &cobra.Command{
	Use:   "cases",
	Short: "List, show, and delete generated test cases",
}

var casesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List generated cases",
	RunE: func(cmd *cobra.Command, args []string) error {
		cases, err := openStore().Cases.List()
		if err != nil {
			return err
		}
		if len(cases) == 0 {
			fmt.Println("No test cases. Run 'viewpoint generate <structure-id>' first.")
			return nil
		}
		for _, c := range cases {
			fmt.Printf("%s  %-30s %-10s %-8s %3d rows  %s\n",
				c.ID, truncate(c.Name, 30), c.TestType, c.Priority, c.TestDataCount(),
				dimStyle.Render(c.UpdatedAt.Format("2006-01-02 15:04")))
		}
		return nil
	},
}

var casesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one case in detail",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openStore().Cases.Load(args[0])
		if err != nil {
			return err
		}
		fmt.Println(headerStyle.Render(fmt.Sprintf(" %s ", c.Name)))
		fmt.Printf("ID: %s\nPage: %s\nType: %s  Priority: %s\n", c.ID, c.PageURL, c.TestType, c.Priority)
		if c.Description != "" {
			fmt.Printf("Description: %s\n", c.Description)
		}
		for _, vp := range c.Viewpoints {
			fmt.Printf("\n%s (%s, target %s)\n", vp.Name, vp.Strategy, vp.TargetNode.ID)
			for _, td := range vp.TestDataList {
				fmt.Printf("  %-24s -> %-20s %s\n",
					quoteShort(td.InputValue, 24), quoteShort(td.ExpectedValue, 20), dimStyle.Render(td.Description))
			}
		}
		return nil
	},
}

var casesExportFormat string

var casesExportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Export a case as JSON or CSV to stdout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openStore().Cases.Load(args[0])
		if err != nil {
			return err
		}
		switch casesExportFormat {
		case "json":
			return report.RenderCaseJSON(cmd.OutOrStdout(), c)
		case "csv":
			return report.RenderCaseCSV(cmd.OutOrStdout(), c)
		default:
			return fmt.Errorf("unknown export format %q (want json or csv)", casesExportFormat)
		}
	},
}

var casesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a case",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !openStore().Cases.Delete(args[0]) {
			return fmt.Errorf("test case %s: %w", args[0], store.ErrNotFound)
		}
		fmt.Printf("Deleted case %s\n", args[0])
		return nil
	},
}

func init() {
	casesExportCmd.Flags().StringVar(&casesExportFormat, "format", "json", "export format: json or csv")
	casesCmd.AddCommand(casesListCmd, casesShowCmd, casesExportCmd, casesDeleteCmd)
	rootCmd.AddCommand(casesCmd)
}

func quoteShort(s string, n int) string {
	return fmt.Sprintf("%q", truncate(s, n))
}
