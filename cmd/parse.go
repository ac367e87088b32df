package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ciciliostudio/viewpoint/internal/browser"
	"github.com/ciciliostudio/viewpoint/internal/model"
	"github.com/ciciliostudio/viewpoint/internal/store"
)

var parseHTMLFile string

var parseCmd = &cobra.Command{
	Use:   "parse <url>",
	Short: "Parse a page into a structure of testable elements",
	Long: `Parse a page with a live browser and save its structure of typed,
testable elements. With --html, the page is parsed from a local file
instead of a browser session.

Examples:
  viewpoint parse https://example.com/signup
  viewpoint parse https://example.com/signup --html signup.html`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringVar(&parseHTMLFile, "html", "", "parse a local HTML file instead of a live page")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	url := args[0]
	st := openStore()

	structure, err := parseStructure(cmd, url)
	if err != nil {
		return err
	}
	if err := st.Structures.Save(structure); err != nil {
		return fmt.Errorf("failed to save structure: %w", err)
	}

	fmt.Printf("Parsed %s\n", url)
	fmt.Printf("Structure %s: %d elements, %d interactive\n",
		structure.ID, len(structure.Nodes), len(structure.InteractiveNodes()))
	for _, n := range structure.InteractiveNodes() {
		fmt.Printf("  %-12s %-10s %s\n", n.ID, n.Type, dimStyle.Render(n.CSSSelector))
	}
	return nil
}

func parseStructure(cmd *cobra.Command, url string) (*model.PageStructure, error) {
	if parseHTMLFile != "" {
		f, err := os.Open(parseHTMLFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", parseHTMLFile, err)
		}
		defer f.Close()
		return browser.ParseHTML(f, url)
	}

	driver, err := newDriver(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}
	defer driver.Close()
	return driver.ParseStructure(cmd.Context(), url)
}

var structuresCmd = &cobra.Command{
	Use:   "structures",
	Short: "List, show, and delete saved page structures",
}

var structuresListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved structures",
	RunE: func(cmd *cobra.Command, args []string) error {
		structures, err := openStore().Structures.List()
		if err != nil {
			return err
		}
		if len(structures) == 0 {
			fmt.Println("No structures saved. Run 'viewpoint parse <url>' first.")
			return nil
		}
		for _, s := range structures {
			fmt.Printf("%s  %-40s %3d elements  %s\n", s.ID, s.URL, len(s.Nodes), dimStyle.Render(s.CreatedAt.Format("2006-01-02 15:04")))
		}
		return nil
	},
}

var structuresShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one structure in detail",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore().Structures.Load(args[0])
		if err != nil {
			return err
		}
		fmt.Println(headerStyle.Render(fmt.Sprintf(" %s ", s.URL)))
		fmt.Printf("ID: %s\nTitle: %s\nParsed: %s\n\n", s.ID, s.Title, s.CreatedAt.Format("2006-01-02 15:04:05"))
		for _, n := range s.Nodes {
			marker := " "
			if n.IsInteractive {
				marker = "*"
			}
			fmt.Printf("%s %-12s %-10s %-8s %s\n", marker, n.ID, n.Type, n.TagName, truncate(n.TextContent, 50))
		}
		return nil
	},
}

var structuresDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a structure",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !openStore().Structures.Delete(args[0]) {
			return fmt.Errorf("structure %s: %w", args[0], store.ErrNotFound)
		}
		fmt.Printf("Deleted structure %s\n", args[0])
		return nil
	},
}

func init() {
	structuresCmd.AddCommand(structuresListCmd, structuresShowCmd, structuresDeleteCmd)
	rootCmd.AddCommand(structuresCmd)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
