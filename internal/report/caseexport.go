package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ciciliostudio/viewpoint/internal/model"
)

// RenderCaseCSV writes a test case as CSV, one row per generated data row.
func RenderCaseCSV(out io.Writer, tc *model.TestCase) error {
	cw := csv.NewWriter(out)
	header := []string{"viewpoint", "strategy", "node", "input", "expected", "assertions", "description"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, vp := range tc.Viewpoints {
		nodeID := ""
		if vp.TargetNode != nil {
			nodeID = vp.TargetNode.ID
		}
		for _, td := range vp.TestDataList {
			names := make([]string, 0, len(td.Assertions))
			for _, a := range td.Assertions {
				names = append(names, a.Name)
			}
			row := []string{
				vp.Name,
				string(vp.Strategy),
				nodeID,
				td.InputValue,
				td.ExpectedValue,
				strings.Join(names, ";"),
				td.Description,
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("failed to write csv row: %w", err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// RenderCaseJSON writes a test case as indented JSON.
func RenderCaseJSON(out io.Writer, tc *model.TestCase) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(tc); err != nil {
		return fmt.Errorf("failed to encode test case: %w", err)
	}
	return nil
}
