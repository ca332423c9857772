package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"abilityctl/internal/cli"
	"abilityctl/internal/color"
	"abilityctl/internal/comfyui"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newWorkflowCmd() *cobra.Command {
	workflowCmd := &cobra.Command{
		Use:   "workflow",
		Short: "Validate and pick workflow graph node mappings",
	}
	workflowCmd.AddCommand(newWorkflowValidateCmd(), newWorkflowPickCmd())
	return workflowCmd
}

func newWorkflowValidateCmd() *cobra.Command {
	var graphPath, mapPath string
	var outputs []string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate an input/output node mapping against a workflow graph",
		Long: `Checks that every mapped input names an existing node and input key,
that value types are known and that every output node exists.

The mapping file is a YAML or JSON list of {field, node_id, input_key, value_type}.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			graph, err := os.ReadFile(graphPath)
			if err != nil {
				return fmt.Errorf("failed to read graph: %w", err)
			}
			toolArgs := map[string]interface{}{
				"graph":           string(graph),
				"output_node_ids": strings.Join(outputs, ","),
			}
			if mapPath != "" {
				inputMap, err := readInputMap(mapPath)
				if err != nil {
					return err
				}
				toolArgs["input_node_map"] = inputMap
			}

			out, err := callTool(cmd, "workflow_validate_mapping", toolArgs)
			if err != nil {
				return err
			}
			m, _ := out.(map[string]interface{})
			issues, _ := m["issues"].([]interface{})
			if len(issues) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), color.SuccessStyle.Render("Mapping is valid"))
				return nil
			}
			for _, issue := range issues {
				fmt.Fprintln(cmd.OutOrStdout(), color.ErrorStyle.Render(fmt.Sprintf("✗ %v", issue)))
			}
			return fmt.Errorf("mapping has %d issue(s)", len(issues))
		},
	}
	cmd.Flags().StringVarP(&graphPath, "graph", "g", "", "workflow graph JSON file")
	cmd.Flags().StringVarP(&mapPath, "map", "m", "", "input node map file (YAML or JSON)")
	cmd.Flags().StringSliceVar(&outputs, "outputs", nil, "output node IDs")
	_ = cmd.MarkFlagRequired("graph")
	return cmd
}

// readInputMap returns the mapping file as JSON text for the tool call.
func readInputMap(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read input map: %w", err)
	}
	var items []comfyui.InputMapItem
	if err := yaml.Unmarshal(data, &items); err != nil {
		return "", fmt.Errorf("failed to parse input map %s: %w", path, err)
	}
	out, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func newWorkflowPickCmd() *cobra.Command {
	var graphPath, selection string

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Pick output nodes of a workflow graph",
		Long: `Lists the graph nodes selected as outputs. --select is one of
saveimage (default), preview, all or none.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(graphPath)
			if err != nil {
				return fmt.Errorf("failed to read graph: %w", err)
			}
			graph, err := comfyui.ParseGraph(data)
			if err != nil {
				return err
			}

			var ids []string
			switch strings.ToLower(selection) {
			case "saveimage", "":
				ids = comfyui.SelectSaveImage(graph)
			case "preview":
				ids = comfyui.SelectPreview(graph)
			case "all":
				ids = comfyui.SelectAll(graph)
			case "none":
				ids = comfyui.ClearSelection()
			default:
				return fmt.Errorf("unknown selection %q (use saveimage, preview, all or none)", selection)
			}

			rows := make([][]interface{}, 0, len(ids))
			for _, id := range ids {
				n, _ := graph.Node(id)
				rows = append(rows, []interface{}{n.ID, n.ClassType, n.Title})
			}
			if err := printer(cmd).Table([]string{"Node_ID", "Class_Type", "Title"}, rows); err != nil {
				return err
			}
			if printer(cmd).Format == cli.OutputFormatTable && len(ids) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "\n%s %s\n", color.KeyStyle.Render("--outputs"), strings.Join(ids, ","))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&graphPath, "graph", "g", "", "workflow graph JSON file")
	cmd.Flags().StringVar(&selection, "select", "saveimage", "saveimage, preview, all or none")
	_ = cmd.MarkFlagRequired("graph")
	return cmd
}
