package cmd

import (
	"fmt"

	"abilityctl/internal/cli"
	"abilityctl/internal/color"

	"github.com/spf13/cobra"
)

func newAbilityCmd() *cobra.Command {
	abilityCmd := &cobra.Command{
		Use:     "ability",
		Aliases: []string{"abilities"},
		Short:   "Inspect catalog abilities",
	}

	var provider string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog abilities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			toolArgs := map[string]interface{}{}
			if provider != "" {
				toolArgs["provider"] = provider
			}
			out, err := callTool(cmd, "ability_list", toolArgs)
			if err != nil {
				return err
			}
			m, _ := out.(map[string]interface{})
			p := printer(cmd)
			if err := p.Print(m["abilities"]); err != nil {
				return err
			}
			if p.Format == cli.OutputFormatTable {
				fmt.Fprintf(cmd.OutOrStdout(), "\n%s %v abilities\n", color.KeyStyle.Render("Total:"), m["total"])
			}
			return nil
		},
	}
	listCmd.Flags().StringVar(&provider, "provider", "", "only list abilities of this provider")

	issuesCmd := &cobra.Command{
		Use:   "issues [ability-id]",
		Short: "Report configuration issues of one or all abilities",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runIssues,
	}

	abilityCmd.AddCommand(listCmd, issuesCmd)
	return abilityCmd
}

func runIssues(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	caller, err := newCaller(ctx)
	if err != nil {
		return err
	}
	defer caller.Close()

	ids := args
	if len(ids) == 0 {
		out, err := caller.CallToolJSON(ctx, "ability_list", map[string]interface{}{})
		if err != nil {
			return err
		}
		m, _ := out.(map[string]interface{})
		list, _ := m["abilities"].([]interface{})
		for _, item := range list {
			if a, ok := item.(map[string]interface{}); ok {
				if id, ok := a["id"].(string); ok {
					ids = append(ids, id)
				}
			}
		}
	}

	var rows [][]interface{}
	for _, id := range ids {
		out, err := caller.CallToolJSON(ctx, "ability_schema", map[string]interface{}{"ability_id": id})
		if err != nil {
			rows = append(rows, []interface{}{id, err.Error()})
			continue
		}
		m, _ := out.(map[string]interface{})
		issues, _ := m["issues"].([]interface{})
		for _, issue := range issues {
			rows = append(rows, []interface{}{id, issue})
		}
	}
	return printer(cmd).Table([]string{"Ability", "Issue"}, rows)
}

func newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <ability-id>",
		Short: "Resolve the eligible executors of an ability in priority order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := callTool(cmd, "ability_resolve", map[string]interface{}{"ability_id": args[0]})
			if err != nil {
				return err
			}
			return printer(cmd).Print(out)
		},
	}
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema <ability-id>",
		Short: "Show the input fields and defaults of an ability",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := callTool(cmd, "ability_schema", map[string]interface{}{"ability_id": args[0]})
			if err != nil {
				return err
			}
			p := printer(cmd)
			if p.Format != cli.OutputFormatTable {
				return p.Print(out)
			}

			m, _ := out.(map[string]interface{})
			fields, _ := m["fields"].([]interface{})
			var rows [][]interface{}
			for _, item := range fields {
				f, ok := item.(map[string]interface{})
				if !ok {
					continue
				}
				rows = append(rows, []interface{}{f["name"], f["label"], f["type"], f["required"] == true, f["default_value"]})
			}
			if err := p.Table([]string{"Name", "Label", "Type", "Required", "Default"}, rows); err != nil {
				return err
			}
			issues, _ := m["issues"].([]interface{})
			for _, issue := range issues {
				fmt.Fprintln(cmd.OutOrStdout(), color.WarningStyle.Render(fmt.Sprintf("! %v", issue)))
			}
			return nil
		},
	}
}
