package cmd

import (
	"encoding/json"
	"fmt"

	"abilityctl/internal/cli"
	"abilityctl/internal/color"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
)

func newBuildCmd() *cobra.Command {
	var flags invocationFlags
	var copyToClipboard bool

	cmd := &cobra.Command{
		Use:   "build <ability-id>",
		Short: "Build the provider request of an ability without calling the provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			toolArgs, err := flags.toolArgs(args[0])
			if err != nil {
				return err
			}
			out, err := callTool(cmd, "ability_build_request", toolArgs)
			if err != nil {
				return err
			}
			if copyToClipboard {
				data, err := json.MarshalIndent(out, "", "  ")
				if err != nil {
					return err
				}
				if err := clipboard.WriteAll(string(data)); err != nil {
					return fmt.Errorf("failed to copy request to clipboard: %w", err)
				}
				fmt.Fprintln(cmd.ErrOrStderr(), color.SuccessStyle.Render("Request copied to clipboard"))
			}
			return printer(cmd).Print(out)
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&copyToClipboard, "copy", false, "copy the built request JSON to the clipboard")
	return cmd
}

func newInvokeCmd() *cobra.Command {
	var flags invocationFlags

	cmd := &cobra.Command{
		Use:   "invoke <ability-id>",
		Short: "Invoke an ability and print the normalized result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			toolArgs, err := flags.toolArgs(args[0])
			if err != nil {
				return err
			}
			out, err := callTool(cmd, "ability_invoke", toolArgs)
			if err != nil {
				return err
			}
			p := printer(cmd)
			if p.Format != cli.OutputFormatTable {
				return p.Print(out)
			}
			m, _ := out.(map[string]interface{})
			return p.Print(m["result"])
		},
	}
	flags.register(cmd)
	return cmd
}
