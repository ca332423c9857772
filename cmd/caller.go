package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"abilityctl/internal/app"
	"abilityctl/internal/cli"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// localCaller runs tools against an in-process application.
type localCaller struct {
	cli.LocalCaller
	app *app.Application
}

func (l localCaller) Close() error { return l.app.Close() }

// newCaller connects to --remote when set and otherwise boots the engine
// from the loaded configuration.
func newCaller(ctx context.Context) (cli.ToolCaller, error) {
	if remoteURL != "" {
		c := cli.NewCLIClient(remoteURL)
		if err := c.Connect(ctx); err != nil {
			return nil, fmt.Errorf("failed to connect to %s: %w", remoteURL, err)
		}
		return c, nil
	}

	a, err := app.NewApplication(ctx, app.NewConfig(loadedConfig, rootCmd.Version))
	if err != nil {
		return nil, err
	}
	return localCaller{LocalCaller: a.Tools().Call, app: a}, nil
}

// callTool runs one tool call with a fresh caller.
func callTool(cmd *cobra.Command, name string, args map[string]interface{}) (interface{}, error) {
	ctx := commandContext(cmd)
	caller, err := newCaller(ctx)
	if err != nil {
		return nil, err
	}
	defer caller.Close()
	return caller.CallToolJSON(ctx, name, args)
}

func commandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}

// invocationFlags are shared by build and invoke.
type invocationFlags struct {
	executorID string
	sets       []string
	valuesFile string
	override   string
	imageURL   string
	submitOnly bool
}

func (f *invocationFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.executorID, "executor", "", "explicit executor ID, must be eligible")
	cmd.Flags().StringArrayVar(&f.sets, "set", nil, "form value as key=value, repeatable (JSON values are decoded)")
	cmd.Flags().StringVarP(&f.valuesFile, "values", "f", "", "YAML or JSON file with form values")
	cmd.Flags().StringVar(&f.override, "override", "", "JSON object merged over defaults")
	cmd.Flags().StringVar(&f.imageURL, "image-url", "", "input image URL")
	cmd.Flags().BoolVar(&f.submitOnly, "submit-only", false, "submit workflow tasks without waiting for output")
}

// toolArgs builds the arguments of ability_build_request and ability_invoke.
func (f *invocationFlags) toolArgs(abilityID string) (map[string]interface{}, error) {
	values, err := formValues(f.valuesFile, f.sets)
	if err != nil {
		return nil, err
	}
	args := map[string]interface{}{"ability_id": abilityID}
	if len(values) > 0 {
		args["form_values"] = values
	}
	if f.executorID != "" {
		args["executor_id"] = f.executorID
	}
	if f.override != "" {
		args["override"] = f.override
	}
	if f.imageURL != "" {
		args["image_url"] = f.imageURL
	}
	if f.submitOnly {
		args["submit_only"] = true
	}
	return args, nil
}

// formValues merges a values file with --set pairs; pairs win.
func formValues(path string, sets []string) (map[string]interface{}, error) {
	values := map[string]interface{}{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read values file: %w", err)
		}
		if err := yaml.Unmarshal(data, &values); err != nil {
			return nil, fmt.Errorf("failed to parse values file %s: %w", path, err)
		}
		if values == nil {
			values = map[string]interface{}{}
		}
	}
	for _, kv := range sets {
		key, raw, ok := strings.Cut(kv, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set %q, expected key=value", kv)
		}
		var v interface{}
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			v = raw
		}
		values[key] = v
	}
	return values, nil
}
