package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/chartcore/pkg/pipeline"
)

// exploreCommand creates the explore command.
func (c *CLI) exploreCommand() *cobra.Command {
	var opts inputOpts

	cmd := &cobra.Command{
		Use:               "explore <spec> [data]",
		Short:             "Move a simulated pointer over a chart and watch the focus state",
		Args:              cobra.RangeArgs(1, 2),
		ValidArgsFunction: completeInputFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExplore(cmd.Context(), args[0], dataArg(args), opts)
		},
	}
	opts.register(cmd)
	return cmd
}

func (c *CLI) runExplore(ctx context.Context, specPath, dataPath string, opts inputOpts) error {
	spec, data, err := opts.load(specPath, dataPath)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(nil, nil, c.Logger)
	defer runner.Close()

	ch, err := runner.NewChart(pipeline.Options{Spec: spec, Data: data})
	if err != nil {
		return err
	}
	model, err := NewExploreModel(ctx, runner, ch, spec.HoverRadius)
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(ExploreModel); ok && m.Err != nil {
		printError("%s", m.Err)
	}
	return nil
}
