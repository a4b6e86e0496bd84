package cli

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/specialistvlad/opgrid/internal/bind"
	"github.com/specialistvlad/opgrid/internal/catalog"
	"github.com/specialistvlad/opgrid/internal/descriptor"
	"github.com/specialistvlad/opgrid/internal/pipeline"
	"github.com/specialistvlad/opgrid/internal/registry"
	"github.com/specialistvlad/opgrid/internal/validate"
	"github.com/spf13/cobra"
)

func partitionFlag(cmd *cobra.Command, primitives *bool) {
	cmd.Flags().BoolVarP(primitives, "primitives", "p", false, "use the model primitives instead of pipeline operators")
}

func partitionOf(primitives bool) descriptor.Partition {
	if primitives {
		return descriptor.PartitionPrimitives
	}
	return descriptor.PartitionOperators
}

func outputFlag(cmd *cobra.Command, output *string) {
	cmd.Flags().StringVarP(output, "output", "o", string(catalog.FormatText), "output format: text, yaml or json")
}

func newListCommand(o *options) *cobra.Command {
	var primitives bool
	var output string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered operators",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := catalog.ParseFormat(output)
			if err != nil {
				return usageError("%v", err)
			}
			a, err := o.newApp(cmd.Context())
			if err != nil {
				return err
			}
			ops := slices.Collect(a.Registry().List(partitionOf(primitives)))
			return catalog.Write(o.outW, format, catalog.FromDescriptors(ops...))
		},
	}
	partitionFlag(cmd, &primitives)
	outputFlag(cmd, &output)
	return cmd
}

func newDescribeCommand(o *options) *cobra.Command {
	var primitives bool
	var output string
	cmd := &cobra.Command{
		Use:   "describe NAME",
		Short: "Show the full descriptor of an operator",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := catalog.ParseFormat(output)
			if err != nil {
				return usageError("%v", err)
			}
			a, err := o.newApp(cmd.Context())
			if err != nil {
				return err
			}
			op, _, err := a.Registry().Lookup(partitionOf(primitives), args[0])
			if err != nil {
				return &ExitError{Code: 1, Message: err.Error()}
			}
			return catalog.WriteOne(o.outW, format, catalog.FromDescriptor(op))
		},
	}
	partitionFlag(cmd, &primitives)
	outputFlag(cmd, &output)
	return cmd
}

func newCheckCommand(o *options) *cobra.Command {
	var primitives bool
	cmd := &cobra.Command{
		Use:   "check NAME [PARAMETER=VALUE...]",
		Short: "Validate parameter values against an operator's declaration",
		Long: `check resolves the given values against the declared parameters of an
operator, applying defaults and availability conditions, and configures a
fresh instance with them. Values are HCL literals: size=0.8, mode="crop".`,
		Args: usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := bind.ParseAssignments(args[1:])
			if err != nil {
				return usageError("%v", err)
			}
			a, err := o.newApp(cmd.Context())
			if err != nil {
				return err
			}

			partition := partitionOf(primitives)
			instance, _, err := bind.Instantiate(a.Registry(), partition, args[0])
			if err != nil {
				if errors.Is(err, registry.ErrUnknownOperator) {
					return &ExitError{Code: 1, Message: err.Error()}
				}
				return err
			}
			err = bind.Configure(a.Context(), a.Registry(), partition, args[0], instance, values)
			if violations := validate.Violations(err); len(violations) > 0 {
				for _, v := range violations {
					fmt.Fprintf(o.outW, "FAIL %s\n", v)
				}
				return &ExitError{Code: 1, Message: fmt.Sprintf("%d parameter value(s) rejected", len(violations))}
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(o.outW, "OK %s\n", args[0])
			return nil
		},
	}
	partitionFlag(cmd, &primitives)
	return cmd
}

func newVerifyCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Load every module and manifest and report declaration errors",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := o.newApp(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(o.outW, "%d operators and %d primitives declared\n",
				a.Registry().Len(descriptor.PartitionOperators),
				a.Registry().Len(descriptor.PartitionPrimitives))
			return nil
		},
	}
}

func newPipelineCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "pipeline FILE",
		Short: "Check the wiring of the pipelines declared in an HCL file",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.newApp(cmd.Context())
			if err != nil {
				return err
			}
			pipelines, err := pipeline.LoadFile(a.Context(), args[0])
			if err != nil {
				return &ExitError{Code: 1, Message: err.Error()}
			}

			failed := 0
			for _, p := range pipelines {
				plan, err := pipeline.Check(a.Context(), a.Registry(), p)
				if err != nil {
					failed++
					for _, line := range strings.Split(err.Error(), "\n") {
						fmt.Fprintf(o.outW, "FAIL %s: %s\n", p.Name, line)
					}
					continue
				}
				fmt.Fprintf(o.outW, "OK %s: %s\n", p.Name, strings.Join(plan.Order, " -> "))
			}
			if failed > 0 {
				return &ExitError{Code: 1, Message: fmt.Sprintf("%d of %d pipeline(s) failed", failed, len(pipelines))}
			}
			return nil
		},
	}
}
