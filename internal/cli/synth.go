package cli

import (
	"fmt"

	"github.com/guardian/uk-coronavirus-data-alerts/internal/output"
	"github.com/guardian/uk-coronavirus-data-alerts/internal/template"
	"github.com/spf13/cobra"
)

func newSynthCmd(a *app) *cobra.Command {
	var (
		format   string
		outDir   string
		toStdout bool
	)

	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Render the stack template and record it",
		Long: `Render the stack template for the configured variants.

The template is written to <out>/<stack>.template.<format> unless --stdout
is given. Each run is recorded in the template history; a run whose output
matches the latest recorded version is reported as unchanged.

Examples:

  alerts-stack synth
  alerts-stack synth --stage CODE --format yaml
  alerts-stack synth --variants VERIFIED --stdout`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format == "" {
				format = a.cfg.Output.Format
			}
			f, err := template.ParseFormat(format)
			if err != nil {
				return err
			}
			if outDir == "" {
				outDir = a.cfg.Output.Dir
			}

			variants, err := a.selectedVariants()
			if err != nil {
				return err
			}

			svc, closeFn, err := a.openService()
			if err != nil {
				return err
			}
			defer closeFn()

			var w output.TemplateWriter = output.NewFileWriter(outDir, a.logger)
			if toStdout {
				w = output.NewStreamWriter(a.stdout)
			}

			result, err := svc.Run(cmd.Context(), variants, f, w)
			if err != nil {
				return err
			}

			if !toStdout {
				fmt.Fprintf(a.stdout, "%s: version %d (%s) written to %s\n",
					result.StackName, result.VersionNumber, result.Status, result.Path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "template format: json, yaml or hcl (default OUTPUT_FORMAT)")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default OUTPUT_DIR)")
	cmd.Flags().BoolVar(&toStdout, "stdout", false, "write the template to stdout instead of a file")
	cmd.MarkFlagsMutuallyExclusive("out", "stdout")

	return cmd
}
