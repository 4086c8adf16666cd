package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/guardian/uk-coronavirus-data-alerts/internal/output"
	"github.com/spf13/cobra"
)

func newVersionsCmd(a *app) *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "versions",
		Short: "List recorded template versions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, closeFn, err := a.openService()
			if err != nil {
				return err
			}
			defer closeFn()

			versions, err := svc.ListVersions(cmd.Context(), limit, offset)
			if err != nil {
				return err
			}
			if len(versions) == 0 {
				fmt.Fprintf(a.stdout, "no recorded versions for %s\n", svc.StackName())
				return nil
			}

			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "VERSION\tID\tFORMAT\tDIGEST\tCREATED")
			for _, v := range versions {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
					v.VersionNumber, v.ID, v.Format, shortDigest(v.Digest), v.CreatedAt.Format(time.RFC3339))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of versions to list")
	cmd.Flags().IntVar(&offset, "offset", 0, "number of versions to skip")

	return cmd
}

func newRestoreCmd(a *app) *cobra.Command {
	var (
		outDir   string
		toStdout bool
	)

	cmd := &cobra.Command{
		Use:   "restore <version-id>",
		Short: "Write a recorded template version back to the output directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if outDir == "" {
				outDir = a.cfg.Output.Dir
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

			result, err := svc.Restore(cmd.Context(), args[0], w)
			if err != nil {
				return err
			}
			if !toStdout {
				fmt.Fprintf(a.stdout, "%s: version %d restored to %s\n",
					result.StackName, result.VersionNumber, result.Path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default OUTPUT_DIR)")
	cmd.Flags().BoolVar(&toStdout, "stdout", false, "write the template to stdout instead of a file")
	cmd.MarkFlagsMutuallyExclusive("out", "stdout")

	return cmd
}

func shortDigest(digest string) string {
	if len(digest) > 12 {
		return digest[:12]
	}
	return digest
}
