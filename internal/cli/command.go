package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/aura/internal/buildinfo"
	"github.com/dmitrijs2005/aura/internal/config"
	"github.com/dmitrijs2005/aura/internal/nutrition"
	"github.com/dmitrijs2005/aura/internal/services"
)

var errNoSession = errors.New("no active session, log in with 'aura shell' first")

// NewRootCommand builds the aura command tree. Running it without a
// subcommand starts the interactive shell.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "aura",
		Short:        "Nutrition and hydration diary",
		SilenceUsage: true,
		RunE:         runShell,
	}
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		&cobra.Command{
			Use:   "shell",
			Short: "Start the interactive shell",
			Args:  cobra.NoArgs,
			RunE:  runShell,
		},
		newFoodsCommand(),
		newExportCommand(),
		newDoctorCommand(),
		newResetCommand(),
		&cobra.Command{
			Use:   "version",
			Short: "Print build information",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				buildinfo.PrintBuildData(cmd.OutOrStdout())
				fmt.Fprintf(cmd.OutOrStdout(), "Food table: TACO/TBCA v%s (%d foods)\n", nutrition.DatasetVersion, nutrition.Default().Len())
			},
		},
	)
	return root
}

func runShell(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(cmd.Flags())
	if err != nil {
		return err
	}
	app, err := NewApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	app.Run(cmd.Context())
	return nil
}

func newFoodsCommand() *cobra.Command {
	foods := &cobra.Command{
		Use:   "foods",
		Short: "Browse the reference food table",
	}
	foods.AddCommand(
		&cobra.Command{
			Use:   "search <query>",
			Short: "Search foods by name or synonym",
			Args:  cobra.MinimumNArgs(1),
			Run: func(cmd *cobra.Command, args []string) {
				printFoods(cmd.OutOrStdout(), nutrition.Search(strings.Join(args, " ")))
			},
		},
		&cobra.Command{
			Use:   "show <id>",
			Short: "Show nutrients and servings of one food",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return showFood(cmd.OutOrStdout(), nutrition.Default(), args[0])
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List every food",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				printFoods(cmd.OutOrStdout(), nutrition.Default().All())
			},
		},
	)
	return foods
}

func newExportCommand() *cobra.Command {
	var (
		out  string
		toS3 bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the signed-in user's diary as a JSON backup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			if out != "" {
				cfg.BackupDir = out
			}
			if toS3 && !cfg.S3Enabled() {
				return errors.New("--s3 needs a bucket (AURA_S3_BUCKET or s3.bucket in the config file)")
			}
			if !toS3 {
				cfg.S3Bucket = ""
			}

			app, err := NewApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer app.Close()
			app.out = cmd.OutOrStdout()

			st, err := app.gate.Resume(cmd.Context())
			if err != nil {
				return err
			}
			if st != services.StateActive {
				return errNoSession
			}
			return app.Export(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "directory to write the backup to (default: backup_dir)")
	cmd.Flags().BoolVar(&toS3, "s3", false, "also upload the backup to the configured S3 bucket")
	return cmd
}

// openApp loads the configuration and opens the store for a one-shot
// command.
func openApp(cmd *cobra.Command) (*App, error) {
	cfg, err := config.LoadConfig(cmd.Flags())
	if err != nil {
		return nil, err
	}
	app, err := NewApp(cmd.Context(), cfg)
	if err != nil {
		return nil, err
	}
	app.out = cmd.OutOrStdout()
	return app, nil
}

func newDoctorCommand() *cobra.Command {
	var fix bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the local store for records that no longer decode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			report, err := app.maintenance.Check(cmd.Context())
			if err != nil {
				return err
			}
			printHealth(cmd.OutOrStdout(), report)

			if fix && !report.Healthy() {
				if _, err := app.maintenance.Repair(cmd.Context()); err != nil {
					return err
				}
				// Re-check so the exit status reflects the repaired store.
				report, err = app.maintenance.Check(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Set aside after repair: %d\n", len(report.SetAside))
			}
			if !report.Healthy() {
				return errors.New("doctor found malformed records (run 'aura doctor --fix' to set them aside)")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fix, "fix", false, "move malformed records to *_corrupt keys")
	return cmd
}

func newResetCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every local account, profile and diary entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errors.New("reset wipes all local data; pass --yes to confirm")
			}
			app, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.maintenance.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Local data removed.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the wipe")
	return cmd
}

func printHealth(w io.Writer, r services.HealthReport) {
	fmt.Fprintf(w, "Records: %d\n", r.Records)
	fmt.Fprintf(w, "Malformed: %d\n", len(r.Malformed))
	for _, name := range r.Malformed {
		fmt.Fprintf(w, "  %s\n", name)
	}
	fmt.Fprintf(w, "Set aside: %d\n", len(r.SetAside))
}
