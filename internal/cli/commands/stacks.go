package commands

import (
	"fmt"
	"path/filepath"

	"stackhand/internal/discovery"
	"stackhand/internal/operations"

	"github.com/spf13/cobra"
)

// StackCommands creates the stack discovery and relocation commands
func StackCommands(ops *operations.StackOperations) []*cobra.Command {
	commands := []*cobra.Command{}

	// stackhand scan [path]
	scanCmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Find compose stacks on disk",
		Long: `Find directories containing a compose file. Without a path every
configured external path and its direct subdirectories are examined. With a
path the whole tree below it is searched.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := operations.ScanRequest{}
			if len(args) == 1 {
				abs, err := filepath.Abs(args[0])
				if err != nil {
					return err
				}
				req.Path = abs
			}

			result, err := ops.ScanStacks(cmd.Context(), req)
			if err != nil {
				return err
			}

			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return printJSON(cmd.OutOrStdout(), result)
			}
			printScanResult(cmd, result)
			return nil
		},
	}
	scanCmd.Flags().Bool("json", false, "Print the result as JSON")
	commands = append(commands, scanCmd)

	// stackhand validate <path>
	validateCmd := &cobra.Command{
		Use:   "validate <path>",
		Short: "Check whether a directory can be used as a stack location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := ops.ValidatePath(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if result.Valid {
				fprintf(cmd.OutOrStdout(), "%s is valid\n", args[0])
				return nil
			}
			return fmt.Errorf("%s: %s (%s)", args[0], result.Reason, result.Code)
		},
	}
	commands = append(commands, validateCmd)

	// stackhand adopt <dir>... --env <id>
	adoptCmd := &cobra.Command{
		Use:   "adopt <dir>...",
		Short: "Add existing stack directories to the inventory",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			envID, _ := cmd.Flags().GetInt64("env")

			candidates := make([]discovery.StackCandidate, 0, len(args))
			for _, arg := range args {
				dir, err := filepath.Abs(arg)
				if err != nil {
					return err
				}
				candidate, err := ops.InspectDirectory(dir)
				if err != nil {
					return err
				}
				candidates = append(candidates, *candidate)
			}

			result, err := ops.AdoptStacks(cmd.Context(), operations.AdoptRequest{
				Stacks:        candidates,
				EnvironmentID: envID,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, name := range result.Adopted {
				fprintf(out, "Adopted %s\n", name)
			}
			for _, f := range result.Failed {
				fprintf(out, "Failed %s: %s\n", f.Name, f.Reason)
			}
			if len(result.Failed) > 0 {
				return fmt.Errorf("%d of %d stacks could not be adopted", len(result.Failed), len(candidates))
			}
			return nil
		},
	}
	adoptCmd.Flags().Int64("env", 0, "Environment id the stacks belong to")
	_ = adoptCmd.MarkFlagRequired("env")
	commands = append(commands, adoptCmd)

	// stackhand relocate <name> --from <dir> --to <compose path>
	relocateCmd := &cobra.Command{
		Use:   "relocate <name>",
		Short: "Move a stack's files and update its record",
		Long: `Move every file of a stack directory into the directory of the new
compose path, then point the stack record at the new location. The record is
left unchanged if the compose file did not arrive.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, _ := cmd.Flags().GetString("from")
			to, _ := cmd.Flags().GetString("to")
			envFile, _ := cmd.Flags().GetString("env-file")
			envID, err := envFlag(cmd)
			if err != nil {
				return err
			}

			req := operations.RelocateRequest{
				Name:          args[0],
				EnvironmentID: envID,
			}
			if req.OldDir, err = absOrEmpty(from); err != nil {
				return err
			}
			if req.NewComposePath, err = absOrEmpty(to); err != nil {
				return err
			}
			if req.NewEnvPath, err = absOrEmpty(envFile); err != nil {
				return err
			}

			resp, err := ops.RelocateStack(cmd.Context(), req)
			if resp != nil {
				printRelocation(cmd, resp)
			}
			return err
		},
	}
	relocateCmd.Flags().String("from", "", "Current stack directory")
	relocateCmd.Flags().String("to", "", "New compose file path")
	relocateCmd.Flags().String("env-file", "", "New env file path (defaults to .env next to the compose file)")
	relocateCmd.Flags().String("env", "", "Environment id of the stack")
	_ = relocateCmd.MarkFlagRequired("from")
	_ = relocateCmd.MarkFlagRequired("to")
	commands = append(commands, relocateCmd)

	// stackhand base-path
	basePathCmd := &cobra.Command{
		Use:   "base-path",
		Short: "Print the directory new stacks are created in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fprintf(cmd.OutOrStdout(), "%s\n", ops.BasePath())
			return nil
		},
	}
	commands = append(commands, basePathCmd)

	// stackhand hints <name>
	hintsCmd := &cobra.Command{
		Use:   "hints <name>",
		Short: "Show where a stack's containers were started from",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			envID, err := envFlag(cmd)
			if err != nil {
				return err
			}
			hints, err := ops.PathHints(cmd.Context(), args[0], envID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if hints.WorkingDir == nil && len(hints.ConfigFiles) == 0 {
				fprintf(out, "No containers found for %s\n", hints.StackName)
				return nil
			}
			if hints.WorkingDir != nil {
				fprintf(out, "Working dir: %s\n", *hints.WorkingDir)
			}
			for _, f := range hints.ConfigFiles {
				fprintf(out, "Config file: %s\n", f)
			}
			return nil
		},
	}
	hintsCmd.Flags().String("env", "", "Environment id of the stack")
	commands = append(commands, hintsCmd)

	return commands
}

func absOrEmpty(p string) (string, error) {
	if p == "" {
		return "", nil
	}
	return filepath.Abs(p)
}

func printScanResult(cmd *cobra.Command, result *discovery.ScanResult) {
	out := cmd.OutOrStdout()
	if len(result.Discovered) == 0 && len(result.Skipped) == 0 {
		fprintf(out, "No stacks found\n")
	} else {
		colorize := colorEnabled(out)
		w := newTable(out)
		fprintf(w, "NAME\tSTATE\tCOMPOSE FILE\tADOPTED\n")
		for _, c := range result.Discovered {
			fprintf(w, "%s\t%s\t%s\t%s\n", c.Name, runningLabel(c.IsRunning, colorize), c.ComposePath, yesNo(false))
		}
		for _, c := range result.Skipped {
			fprintf(w, "%s\t%s\t%s\t%s\n", c.Name, runningLabel(c.IsRunning, colorize), c.ComposePath, yesNo(true))
		}
		_ = w.Flush()
	}

	for _, e := range result.Errors {
		fprintf(cmd.ErrOrStderr(), "warning: %s\n", e)
	}
}

func printRelocation(cmd *cobra.Command, resp *operations.RelocateResponse) {
	out := cmd.OutOrStdout()
	for _, f := range resp.MovedFiles {
		fprintf(out, "moved  %s\n", f)
	}
	for i, f := range resp.FailedFiles {
		fprintf(out, "failed %s: %s\n", f, resp.Errors[i])
	}
	if resp.SourceDirRemoved {
		fprintf(out, "Removed empty source directory\n")
	}
	if resp.Persisted {
		fprintf(out, "Stack record updated\n")
	}
}
