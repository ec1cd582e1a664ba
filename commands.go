package models

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewCommand creates the Cobra command tree for the model fetcher CLI.
//
// Commands provided:
//   - fetch [model]
//   - list [--remote]
//   - info <model>
//   - path <model>
//   - remove <model> [--yes]
//
// Global flags: --json, --quiet
func NewCommand(cfg Config, opts ...ManagerOption) *cobra.Command {
	var (
		jsonOutput bool
		quiet      bool
	)

	// Manager will be created in PersistentPreRunE
	var mgr Manager

	cmd := &cobra.Command{
		Use:   "forma-models",
		Short: "Fetch MediaPipe pose model assets",
		Long:  "Download and manage the MediaPipe pose model files used by the Forma app.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip manager creation for help commands
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			var err error
			mgr, err = NewManager(cfg, opts...)
			if err != nil {
				return fmt.Errorf("failed to initialize manager: %w", err)
			}
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")

	cmd.AddCommand(fetchCmd(&mgr, &quiet))
	cmd.AddCommand(listCmd(&mgr, &jsonOutput))
	cmd.AddCommand(infoCmd(&mgr, &jsonOutput))
	cmd.AddCommand(pathCmd(&mgr))
	cmd.AddCommand(removeCmd(&mgr, &quiet))

	return cmd
}

func fetchCmd(mgr *Manager, quiet *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch [model]",
		Short: "Download a model into the assets directory",
		Long: "Download a model from its fixed source URL into the assets directory,\n" +
			"overwriting any existing file. Defaults to " + DefaultModelName + ".",
		Args: cobra.MaximumNArgs(1),
		// This command reports its own failures, including the
		// manual-recovery instructions, so cobra stays silent.
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			name := DefaultModelName
			if len(args) == 1 {
				name = args[0]
			}

			entry, dest, err := (*mgr).Resolve(name)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v: %q\n", err, name)
				return err
			}

			var opts []FetchOption
			if !*quiet {
				fmt.Fprintf(out, "Downloading %s...\n", entry.Name)
				fmt.Fprintf(out, "URL: %s\n", entry.URL)
				fmt.Fprintf(out, "Destination: %s\n", dest)
				opts = append(opts, WithProgress(func(p FetchProgress) {
					renderProgress(out, p)
				}))
			}

			installed, err := (*mgr).Fetch(ctx, name, opts...)
			if !*quiet {
				fmt.Fprintln(out) // end the progress line
			}
			if err != nil {
				fmt.Fprintf(out, "Download failed: %v\n", err)
				fmt.Fprintln(out)
				fmt.Fprintln(out, "Please download manually:")
				fmt.Fprintf(out, "  URL:     %s\n", entry.URL)
				fmt.Fprintf(out, "  Save to: %s\n", dest)
				return err
			}

			if !*quiet {
				fmt.Fprintf(out, "Successfully downloaded %s\n", entry.FileName)
				fmt.Fprintf(out, "  File size: %s\n", formatMB(installed.Size))
				fmt.Fprintf(out, "  Location:  %s\n", installed.Path)
			}
			return nil
		},
	}
}

func listCmd(mgr *Manager, jsonOutput *bool) *cobra.Command {
	var remote bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List models",
		Long:  "List fetched models, or the compiled-in catalog with --remote.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if remote {
				return outputCatalog(cmd.OutOrStdout(), (*mgr).Catalog(), *jsonOutput)
			}

			installed, err := (*mgr).ListInstalled(ctx)
			if err != nil {
				return err
			}
			return outputInstalledModels(cmd.OutOrStdout(), installed, *jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&remote, "remote", false, "List the compiled-in model catalog")
	return cmd
}

func infoCmd(mgr *Manager, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "info <model>",
		Short: "Show model information",
		Long:  "Show a model's catalog entry and, if fetched, its local file details.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			entry, dest, err := (*mgr).Resolve(args[0])
			if err != nil {
				return fmt.Errorf("%w: %q", err, args[0])
			}

			installed, err := (*mgr).GetInstalled(ctx, args[0])
			fetched := err == nil

			return outputModelDetail(cmd.OutOrStdout(), entry, dest, installed, fetched, *jsonOutput)
		},
	}
}

func pathCmd(mgr *Manager) *cobra.Command {
	return &cobra.Command{
		Use:   "path <model>",
		Short: "Print path to a fetched model file",
		Long:  "Print the absolute filesystem path of a fetched model file.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			path, err := (*mgr).Path(ctx, args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func removeCmd(mgr *Manager, quiet *bool) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "remove <model>",
		Short: "Remove a fetched model file",
		Long:  "Delete a fetched model file from the assets directory.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if !yes {
				fmt.Fprintf(cmd.OutOrStdout(), "Remove %s? [y/N]: ", args[0])
				if !confirmPrompt(cmd.InOrStdin()) {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
			}

			if err := (*mgr).Remove(ctx, args[0]); err != nil {
				return err
			}

			if !*quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation prompt")
	return cmd
}

// confirmPrompt reads from stdin and returns true only if the user types 'y'
// or 'yes'. Returns false for empty input or any other response.
func confirmPrompt(r io.Reader) bool {
	scanner := bufio.NewScanner(r)
	if scanner.Scan() {
		response := strings.TrimSpace(strings.ToLower(scanner.Text()))
		return response == "y" || response == "yes"
	}
	return false
}

// Output helpers

func outputInstalledModels(w io.Writer, installed []InstalledModel, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(installed)
	}

	if len(installed) == 0 {
		fmt.Fprintln(w, "No models fetched")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MODEL\tFORMAT\tSIZE\tFETCHED")
	for _, m := range installed {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			m.Name,
			m.Format,
			formatSize(m.Size),
			m.ModTime.Format("2006-01-02 15:04"),
		)
	}
	return tw.Flush()
}

func outputCatalog(w io.Writer, entries []Model, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MODEL\tFORMAT\tFILE")
	for _, m := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", m.Name, m.Format, m.FileName)
	}
	return tw.Flush()
}

func outputModelDetail(w io.Writer, entry Model, dest string, installed InstalledModel, fetched, asJSON bool) error {
	if asJSON {
		detail := struct {
			Model
			Fetched bool   `json:"fetched"`
			Size    int64  `json:"size,omitempty"`
			Path    string `json:"path"`
		}{Model: entry, Fetched: fetched, Path: dest}
		if fetched {
			detail.Size = installed.Size
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(detail)
	}

	fmt.Fprintf(w, "Model:        %s\n", entry.Name)
	fmt.Fprintf(w, "Format:       %s\n", entry.Format)
	fmt.Fprintf(w, "File:         %s\n", entry.FileName)
	fmt.Fprintf(w, "URL:          %s\n", entry.URL)
	if fetched {
		fmt.Fprintf(w, "Fetched:      %s\n", installed.ModTime.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(w, "Size:         %s\n", formatSize(installed.Size))
		fmt.Fprintf(w, "Path:         %s\n", installed.Path)
	} else {
		fmt.Fprintf(w, "Fetched:      no\n")
		fmt.Fprintf(w, "Path:         %s\n", dest)
	}
	return nil
}

// renderProgress redraws the single progress line in place.
// Format: Progress: 45.1% (5.20 MB / 11.53 MB)
// When the total size is unknown the percentage is reported as 0.0%.
func renderProgress(w io.Writer, p FetchProgress) {
	if p.BytesTotal > 0 {
		fmt.Fprintf(w, "\r\x1b[KProgress: %.1f%% (%s / %s)",
			p.Percent(), formatMB(p.BytesCompleted), formatMB(p.BytesTotal))
		return
	}
	fmt.Fprintf(w, "\r\x1b[KProgress: 0.0%% (%s)", formatMB(p.BytesCompleted))
}

// formatMB formats a byte count in binary MiB with two decimals, the unit the
// success report and progress line always use.
func formatMB(bytes int64) string {
	return fmt.Sprintf("%.2f MB", float64(bytes)/1024/1024)
}

// formatSize formats a byte count with an adaptive unit for tabular output.
func formatSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
