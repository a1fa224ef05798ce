package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:          "massing",
		Short:        "Parametric building massing configurator",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "service configuration file (YAML)")

	rootCmd.AddCommand(buildCmd(&configPath))
	rootCmd.AddCommand(validateCmd(&configPath))
	rootCmd.AddCommand(estimateCmd(&configPath))
	rootCmd.AddCommand(exportCmd(&configPath))
	rootCmd.AddCommand(serveCmd(&configPath))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func buildCmd(configPath *string) *cobra.Command {
	var (
		overrides []string
		asJSON    bool
	)
	cmd := &cobra.Command{
		Use:   "build [project-path]",
		Short: "Compose the building and print the data panel",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd.Context(), *configPath, args, overrides, asJSON)
		},
	}
	cmd.Flags().StringArrayVar(&overrides, "set", nil, "override a parameter, e.g. --set floors=24")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full result as JSON")
	return cmd
}

func validateCmd(configPath *string) *cobra.Command {
	var overrides []string
	cmd := &cobra.Command{
		Use:   "validate [project-path]",
		Short: "Validate building parameters and the composed geometry",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runValidate(*configPath, args, overrides)
		},
	}
	cmd.Flags().StringArrayVar(&overrides, "set", nil, "override a parameter, e.g. --set floors=24")
	return cmd
}

func estimateCmd(configPath *string) *cobra.Command {
	var overrides []string
	cmd := &cobra.Command{
		Use:   "estimate [project-path]",
		Short: "Request the embodied carbon estimate",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEstimate(cmd.Context(), *configPath, args, overrides)
		},
	}
	cmd.Flags().StringArrayVar(&overrides, "set", nil, "override a parameter, e.g. --set floors=24")
	return cmd
}

func exportCmd(configPath *string) *cobra.Command {
	var (
		overrides []string
		format    string
		out       string
	)
	cmd := &cobra.Command{
		Use:   "export [project-path]",
		Short: "Write a PDF data sheet, XLSX schedule or DXF model",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), *configPath, args, overrides, format, out)
		},
	}
	cmd.Flags().StringArrayVar(&overrides, "set", nil, "override a parameter, e.g. --set floors=24")
	cmd.Flags().StringVarP(&format, "format", "f", "pdf", "output format: pdf, xlsx or dxf")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default building.<format>)")
	return cmd
}

func serveCmd(configPath *string) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve [project-path]",
		Short: "Start the HTTP configurator server",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), *configPath, args, port)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "HTTP server port (default from configuration)")
	return cmd
}
