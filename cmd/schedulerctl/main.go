// schedulerctl drives the scheduler core standalone: it builds a small
// demo framework-element tree, wires a ThreadContainer over it and either
// runs it continuously or ticks it once; its status command prints the
// loaded configuration.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/care/orion-scheduler/internal/config"
	"github.com/care/orion-scheduler/internal/graph"
	"github.com/care/orion-scheduler/internal/logging"
)

const version = "0.1.0"

var (
	configPath string
	debug      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "schedulerctl",
		Short:   "Run and inspect the periodic task scheduler core",
		Version: version,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "scheduler.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(onceCmd())
	rootCmd.AddCommand(statusCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfigAndLog() (*config.Config, error) {
	logging.Setup(debug)
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	slog.Info("scheduler: configuration loaded", "config", configPath, "instance", cfg.InstanceID, "containers", len(cfg.Containers))
	return cfg, nil
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start every configured container and run until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfigAndLog()
			if err != nil {
				return err
			}

			runtime := graph.NewRuntime(graph.NewElement("root", graph.Ready))
			profiling := config.NewProfilingFlag(cfg.ProfilingEnabled)

			containers := make([]interface{ Pause() error }, 0, len(cfg.Containers))
			for _, cc := range cfg.Containers {
				c := buildDemoContainer(runtime, cc, profiling)
				if err := c.Start(); err != nil {
					return fmt.Errorf("scheduler: starting container %s: %w", cc.Name, err)
				}
				containers = append(containers, c)
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			sig := <-sigCh
			slog.Info("scheduler: received shutdown signal", "signal", sig)

			for _, c := range containers {
				_ = c.Pause()
			}
			return nil
		},
	}
}

func onceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "once",
		Short: "Run exactly one manual cycle of the first configured container",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfigAndLog()
			if err != nil {
				return err
			}
			if len(cfg.Containers) == 0 {
				return fmt.Errorf("scheduler: no containers configured")
			}

			runtime := graph.NewRuntime(graph.NewElement("root", graph.Ready))
			profiling := config.NewProfilingFlag(cfg.ProfilingEnabled)
			c := buildDemoContainer(runtime, cfg.Containers[0], profiling)

			if err := c.ExecuteCycle(); err != nil {
				return err
			}
			slog.Info("scheduler: manual cycle executed", "container", cfg.Containers[0].Name)
			return nil
		},
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the loaded configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfigAndLog()
			if err != nil {
				return err
			}
			fmt.Printf("instance: %s\n", cfg.InstanceID)
			fmt.Printf("profiling_enabled: %v\n", cfg.ProfilingEnabled)
			for _, cc := range cfg.Containers {
				fmt.Printf("container %-20s cycle_time=%-10s realtime=%v warn_on_overrun=%v\n",
					cc.Name, cc.CycleTime, cc.RealtimeThread, cc.WarnOnCycleTimeExceed)
			}
			return nil
		},
	}
}
