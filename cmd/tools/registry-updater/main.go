// cmd/tools/registry-updater/main.go
package main

import (
	"fmt"
	"os"
	"time"

	"jobsearch-analytics/pkg/registry"

	"github.com/spf13/cobra"
)

var registryPath string

var rootCmd = &cobra.Command{
	Use:          "registry-updater",
	Short:        "Maintain the activity registry served by the worker manager",
	Long:         "Manages the activities in configs/activity-registry.json.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&registryPath, "path", "configs/activity-registry.json", "Path to registry file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadOrCreate returns an empty registry when the file does not exist yet.
func loadOrCreate(path string, now time.Time) (*registry.ActivityRegistry, error) {
	reg, err := registry.LoadRegistry(path)
	if err == nil {
		return reg, nil
	}
	if os.IsNotExist(err) {
		return &registry.ActivityRegistry{
			Version:     "1.0.0",
			LastUpdated: now.UTC().Format(time.RFC3339),
			Activities:  []registry.Activity{},
		}, nil
	}
	return nil, fmt.Errorf("failed to load registry: %w", err)
}
