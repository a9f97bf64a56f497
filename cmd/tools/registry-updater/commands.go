package main

import (
	"fmt"
	"strconv"
	"time"

	"jobsearch-analytics/pkg/registry"

	"github.com/spf13/cobra"
)

// ==========================
// list
// ==========================

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered activities",
	RunE: func(cmd *cobra.Command, _ []string) error {
		reg, err := registry.LoadRegistry(registryPath)
		if err != nil {
			return fmt.Errorf("failed to load registry: %w", err)
		}
		for _, a := range reg.Activities {
			fmt.Fprintf(cmd.OutOrStdout(), "%-32s %-14s %-12s %s\n", a.TaskType, a.Category, a.ImplementationStatus, a.DisplayName)
		}
		return nil
	},
}

// ==========================
// add
// ==========================

var addActivity registry.Activity

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new activity to the registry",
	RunE: func(cmd *cobra.Command, _ []string) error {
		now := time.Now()
		reg, err := loadOrCreate(registryPath, now)
		if err != nil {
			return err
		}

		activity := addActivity
		if activity.TaskType == "" {
			activity.TaskType = activity.ID
		}
		activity.InputSchema = map[string]interface{}{}
		activity.OutputSchema = map[string]interface{}{}
		activity.ErrorCodes = []string{}
		activity.Workflows = []string{}
		activity.Tags = []string{}

		if err := reg.Add(activity, now); err != nil {
			return err
		}
		if err := reg.Validate(); err != nil {
			return err
		}
		if err := reg.Save(registryPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added activity: %s\n", activity.ID)
		return nil
	},
}

// ==========================
// update
// ==========================

var (
	updateID    string
	updateField string
	updateValue string
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update one field of an existing activity",
	RunE: func(cmd *cobra.Command, _ []string) error {
		reg, err := registry.LoadRegistry(registryPath)
		if err != nil {
			return fmt.Errorf("failed to load registry: %w", err)
		}

		activity, ok := reg.Find(updateID)
		if !ok {
			return fmt.Errorf("activity with ID %s not found", updateID)
		}
		if err := applyUpdate(activity, updateField, updateValue); err != nil {
			return err
		}
		if err := reg.Validate(); err != nil {
			return err
		}

		reg.LastUpdated = time.Now().UTC().Format(time.RFC3339)
		if err := reg.Save(registryPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated activity %s, field %s to %s\n", updateID, updateField, updateValue)
		return nil
	},
}

func applyUpdate(a *registry.Activity, field, value string) error {
	switch field {
	case "status":
		a.ImplementationStatus = value
	case "version":
		a.Version = value
	case "displayName":
		a.DisplayName = value
	case "description":
		a.Description = value
	case "category":
		a.Category = value
	case "taskType":
		a.TaskType = value
	case "timeout":
		a.Timeout = value
	case "retries":
		retries, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid retries value: %w", err)
		}
		a.Retries = retries
	default:
		return fmt.Errorf("unknown field: %s", field)
	}
	return nil
}

// ==========================
// validate
// ==========================

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the registry file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		reg, err := registry.LoadRegistry(registryPath)
		if err != nil {
			return fmt.Errorf("failed to load registry: %w", err)
		}
		if err := reg.Validate(); err != nil {
			return fmt.Errorf("registry validation failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Registry validation passed. Found %d activities.\n", len(reg.Activities))
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&addActivity.ID, "id", "", "Activity ID (e.g., score-preparation)")
	addCmd.Flags().StringVar(&addActivity.DisplayName, "display-name", "", "Display name")
	addCmd.Flags().StringVar(&addActivity.Description, "description", "", "Description")
	addCmd.Flags().StringVar(&addActivity.Category, "category", "analytics", "Category")
	addCmd.Flags().StringVar(&addActivity.TaskType, "task-type", "", "Zeebe task type (defaults to the ID)")
	addCmd.Flags().StringVar(&addActivity.Version, "version", "1.0.0", "Version")
	addCmd.Flags().StringVar(&addActivity.ImplementationStatus, "status", "planned", "Implementation status (planned, in-progress, completed, verified)")
	addCmd.Flags().StringVar(&addActivity.Timeout, "timeout", "10s", "Job timeout")
	addCmd.Flags().IntVar(&addActivity.Retries, "retries", 0, "Retry count")
	for _, name := range []string{"id", "display-name"} {
		if err := addCmd.MarkFlagRequired(name); err != nil {
			panic(fmt.Sprintf("failed to mark %s flag as required: %v", name, err))
		}
	}

	updateCmd.Flags().StringVar(&updateID, "id", "", "Activity ID to update")
	updateCmd.Flags().StringVar(&updateField, "field", "", "Field to update (status, version, timeout, retries, ...)")
	updateCmd.Flags().StringVar(&updateValue, "value", "", "New value for the field")
	for _, name := range []string{"id", "field", "value"} {
		if err := updateCmd.MarkFlagRequired(name); err != nil {
			panic(fmt.Sprintf("failed to mark %s flag as required: %v", name, err))
		}
	}

	rootCmd.AddCommand(listCmd, addCmd, updateCmd, validateCmd)
}
