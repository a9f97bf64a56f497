package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"jobsearch-analytics/pkg/registry"

	"github.com/spf13/cobra"
)

// workerData feeds the scaffold templates.
type workerData struct {
	Name         string
	PackageName  string
	TaskType     string
	Description  string
	InputFields  []field
	OutputFields []field
	Required     []string
}

type field struct {
	GoName  string
	GoType  string
	JSONTag string
	Comment string
}

var (
	scaffoldID     string
	scaffoldOutput string
	scaffoldForce  bool
)

var scaffoldCmd = &cobra.Command{
	Use:   "scaffold",
	Short: "Generate a worker package skeleton from a registry activity",
	RunE: func(cmd *cobra.Command, _ []string) error {
		reg, err := registry.LoadRegistry(registryPath)
		if err != nil {
			return fmt.Errorf("failed to load registry: %w", err)
		}
		activity, ok := reg.Find(scaffoldID)
		if !ok {
			return fmt.Errorf("activity %s not found in %s", scaffoldID, registryPath)
		}

		dir := filepath.Join(scaffoldOutput, activity.Category, activity.ID)
		files, err := scaffoldWorker(*activity, dir, scaffoldForce)
		if err != nil {
			return err
		}
		for _, f := range files {
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", f)
		}
		return nil
	},
}

func init() {
	scaffoldCmd.Flags().StringVar(&scaffoldID, "id", "", "Activity ID from the registry")
	scaffoldCmd.Flags().StringVar(&scaffoldOutput, "output", "internal/workers", "Root directory for generated workers")
	scaffoldCmd.Flags().BoolVar(&scaffoldForce, "force", false, "Overwrite existing files")
	if err := scaffoldCmd.MarkFlagRequired("id"); err != nil {
		panic(fmt.Sprintf("failed to mark id flag as required: %v", err))
	}
	rootCmd.AddCommand(scaffoldCmd)
}

func scaffoldWorker(activity registry.Activity, dir string, force bool) ([]string, error) {
	data := workerData{
		Name:         activity.DisplayName,
		PackageName:  strings.ReplaceAll(activity.ID, "-", ""),
		TaskType:     activity.TaskType,
		Description:  activity.Description,
		InputFields:  schemaFields(activity.InputSchema),
		OutputFields: schemaFields(activity.OutputSchema),
		Required:     requiredFields(activity.InputSchema),
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}

	var written []string
	for name, tmpl := range map[string]*template.Template{
		"config.go":  configTemplate,
		"models.go":  modelsTemplate,
		"handler.go": handlerTemplate,
	} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil && !force {
			return written, fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		f, err := os.Create(path)
		if err != nil {
			return written, err
		}
		err = tmpl.Execute(f, data)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return written, fmt.Errorf("render %s: %w", name, err)
		}
		written = append(written, path)
	}
	sort.Strings(written)
	return written, nil
}

// schemaFields turns the properties of a JSON schema object into struct
// fields, sorted by name so output is stable.
func schemaFields(schema map[string]interface{}) []field {
	props, _ := schema["properties"].(map[string]interface{})
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	required := make(map[string]bool)
	for _, r := range requiredFields(schema) {
		required[r] = true
	}

	fields := make([]field, 0, len(names))
	for _, name := range names {
		details, _ := props[name].(map[string]interface{})
		tag := name
		if !required[name] {
			tag += ",omitempty"
		}
		f := field{
			GoName:  goFieldName(name),
			GoType:  goTypeFromJSONType(details["type"]),
			JSONTag: fmt.Sprintf("`json:\"%s\"`", tag),
		}
		if format, ok := details["format"].(string); ok && format == "date-time" {
			f.Comment = " // RFC3339"
		}
		fields = append(fields, f)
	}
	return fields
}

func requiredFields(schema map[string]interface{}) []string {
	var out []string
	switch req := schema["required"].(type) {
	case []interface{}:
		for _, r := range req {
			if s, ok := r.(string); ok {
				out = append(out, s)
			}
		}
	case []string:
		out = append(out, req...)
	}
	return out
}

func goTypeFromJSONType(jsonType interface{}) string {
	switch jsonType {
	case "string":
		return "string"
	case "integer":
		return "int"
	case "number":
		return "float64"
	case "boolean":
		return "bool"
	case "object":
		return "map[string]interface{}"
	case "array":
		return "[]interface{}"
	default:
		return "interface{}"
	}
}

// goFieldName upper-cases the first letter and the common Id suffix.
func goFieldName(s string) string {
	if s == "" {
		return s
	}
	name := strings.ToUpper(s[:1]) + s[1:]
	if strings.HasSuffix(name, "Id") {
		name = strings.TrimSuffix(name, "Id") + "ID"
	}
	return name
}

var configTemplate = template.Must(template.New("config").Parse(`package {{ .PackageName }}

import (
	"time"

	"jobsearch-analytics/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func LoadConfig(wcfg config.WorkerConfig) *Config {
	timeout := config.GetDuration(wcfg.Timeout)
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Config{Timeout: timeout}
}
`))

var modelsTemplate = template.Must(template.New("models").Parse(`package {{ .PackageName }}

type Input struct {
{{- range .InputFields }}
	{{ .GoName }} {{ .GoType }} {{ .JSONTag }}{{ .Comment }}
{{- end }}
}

type Output struct {
{{- range .OutputFields }}
	{{ .GoName }} {{ .GoType }} {{ .JSONTag }}{{ .Comment }}
{{- end }}
}
`))

var handlerTemplate = template.Must(template.New("handler").Parse(`package {{ .PackageName }}

import (
	"context"

	"jobsearch-analytics/internal/common/camunda"
	"jobsearch-analytics/internal/common/logger"
	"jobsearch-analytics/internal/common/observability"
	"jobsearch-analytics/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "{{ .TaskType }}"
)

// Handler serves {{ .Name }}.{{ if .Description }} {{ .Description }}{{ end }}
type Handler struct {
	config    *Config
	validator *validation.SchemaValidator
	responder *camunda.Responder
	logger    logger.Logger
}

func NewHandler(config *Config, validator *validation.SchemaValidator, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		validator: validator,
		responder: camunda.NewResponder(TaskType, obs, log),
		logger:    log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := camunda.DecodeVariables(job, TaskType, h.validator, &input); err != nil {
		h.responder.Fail(ctx, client, job, err)
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.responder.Fail(ctx, client, job, err)
		return
	}

	h.responder.Complete(ctx, client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	return &Output{}, nil
}
`))
