package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/goliatone/go-formkit/pkg/fields"
	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/openapi"
	"github.com/goliatone/go-formkit/pkg/parser"
	"github.com/goliatone/go-formkit/pkg/renderers/html"
	"github.com/goliatone/go-formkit/pkg/renderers/tui"
	"github.com/goliatone/go-formkit/pkg/schema"
)

func main() {
	source := flag.String("source", "schema.json", "schema document path (JSON or YAML)")
	fromOpenAPI := flag.Bool("openapi", false, "treat the source as an OpenAPI document")
	operation := flag.String("operation", "", "operation ID when importing from OpenAPI")
	mode := flag.String("mode", "html", "output mode: html or prompt")
	output := flag.String("output", "", "output file (stdout if empty)")
	flag.Parse()

	ctx := context.Background()

	formSchema, err := loadSchema(ctx, *source, *fromOpenAPI, *operation)
	if err != nil {
		log.Fatalf("Failed to load schema: %v", err)
	}

	parsed, err := parser.Parse(formSchema)
	if err != nil {
		log.Fatalf("Failed to parse schema: %v", err)
	}

	switch strings.ToLower(*mode) {
	case "prompt":
		runPrompt(ctx, parsed)
	default:
		renderHTML(ctx, parsed, *output)
	}
}

func loadSchema(ctx context.Context, source string, fromOpenAPI bool, operation string) (*schema.FormSchema, error) {
	if fromOpenAPI {
		if operation == "" {
			return nil, fmt.Errorf("-operation is required with -openapi")
		}
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, err
		}
		return openapi.NewImporter().FormSchema(ctx, data, operation)
	}
	return schema.LoadFile(source)
}

func renderHTML(ctx context.Context, parsed *parser.ParsedSchema, output string) {
	engine, err := html.NewEngine()
	if err != nil {
		log.Fatalf("Failed to build template engine: %v", err)
	}
	registry := fields.NewRegistry()
	if err := html.RegisterDefaults(registry, engine); err != nil {
		log.Fatalf("Failed to register renderers: %v", err)
	}

	controller := form.NewController(parsed)
	dispatcher := fields.NewDispatcher(registry)
	nodes := dispatcher.RenderAll(ctx, parsed, controller.RenderContext())

	var b strings.Builder
	for _, node := range nodes {
		if node.Fallback {
			fmt.Fprintf(&b, "<!-- %s -->\n", node.Diagnostic)
			continue
		}
		b.WriteString(node.Markup)
		b.WriteString("\n")
	}

	if output != "" {
		if err := os.WriteFile(output, []byte(b.String()), 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("Form written to %s\n", output)
		return
	}
	fmt.Println(b.String())
}

func runPrompt(ctx context.Context, parsed *parser.ParsedSchema) {
	controller := form.NewController(parsed, form.WithEvents(form.Events{
		Submit: func(_ context.Context, values map[string]any) error {
			fmt.Println("Submitted values:")
			for key, value := range values {
				fmt.Printf("  %s: %v\n", key, value)
			}
			return nil
		},
	}))

	session := tui.NewSession(parsed, controller)
	if err := session.Run(ctx); err != nil {
		log.Fatalf("Prompt session failed: %v", err)
	}
}
