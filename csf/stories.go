package csf

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"text/template"

	"github.com/wasmbook/wasmbook/internal/ctxlog"
)

// storiesJS is the shape of one generated stories file: a default export
// with the viewer title and argTypes, a Template that calls the global
// render_story and throws on {error}, and a Default story carrying the
// descriptor defaults.
const storiesJS = `// Code generated by wasmbook. DO NOT EDIT.
{{- if .Import}}
import '{{.Import}}';
{{- end}}

export default {
  title: {{.Title}},
  argTypes: {{.ArgTypes}},
};

const Template = (args) => {
  const result = globalThis.{{.Global}}.render_story({{.Name}}, args);
  if (result.error) {
    throw new Error(result.error);
  }
  return result.node;
};

export const Default = Template.bind({});
Default.args = {{.Args}};
`

var storiesTmpl = template.Must(template.New("stories").Parse(storiesJS))

// storiesData feeds storiesTmpl. Name and Title arrive JSON-quoted; ArgTypes
// and Args arrive as indented JSON object literals.
type storiesData struct {
	Name     string
	Title    string
	Global   string
	Import   string
	ArgTypes string
	Args     string
}

// StoryJS renders the .stories.js source for one catalog entry.
func StoryJS(story Story, cfg *Config) ([]byte, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	global := cfg.Global
	if global == "" {
		global = DefaultGlobal
	}

	argTypes, err := jsonLiteral(story.ArgTypes, "  ")
	if err != nil {
		return nil, fmt.Errorf("story '%s': %w", story.Name, err)
	}
	args, err := jsonLiteral(defaultArgs(story), "")
	if err != nil {
		return nil, fmt.Errorf("story '%s': %w", story.Name, err)
	}

	data := storiesData{
		Name:     quote(story.Name),
		Title:    quote(cfg.titleFor(story.Name)),
		Global:   global,
		Import:   cfg.Import,
		ArgTypes: argTypes,
		Args:     args,
	}
	var buf bytes.Buffer
	if err := storiesTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("story '%s': %w", story.Name, err)
	}
	return buf.Bytes(), nil
}

// WriteStories emits one <Name>.stories.js per catalog entry into cfg.OutDir,
// creating the directory if needed. Every per-story config block must name a
// catalog entry; an unknown name fails the whole run before any file is
// written.
func WriteStories(ctx context.Context, stories []Story, cfg *Config) error {
	logger := ctxlog.FromContext(ctx)
	if cfg == nil {
		cfg = DefaultConfig()
	}

	names := make(map[string]struct{}, len(stories))
	for _, story := range stories {
		names[story.Name] = struct{}{}
	}
	for _, sc := range cfg.Stories {
		if _, ok := names[sc.Name]; !ok {
			return fmt.Errorf("config story '%s' does not exist in the catalog", sc.Name)
		}
	}

	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	for _, story := range stories {
		src, err := StoryJS(story, cfg)
		if err != nil {
			return err
		}
		path := filepath.Join(cfg.OutDir, story.Name+".stories.js")
		if err := os.WriteFile(path, src, 0o644); err != nil {
			return fmt.Errorf("write stories file: %w", err)
		}
		logger.Debug("Wrote stories file.", "path", path)
	}
	logger.Info("Stories generation finished.", "count", len(stories), "dir", cfg.OutDir)
	return nil
}

// defaultArgs converts the string-encoded defaults into naturally typed
// values for the Default story: numbers and booleans become literals,
// everything else stays a string.
func defaultArgs(story Story) map[string]any {
	args := make(map[string]any)
	for name, at := range story.ArgTypes {
		if at.Default == nil {
			continue
		}
		def := *at.Default
		switch at.Type {
		case "number":
			if n, err := strconv.ParseFloat(def, 64); err == nil {
				args[name] = n
				continue
			}
			args[name] = def
		case "boolean":
			if b, err := strconv.ParseBool(def); err == nil {
				args[name] = b
				continue
			}
			args[name] = def
		default:
			args[name] = def
		}
	}
	return args
}

// jsonLiteral renders v as an indented JSON literal that reads naturally
// inside the generated file; prefix matches the indentation of the line the
// literal starts on.
func jsonLiteral(v any, prefix string) (string, error) {
	out, err := json.MarshalIndent(v, prefix, "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func quote(s string) string {
	out, _ := json.Marshal(s)
	return string(out)
}
