// Package prompts renders the embedded model prompt templates.
package prompts

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"
	"text/template"

	"gopkg.in/yaml.v3"
)

// ExtractRequirements is the catalog-page requirements prompt. It takes
// Source and Text fields.
const ExtractRequirements = "extract-requirements"

//go:embed prompts.yaml
var promptsYAML []byte

type entry struct {
	Description string   `yaml:"description"`
	Fields      []string `yaml:"fields"`
	Template    string   `yaml:"template"`
}

type prompt struct {
	fields []string
	tmpl   *template.Template
}

var load = sync.OnceValues(func() (map[string]prompt, error) {
	return parse(promptsYAML)
})

func parse(data []byte) (map[string]prompt, error) {
	var entries map[string]entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode prompts: %w", err)
	}

	out := make(map[string]prompt, len(entries))
	for name, e := range entries {
		if strings.TrimSpace(e.Template) == "" {
			return nil, fmt.Errorf("prompt %q has no template", name)
		}
		tmpl, err := template.New(name).Option("missingkey=error").Parse(e.Template)
		if err != nil {
			return nil, fmt.Errorf("prompt %q: %w", name, err)
		}
		out[name] = prompt{fields: e.Fields, tmpl: tmpl}
	}
	return out, nil
}

// Render fills the named prompt with fields. Every field the prompt declares
// must be present and non-empty.
func Render(name string, fields map[string]string) (string, error) {
	all, err := load()
	if err != nil {
		return "", err
	}
	return render(all, name, fields)
}

func render(all map[string]prompt, name string, fields map[string]string) (string, error) {
	p, ok := all[name]
	if !ok {
		return "", fmt.Errorf("unknown prompt %q", name)
	}
	for _, f := range p.fields {
		if strings.TrimSpace(fields[f]) == "" {
			return "", fmt.Errorf("prompt %q requires field %s", name, f)
		}
	}

	var b strings.Builder
	if err := p.tmpl.Execute(&b, fields); err != nil {
		return "", fmt.Errorf("failed to render prompt %q: %w", name, err)
	}
	return b.String(), nil
}

// Names lists the embedded prompts in sorted order.
func Names() []string {
	all, err := load()
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
