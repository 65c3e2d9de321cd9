package reminder

import (
	"bytes"
	"fmt"
	"os"
	"text/template"

	"gopkg.in/yaml.v3"
)

// Default message templates. Any of them can be overridden per deployment
// through a YAML templates file.
const (
	defaultLineTemplate = `{{.Seq}}. {{.Title}} - {{.Link}} ({{.Words}} words)
    This was created on {{.Created}}{{.Modified}}.

`
	defaultHeaderSingle = `Howdy!

This is your {{.When}} reminder that you have an outstanding draft that requires your attention:

`
	defaultHeaderPlural = `Howdy!

This is your {{.When}} reminder that you have {{.Count}} outstanding drafts that require your attention:

`
	defaultSubjectSingle = `[{{.Site}}] You have an outstanding draft`
	defaultSubjectPlural = `[{{.Site}}] You have {{.Count}} outstanding drafts`
)

// templateOverrides mirrors the YAML templates file. Empty fields keep their
// defaults.
type templateOverrides struct {
	Line          string `yaml:"line"`
	HeaderSingle  string `yaml:"header_single"`
	HeaderPlural  string `yaml:"header_plural"`
	SubjectSingle string `yaml:"subject_single"`
	SubjectPlural string `yaml:"subject_plural"`
}

// LineData is the field set available to the line template.
type LineData struct {
	Seq      int
	Title    string
	Link     string
	Words    int
	Created  string
	Modified string // empty, or a pre-rendered " and last edited on ..." clause
}

type headerData struct {
	When  string
	Count int
}

type subjectData struct {
	Site  string
	Count int
}

// Templates holds the compiled reminder message templates.
type Templates struct {
	line          *template.Template
	headerSingle  *template.Template
	headerPlural  *template.Template
	subjectSingle *template.Template
	subjectPlural *template.Template
}

// LoadTemplates compiles the message templates, applying overrides from the
// given YAML file when path is non-empty.
func LoadTemplates(path string) (*Templates, error) {
	overrides := templateOverrides{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read templates file: %w", err)
		}
		if err := yaml.Unmarshal(data, &overrides); err != nil {
			return nil, fmt.Errorf("failed to parse templates file: %w", err)
		}
	}

	t := &Templates{}
	var err error

	if t.line, err = compile("line", overrides.Line, defaultLineTemplate); err != nil {
		return nil, err
	}
	if t.headerSingle, err = compile("header_single", overrides.HeaderSingle, defaultHeaderSingle); err != nil {
		return nil, err
	}
	if t.headerPlural, err = compile("header_plural", overrides.HeaderPlural, defaultHeaderPlural); err != nil {
		return nil, err
	}
	if t.subjectSingle, err = compile("subject_single", overrides.SubjectSingle, defaultSubjectSingle); err != nil {
		return nil, err
	}
	if t.subjectPlural, err = compile("subject_plural", overrides.SubjectPlural, defaultSubjectPlural); err != nil {
		return nil, err
	}

	if err := t.validate(); err != nil {
		return nil, err
	}

	return t, nil
}

func compile(name, override, fallback string) (*template.Template, error) {
	text := override
	if text == "" {
		text = fallback
	}

	tmpl, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("invalid %s template: %w", name, err)
	}

	return tmpl, nil
}

// validate renders every template once against sample data so that a broken
// override fails at startup instead of mid-pass.
func (t *Templates) validate() error {
	if _, err := t.RenderLine(LineData{Seq: 1, Title: "t", Link: "l", Words: 1, Created: "c"}); err != nil {
		return fmt.Errorf("line template does not render: %w", err)
	}
	if _, err := t.RenderHeader("weekly", 1); err != nil {
		return fmt.Errorf("header template does not render: %w", err)
	}
	if _, err := t.RenderHeader("weekly", 2); err != nil {
		return fmt.Errorf("header template does not render: %w", err)
	}
	if _, err := t.RenderSubject("s", 1); err != nil {
		return fmt.Errorf("subject template does not render: %w", err)
	}
	if _, err := t.RenderSubject("s", 2); err != nil {
		return fmt.Errorf("subject template does not render: %w", err)
	}
	return nil
}

func (t *Templates) RenderLine(data LineData) (string, error) {
	return render(t.line, data)
}

// RenderHeader renders the greeting above the draft list. The wording
// differs between one draft and several.
func (t *Templates) RenderHeader(when string, count int) (string, error) {
	tmpl := t.headerPlural
	if count == 1 {
		tmpl = t.headerSingle
	}
	return render(tmpl, headerData{When: when, Count: count})
}

func (t *Templates) RenderSubject(site string, count int) (string, error) {
	tmpl := t.subjectPlural
	if count == 1 {
		tmpl = t.subjectSingle
	}
	return render(tmpl, subjectData{Site: site, Count: count})
}

func render(tmpl *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
