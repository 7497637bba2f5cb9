// Package docs generates the Sphinx configuration for the project manual and
// drives sphinx-build.
package docs

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/template"

	"polo-charts/internal/config"
	"polo-charts/internal/infra/fs"
)

const confTemplate = `# Configuration file for the Sphinx documentation builder.
# Generated by polo-charts; edit config.yaml instead.

# -- Project information -----------------------------------------------------

project = {{py .Project.Name}}
author = {{py .Project.Author}}
copyright = {{py .Project.Copyright}}
version = {{py .Project.Version}}
release = {{py .Project.Release}}

# -- General configuration ---------------------------------------------------

extensions = {{list .Docs.Extensions}}
templates_path = {{list .Docs.TemplatesPath}}
source_suffix = {{py .Docs.SourceSuffix}}
master_doc = {{py .Docs.MasterDoc}}
language = {{opt .Docs.Language}}
exclude_patterns = {{list .Docs.ExcludePatterns}}
pygments_style = {{opt .Docs.PygmentsStyle}}
numfig = {{bool .Docs.Numfig}}

# -- Options for HTML output -------------------------------------------------

html_theme = {{py .Docs.HTMLTheme}}
html_static_path = {{list .Docs.HTMLStaticPath}}
html_css_files = {{list .Docs.HTMLCSSFiles}}

# -- Options for HTMLHelp output ---------------------------------------------

htmlhelp_basename = {{py .Docs.HTMLHelpBasename}}

# -- Options for LaTeX output ------------------------------------------------

latex_documents = [
  (master_doc, {{py .LatexFile}}, {{py .Docs.Title}},
    {{py .LatexAuthors}}, {{py .Docs.LatexClass}}, False),
]

# -- Options for manual page output ------------------------------------------

man_pages = [
  (master_doc, {{py .ManName}}, {{py .Docs.Title}}, [author], {{.Docs.ManSection}}),
]

# -- Options for Texinfo output ----------------------------------------------

texinfo_documents = [
  (master_doc, {{py .Project.Name}}, {{py .Docs.Title}},
    {{py .TexinfoAuthors}}, {{py .Project.Name}},
    {{py .Docs.Description}}, {{py .Docs.Category}}, False),
]

# -- Options for Epub output -------------------------------------------------

epub_title = project
epub_exclude_files = {{list .Docs.EpubExcludeFiles}}
`

var confTmpl = template.Must(template.New("conf.py").Funcs(template.FuncMap{
	"py":   pyString,
	"opt":  pyOptional,
	"list": pyList,
	"bool": pyBool,
}).Parse(confTemplate))

type confData struct {
	Project        config.ProjectConfig
	Docs           config.DocsConfig
	LatexFile      string
	LatexAuthors   string
	TexinfoAuthors string
	ManName        string
}

// WriteConf renders conf.py for the given project and docs settings.
func WriteConf(w io.Writer, project config.ProjectConfig, docs config.DocsConfig) error {
	if strings.TrimSpace(project.Name) == "" {
		return fmt.Errorf("project name is required for conf.py")
	}
	data := confData{
		Project:        project,
		Docs:           docs,
		LatexFile:      project.Name + ".tex",
		LatexAuthors:   strings.Join(docs.Authors, ` \and `),
		TexinfoAuthors: strings.Join(docs.Authors, "@*"),
		ManName:        strings.ToLower(project.Name),
	}
	if data.Docs.Title == "" {
		data.Docs.Title = project.Name + " Documentation"
	}
	if data.Docs.ManSection == 0 {
		data.Docs.ManSection = 1
	}
	if err := confTmpl.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render conf.py: %w", err)
	}
	return nil
}

// SaveConf writes <source_dir>/conf.py atomically and returns its path.
func SaveConf(project config.ProjectConfig, docs config.DocsConfig) (string, error) {
	var buf bytes.Buffer
	if err := WriteConf(&buf, project, docs); err != nil {
		return "", err
	}
	path := filepath.Join(docs.SourceDir, "conf.py")
	if err := fs.WriteFileAtomic(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

var pyEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`)

func pyString(s string) string {
	return "'" + pyEscaper.Replace(s) + "'"
}

// pyOptional maps an empty value to None.
func pyOptional(s string) string {
	if s == "" {
		return "None"
	}
	return pyString(s)
}

func pyList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = pyString(s)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func pyBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
