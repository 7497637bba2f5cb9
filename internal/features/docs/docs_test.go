package docs

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polo-charts/internal/config"
)

func poloProject() config.ProjectConfig {
	return config.ProjectConfig{
		Name:      "POLO",
		Author:    "Arda Aytekin, Martin Biel, Mikael Johansson",
		Copyright: "2018, Arda Aytekin, Martin Biel, Mikael Johansson",
	}
}

func poloDocs(dir string) config.DocsConfig {
	return config.DocsConfig{
		SourceDir:        filepath.Join(dir, "docs"),
		BuildDir:         filepath.Join(dir, "docs", "_build"),
		Builder:          "html",
		Timeout:          10,
		Extensions:       []string{"sphinx.ext.mathjax"},
		TemplatesPath:    []string{"_templates"},
		SourceSuffix:     ".rst",
		MasterDoc:        "index",
		ExcludePatterns:  []string{"_build", "Thumbs.db", ".DS_Store"},
		Numfig:           true,
		HTMLTheme:        "sphinx_rtd_theme",
		HTMLStaticPath:   []string{"_static"},
		HTMLCSSFiles:     []string{"css/custom.css"},
		HTMLHelpBasename: "POLOdoc",
		Authors:          []string{"Arda Aytekin", "Martin Biel", "Mikael Johansson"},
		Description:      "POLO: a POLicy-based Optimization library",
		Category:         "Miscellaneous",
		LatexClass:       "manual",
		EpubExcludeFiles: []string{"search.html"},
	}
}

func TestWriteConf(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteConf(&buf, poloProject(), poloDocs(t.TempDir())))
	conf := buf.String()

	for _, line := range []string{
		"project = 'POLO'",
		"version = ''",
		"extensions = ['sphinx.ext.mathjax']",
		"language = None",
		"pygments_style = None",
		"exclude_patterns = ['_build', 'Thumbs.db', '.DS_Store']",
		"numfig = True",
		"html_css_files = ['css/custom.css']",
		"htmlhelp_basename = 'POLOdoc'",
		`'Arda Aytekin \\and Martin Biel \\and Mikael Johansson', 'manual', False),`,
		"(master_doc, 'polo', 'POLO Documentation', [author], 1),",
		"'Arda Aytekin@*Martin Biel@*Mikael Johansson', 'POLO',",
		"'POLO: a POLicy-based Optimization library', 'Miscellaneous', False),",
		"epub_exclude_files = ['search.html']",
	} {
		assert.Contains(t, conf, line)
	}
}

func TestWriteConfRequiresProject(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, WriteConf(&buf, config.ProjectConfig{}, config.DocsConfig{}))
}

func TestPyString(t *testing.T) {
	assert.Equal(t, `'it\'s'`, pyString("it's"))
	assert.Equal(t, `'a\\b'`, pyString(`a\b`))
	assert.Equal(t, "None", pyOptional(""))
	assert.Equal(t, "[]", pyList(nil))
	assert.Equal(t, "False", pyBool(false))
}

func TestBuildRunsSphinx(t *testing.T) {
	dir := t.TempDir()
	docs := poloDocs(dir)
	require.NoError(t, os.MkdirAll(docs.SourceDir, 0755))

	// stand-in for sphinx-build: records its arguments in the output dir
	fake := filepath.Join(dir, "fake-sphinx")
	script := "#!/bin/sh\nmkdir -p \"$4\"\necho \"$@\" > \"$4/args\"\n"
	require.NoError(t, os.WriteFile(fake, []byte(script), 0755))
	docs.SphinxBuild = fake

	out, err := Build(context.Background(), poloProject(), docs)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(docs.BuildDir, "html"), out)

	args, err := os.ReadFile(filepath.Join(out, "args"))
	require.NoError(t, err)
	assert.Equal(t, "-b html "+docs.SourceDir+" "+out, strings.TrimSpace(string(args)))

	_, err = os.Stat(filepath.Join(docs.SourceDir, "conf.py"))
	assert.NoError(t, err)
}

func TestBuildFailure(t *testing.T) {
	dir := t.TempDir()
	docs := poloDocs(dir)
	require.NoError(t, os.MkdirAll(docs.SourceDir, 0755))

	fake := filepath.Join(dir, "failing-sphinx")
	require.NoError(t, os.WriteFile(fake, []byte("#!/bin/sh\necho 'Sphinx error' >&2\nexit 2\n"), 0755))
	docs.SphinxBuild = fake

	_, err := Build(context.Background(), poloProject(), docs)
	assert.Error(t, err)
}
