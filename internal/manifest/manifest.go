// Package manifest declares the figures a project renders, as a YAML file
// listing each figure's input, panels or variants.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"polo-charts/internal/features/charts"
	"polo-charts/internal/table"
)

// ErrInvalid marks manifest validation failures.
var ErrInvalid = errors.New("invalid manifest")

// DefaultInputTemplate names variant inputs after the figure.
const DefaultInputTemplate = "{name}-{variant}.csv"

type Manifest struct {
	Figures []FigureSpec `yaml:"figures"`
}

// FigureSpec is either a panel figure (Panels set) or a variant figure
// (Variants and Panel set).
type FigureSpec struct {
	Name   string      `yaml:"name"`
	Input  string      `yaml:"input,omitempty"`
	ShareY bool        `yaml:"share_y,omitempty"`
	Rows   int         `yaml:"rows,omitempty"`
	Cols   int         `yaml:"cols,omitempty"`
	Panels []PanelSpec `yaml:"panels,omitempty"`

	Variants      []string   `yaml:"variants,omitempty"`
	Panel         *PanelSpec `yaml:"panel,omitempty"`
	InputTemplate string     `yaml:"input_template,omitempty"`
}

type PanelSpec struct {
	X      int    `yaml:"x"`
	Y      int    `yaml:"y"`
	XKind  string `yaml:"x_kind,omitempty"`
	YKind  string `yaml:"y_kind,omitempty"`
	XLabel string `yaml:"xlabel,omitempty"`
	YLabel string `yaml:"ylabel,omitempty"`
	Title  string `yaml:"title,omitempty"`
	Input  string `yaml:"input,omitempty"`
}

// Load reads and validates a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse decodes a single YAML document, rejecting unknown fields.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}
	var extra interface{}
	if err := dec.Decode(&extra); err == nil {
		return nil, fmt.Errorf("multiple YAML documents are not supported")
	} else if !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed after first YAML document: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Encode writes the manifest as YAML.
func (m *Manifest) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return err
	}
	return enc.Close()
}

// Validate checks every figure and reports the first problem found.
func (m *Manifest) Validate() error {
	if len(m.Figures) == 0 {
		return fmt.Errorf("%w: no figures", ErrInvalid)
	}
	seen := make(map[string]bool, len(m.Figures))
	for i, f := range m.Figures {
		name := strings.TrimSpace(f.Name)
		if name == "" {
			return fmt.Errorf("%w: figure %d has no name", ErrInvalid, i)
		}
		if seen[name] {
			return fmt.Errorf("%w: duplicate figure %q", ErrInvalid, name)
		}
		seen[name] = true
		if _, err := f.Figure(); err != nil {
			return err
		}
	}
	return nil
}

// Find returns the figure spec with the given name.
func (m *Manifest) Find(name string) (FigureSpec, bool) {
	for _, f := range m.Figures {
		if f.Name == name {
			return f, true
		}
	}
	return FigureSpec{}, false
}

// Expand converts every entry into a renderable figure.
func (m *Manifest) Expand() ([]charts.Figure, error) {
	out := make([]charts.Figure, 0, len(m.Figures))
	for _, f := range m.Figures {
		fig, err := f.Figure()
		if err != nil {
			return nil, err
		}
		out = append(out, fig)
	}
	return out, nil
}

// Figure expands the entry into a renderable figure.
func (f FigureSpec) Figure() (charts.Figure, error) {
	hasPanels := len(f.Panels) > 0
	hasVariants := len(f.Variants) > 0
	switch {
	case hasPanels && hasVariants:
		return charts.Figure{}, fmt.Errorf("%w: %s: panels and variants are exclusive", ErrInvalid, f.Name)
	case !hasPanels && !hasVariants:
		return charts.Figure{}, fmt.Errorf("%w: %s: needs panels or variants", ErrInvalid, f.Name)
	}

	var fig charts.Figure
	if hasVariants {
		if f.Panel == nil {
			return charts.Figure{}, fmt.Errorf("%w: %s: variants need a panel", ErrInvalid, f.Name)
		}
		for _, v := range f.Variants {
			if strings.TrimSpace(v) == "" {
				return charts.Figure{}, fmt.Errorf("%w: %s: empty variant name", ErrInvalid, f.Name)
			}
		}
		p, err := f.Panel.panel()
		if err != nil {
			return charts.Figure{}, fmt.Errorf("%w: %s: %v", ErrInvalid, f.Name, err)
		}
		tmpl := f.InputTemplate
		if tmpl == "" {
			tmpl = DefaultInputTemplate
		}
		fig = charts.VariantFigure(f.Name, f.Variants, p, tmpl)
	} else {
		fig = charts.Figure{Name: f.Name, Input: f.Input, ShareY: f.ShareY}
		for i, ps := range f.Panels {
			p, err := ps.panel()
			if err != nil {
				return charts.Figure{}, fmt.Errorf("%w: %s panel %d: %v", ErrInvalid, f.Name, i, err)
			}
			fig.Panels = append(fig.Panels, p)
		}
	}
	fig.Rows, fig.Cols = f.Rows, f.Cols

	if err := fig.Validate(); err != nil {
		return charts.Figure{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return fig, nil
}

func (p PanelSpec) panel() (charts.Panel, error) {
	xk, err := table.ParseKind(p.XKind)
	if err != nil {
		return charts.Panel{}, fmt.Errorf("x: %w", err)
	}
	yk, err := table.ParseKind(p.YKind)
	if err != nil {
		return charts.Panel{}, fmt.Errorf("y: %w", err)
	}
	return charts.Panel{
		X:      table.Column{Index: p.X, Kind: xk},
		Y:      table.Column{Index: p.Y, Kind: yk},
		XLabel: p.XLabel,
		YLabel: p.YLabel,
		Title:  p.Title,
		Source: p.Input,
	}, nil
}
