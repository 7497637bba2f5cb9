// Package charts renders figures of line plots read from numeric logs to
// SVG, PDF and PNG files.
package charts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"polo-charts/internal/infra/fs"
	logging "polo-charts/internal/infra/log"
	"polo-charts/internal/table"

	"go.uber.org/zap"
)

// ErrOutputWrite is returned when an output file cannot be written.
var ErrOutputWrite = errors.New("output write failed")

// DefaultHeightIn is the figure height in inches.
const DefaultHeightIn = 4.8

// Options configure a Renderer. Zero values fall back to defaults.
type Options struct {
	OutputDir string
	Formats   []Format
	HeightIn  float64
	DPI       float64
	Font      *Font
	Style     Style
	Meta      Metadata
}

// Renderer turns figures into files. It is safe for concurrent use: the font
// is read-only and each Render builds its own faces and canvases.
type Renderer struct {
	opts Options
}

// NewRenderer applies defaults to opts.
func NewRenderer(opts Options) *Renderer {
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	if len(opts.Formats) == 0 {
		opts.Formats = DefaultFormats
	}
	if opts.HeightIn <= 0 {
		opts.HeightIn = DefaultHeightIn
	}
	if opts.DPI <= 0 {
		opts.DPI = 100
	}
	if opts.Font == nil {
		opts.Font = DefaultFont()
	}
	if opts.Style == (Style{}) {
		opts.Style = DefaultStyle()
	} else {
		opts.Style = opts.Style.withDefaults()
	}
	return &Renderer{opts: opts}
}

// OutputFile is one written file.
type OutputFile struct {
	Format Format
	Path   string
	Size   int64
}

// Result describes a rendered figure.
type Result struct {
	Figure string
	Series []XY
	Files  []OutputFile
}

// File returns the output written in format f, if any.
func (r *Result) File(f Format) (OutputFile, bool) {
	for _, of := range r.Files {
		if of.Format == f {
			return of, true
		}
	}
	return OutputFile{}, false
}

// Render reads inputPath, draws one panel per spec and writes
// <base>.svg and <base>.pdf to the working directory.
func Render(inputPath string, panels []Panel, base string) (*Result, error) {
	return NewRenderer(Options{}).Render(context.Background(), Figure{Name: base, Input: inputPath, Panels: panels})
}

// Render loads every input of fig, lays it out and writes each configured
// format. All inputs are parsed before anything is written, so a malformed
// row leaves no output behind.
func (r *Renderer) Render(ctx context.Context, fig Figure) (*Result, error) {
	startTime := time.Now()

	if err := fig.Validate(); err != nil {
		return nil, err
	}

	data, err := loadPanels(fig)
	if err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	m := newMeasurer(r.opts.Font)
	fl := layoutFigure(fig, data, m, r.opts.Style, r.opts.HeightIn*72)

	meta := r.opts.Meta
	if meta.Subject == "" {
		meta.Subject = fig.Name
	}

	encoded := make([][]byte, len(r.opts.Formats))
	for i, format := range r.opts.Formats {
		canvas, err := newCanvas(format, fl.Width, fl.Height, r.opts.Font, r.opts.DPI, meta)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s canvas: %w", format, err)
		}
		drawFigure(canvas, fl, m)

		var buf bytes.Buffer
		if err := canvas.Encode(&buf); err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", format, err)
		}
		encoded[i] = buf.Bytes()
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	result := &Result{Figure: fig.Name, Series: data}
	for i, format := range r.opts.Formats {
		path := filepath.Join(r.opts.OutputDir, fig.Name+"."+string(format))
		if err := fs.WriteFileAtomic(path, encoded[i], 0644); err != nil {
			logging.LogError("Failed to write chart", zap.String("filename", path), zap.Error(err))
			return nil, fmt.Errorf("%w: %v", ErrOutputWrite, err)
		}
		size, err := fs.NonEmptyFileSize(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrOutputWrite, err)
		}
		result.Files = append(result.Files, OutputFile{Format: format, Path: path, Size: size})
	}

	logging.LogInfo("Chart generated successfully",
		zap.String("figure", fig.Name),
		zap.Int("panels", len(fig.Panels)),
		zap.Int("files", len(result.Files)),
		zap.Int64("duration_ms", time.Since(startTime).Milliseconds()))

	return result, nil
}

// RenderVariants renders one panel per variant, reading
// <base>-<variant>.csv for each and titling the panel with the variant name.
func (r *Renderer) RenderVariants(ctx context.Context, base string, variants []string, panel Panel) (*Result, error) {
	return r.Render(ctx, VariantFigure(base, variants, panel, DefaultVariantTemplate))
}

// loadPanels reads each distinct input once with the union of the columns
// its panels need.
func loadPanels(fig Figure) ([]XY, error) {
	var order []string
	needs := make(map[string][]table.Column)
	for _, p := range fig.Panels {
		src := fig.source(p)
		if _, ok := needs[src]; !ok {
			order = append(order, src)
		}
		needs[src] = append(needs[src], p.X, p.Y)
	}

	tables := make(map[string]*table.Table, len(order))
	for _, src := range order {
		t, err := table.Load(src, needs[src])
		if err != nil {
			return nil, err
		}
		logging.LogDebug("Loaded chart input",
			zap.String("figure", fig.Name),
			zap.String("path", src),
			zap.Int("rows", t.Len()))
		tables[src] = t
	}

	data := make([]XY, len(fig.Panels))
	for i, p := range fig.Panels {
		t := tables[fig.source(p)]
		data[i] = XY{X: t.Column(p.X.Index), Y: t.Column(p.Y.Index)}
	}
	return data, nil
}
