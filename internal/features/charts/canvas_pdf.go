package charts

import (
	"image/color"
	"io"

	"github.com/go-pdf/fpdf"
)

const pdfFontFamily = "figure"

type pdfCanvas struct {
	pdf *fpdf.Fpdf
}

func newPDFCanvas(width, height float64, f *Font, meta Metadata) (*pdfCanvas, error) {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: width, Ht: height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddUTF8FontFromBytes(pdfFontFamily, "", f.TTF)

	creator := meta.Creator
	if creator == "" {
		creator = "polo-charts"
	}
	pdf.SetCreator(creator, true)
	if meta.Title != "" {
		pdf.SetTitle(meta.Title, true)
	}
	if meta.Author != "" {
		pdf.SetAuthor(meta.Author, true)
	}
	if meta.Subject != "" {
		pdf.SetSubject(meta.Subject, true)
	}

	pdf.AddPage()
	pdf.SetLineJoinStyle("round")
	if err := pdf.Error(); err != nil {
		return nil, err
	}
	return &pdfCanvas{pdf: pdf}, nil
}

func (c *pdfCanvas) SetLineStyle(s LineStyle) {
	c.pdf.SetDrawColor(int(s.Color.R), int(s.Color.G), int(s.Color.B))
	c.pdf.SetLineWidth(s.Width)
	if len(s.Dash) > 0 {
		c.pdf.SetDashPattern(s.Dash, 0)
	} else {
		c.pdf.SetDashPattern([]float64{}, 0)
	}
}

func (c *pdfCanvas) Line(x1, y1, x2, y2 float64) {
	c.pdf.Line(x1, y1, x2, y2)
}

func (c *pdfCanvas) Polyline(xs, ys []float64) {
	if len(xs) == 0 {
		return
	}
	c.pdf.MoveTo(xs[0], ys[0])
	for i := 1; i < len(xs); i++ {
		c.pdf.LineTo(xs[i], ys[i])
	}
	c.pdf.DrawPath("D")
}

func (c *pdfCanvas) StrokeRect(x, y, w, h float64) {
	c.pdf.Rect(x, y, w, h, "D")
}

func (c *pdfCanvas) Text(s string, x, y, size float64, col color.RGBA, rotated bool) {
	c.pdf.SetFont(pdfFontFamily, "", size)
	c.pdf.SetTextColor(int(col.R), int(col.G), int(col.B))
	if rotated {
		// fpdf angles are counter-clockwise
		c.pdf.TransformBegin()
		c.pdf.TransformRotate(90, x, y)
		c.pdf.Text(x, y, s)
		c.pdf.TransformEnd()
		return
	}
	c.pdf.Text(x, y, s)
}

func (c *pdfCanvas) Encode(w io.Writer) error {
	if err := c.pdf.Error(); err != nil {
		return err
	}
	return c.pdf.Output(w)
}
