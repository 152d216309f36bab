// Package ribbon renders a flight's mode segmentation as an annotated
// timeline image: one colored band per contiguous mode interval, a time
// scale beneath it, a legend row and an info bar.
package ribbon

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/avionics-tools/flightlog/internal/modes"
)

const (
	dpi             = 120.0
	defaultFontSize = 11.0
	tickMarkHeight  = 5
	pixelsPerLabel  = 110.0

	defaultWidth      = 1200
	defaultBandHeight = 60

	defaultTopBorder    = 30
	defaultLeftBorder   = 20
	defaultBottomBorder = 70
	defaultRightBorder  = 20

	legendSwatch = 12
	legendGap    = 8
)

// BorderConfig defines the white space around the mode band.
type BorderConfig struct {
	Top    int // Space for the title
	Left   int
	Bottom int // Space for time scale, legend and info bar
	Right  int
}

// Config holds the renderer options. Zero values use package defaults.
type Config struct {
	Width      int     // Band width in pixels
	BandHeight int     // Band height in pixels
	FontSize   float64 // Font size in points
	Title      string  // Title above the band

	Borders BorderConfig
}

// Renderer draws mode timeline ribbons.
type Renderer struct {
	config   Config
	context  *freetype.Context
	fontFace font.Face
}

// New creates a ribbon renderer.
func New(config Config) (*Renderer, error) {
	if config.Width == 0 {
		config.Width = defaultWidth
	}
	if config.BandHeight == 0 {
		config.BandHeight = defaultBandHeight
	}
	if config.FontSize == 0 {
		config.FontSize = defaultFontSize
	}
	if config.Title == "" {
		config.Title = "Flight Modes"
	}
	if config.Borders.Top == 0 {
		config.Borders.Top = defaultTopBorder
	}
	if config.Borders.Left == 0 {
		config.Borders.Left = defaultLeftBorder
	}
	if config.Borders.Bottom == 0 {
		config.Borders.Bottom = defaultBottomBorder
	}
	if config.Borders.Right == 0 {
		config.Borders.Right = defaultRightBorder
	}

	parsedFont, err := freetype.ParseFont(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}

	ctx := freetype.NewContext()
	ctx.SetDPI(dpi)
	ctx.SetFont(parsedFont)
	ctx.SetFontSize(config.FontSize)
	ctx.SetHinting(font.HintingNone)
	ctx.SetSrc(image.Black)

	return &Renderer{
		config:  config,
		context: ctx,
		fontFace: truetype.NewFace(parsedFont, &truetype.Options{
			Size:    config.FontSize,
			DPI:     dpi,
			Hinting: font.HintingNone,
		}),
	}, nil
}

// Close releases the font face.
func (r *Renderer) Close() error {
	if r.fontFace != nil {
		return r.fontFace.Close()
	}
	return nil
}

// Render draws the timeline for the given segments. Segment times are
// seconds since log start.
func (r *Renderer) Render(segs []modes.Segment) (*image.RGBA, error) {
	if len(segs) == 0 {
		return nil, fmt.Errorf("no mode segments to render")
	}

	b := r.config.Borders
	fullWidth := r.config.Width + b.Left + b.Right
	fullHeight := r.config.BandHeight + b.Top + b.Bottom
	img := image.NewRGBA(image.Rect(0, 0, fullWidth, fullHeight))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	r.context.SetClip(img.Bounds())
	r.context.SetDst(img)

	start := segs[0].Start
	end := segs[len(segs)-1].End
	if end <= start {
		return nil, fmt.Errorf("segments span no time")
	}
	toX := func(t float64) int {
		ratio := (t - start) / (end - start)
		return b.Left + int(ratio*float64(r.config.Width))
	}

	band := image.Rect(b.Left, b.Top, b.Left+r.config.Width, b.Top+r.config.BandHeight)
	for _, s := range segs {
		rect := image.Rect(toX(s.Start), band.Min.Y, toX(s.End), band.Max.Y)
		draw.Draw(img, rect, image.NewUniform(s.Mode.Color()), image.Point{}, draw.Src)
	}

	if err := r.drawTitle(); err != nil {
		return nil, fmt.Errorf("drawing title: %w", err)
	}
	if err := r.drawTimeScale(img, band, start, end); err != nil {
		return nil, fmt.Errorf("drawing time scale: %w", err)
	}
	legendBottom, err := r.drawLegend(img, band, segs)
	if err != nil {
		return nil, fmt.Errorf("drawing legend: %w", err)
	}
	if err := r.drawInfoBar(img, segs, legendBottom); err != nil {
		return nil, fmt.Errorf("drawing info bar: %w", err)
	}
	return img, nil
}

func (r *Renderer) drawTitle() error {
	metrics := r.fontFace.Metrics()
	fontHeight := (metrics.Ascent + metrics.Descent).Round()
	pt := freetype.Pt(r.config.Borders.Left, (r.config.Borders.Top+fontHeight)/2)
	_, err := r.context.DrawString(r.config.Title, pt)
	return err
}

func (r *Renderer) drawTimeScale(img *image.RGBA, band image.Rectangle, start, end float64) error {
	step := niceTimeStep(end-start, r.config.Width)

	metrics := r.fontFace.Metrics()
	fontHeight := (metrics.Ascent + metrics.Descent).Round()
	textY := band.Max.Y + tickMarkHeight + fontHeight

	for t := math.Ceil(start/step) * step; t <= end; t += step {
		ratio := (t - start) / (end - start)
		x := band.Min.X + int(ratio*float64(r.config.Width))

		for y := band.Max.Y; y < band.Max.Y+tickMarkHeight; y++ {
			img.Set(x, y, color.Black)
		}

		label := formatOffset(t)
		width := font.MeasureString(r.fontFace, label)
		pt := freetype.Pt(x-width.Round()/2, textY)
		if _, err := r.context.DrawString(label, pt); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) drawLegend(img *image.RGBA, band image.Rectangle, segs []modes.Segment) (bottom int, err error) {
	metrics := r.fontFace.Metrics()
	fontHeight := (metrics.Ascent + metrics.Descent).Round()

	y := band.Max.Y + tickMarkHeight + fontHeight + legendGap
	x := band.Min.X
	for _, m := range modes.Used(segs) {
		swatch := image.Rect(x, y, x+legendSwatch, y+legendSwatch)
		draw.Draw(img, swatch, image.NewUniform(m.Color()), image.Point{}, draw.Src)

		label := m.String()
		pt := freetype.Pt(x+legendSwatch+4, y+legendSwatch-2)
		if _, err := r.context.DrawString(label, pt); err != nil {
			return 0, err
		}
		x += legendSwatch + 8 + font.MeasureString(r.fontFace, label).Round() + legendGap
	}
	return y + legendSwatch, nil
}

func (r *Renderer) drawInfoBar(img *image.RGBA, segs []modes.Segment, top int) error {
	dominant, total := modes.Dominant(segs)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Duration: %s", formatOffset(total)))
	sb.WriteString("; ")
	sb.WriteString(fmt.Sprintf("%d segments", len(segs)))
	sb.WriteString("; ")
	sb.WriteString(fmt.Sprintf("dominant mode %s", dominant))

	metrics := r.fontFace.Metrics()
	fontHeight := (metrics.Ascent + metrics.Descent).Round()

	pt := freetype.Pt(r.config.Borders.Left, top+legendGap+fontHeight)
	_, err := r.context.DrawString(sb.String(), pt)
	return err
}

// niceTimeStep picks a label interval in seconds that keeps labels roughly
// pixelsPerLabel apart.
func niceTimeStep(duration float64, width int) float64 {
	steps := []float64{1, 5, 10, 30, 60, 120, 300, 600, 900, 1800, 3600}

	desired := float64(width) / pixelsPerLabel
	target := duration / desired

	for _, step := range steps {
		if step >= target {
			return step
		}
	}
	return 7200
}

func formatOffset(seconds float64) string {
	s := int(math.Round(seconds))
	if s < 3600 {
		return fmt.Sprintf("%d:%02d", s/60, s%60)
	}
	return fmt.Sprintf("%d:%02d:%02d", s/3600, (s%3600)/60, s%60)
}
