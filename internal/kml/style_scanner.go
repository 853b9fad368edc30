package kml

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/OCAP2/kmlscene/internal/markup"
	"github.com/OCAP2/kmlscene/internal/style"
)

// ErrInvalidColor is returned for colors that are not aabbggrr hex.
var ErrInvalidColor = errors.New("invalid kml color")

// baseTextSize is the label size at LabelStyle scale 1.
const baseTextSize = 16.0

// DefaultStyleScanner reads IconStyle, LabelStyle, LineStyle and PolyStyle.
type DefaultStyleScanner struct{}

// Scan converts a <Style> element. The style is named after its id attribute.
func (DefaultStyleScanner) Scan(conf *markup.Config, cx *Context) *style.Style {
	st := style.New(conf.Value("id"))
	if conf == nil {
		return st
	}
	log := cx.logger()

	if is := conf.Child("iconstyle"); is != nil {
		if href := is.Child("icon").Value("href"); href != "" {
			st.Add(&style.IconSymbol{
				URL:     href,
				Scale:   parseFloat(is.Value("scale"), 1),
				Heading: parseFloat(is.Value("heading"), 0),
			})
		}
	}

	if ls := conf.Child("labelstyle"); ls != nil {
		text := &style.TextSymbol{
			Size: baseTextSize * parseFloat(ls.Value("scale"), 1),
			Fill: color.RGBA{R: 255, G: 255, B: 255, A: 255},
		}
		if ls.HasValue("color") {
			c, err := ParseColor(ls.Value("color"))
			if err != nil {
				log.Warn("ignoring label color", "style", st.Name, "error", err)
			} else {
				text.Fill = c
			}
		}
		st.Add(text)
	}

	if ls := conf.Child("linestyle"); ls != nil {
		line := &style.LineSymbol{
			Stroke: color.RGBA{R: 255, G: 255, B: 255, A: 255},
			Width:  parseFloat(ls.Value("width"), 1),
		}
		if ls.HasValue("color") {
			c, err := ParseColor(ls.Value("color"))
			if err != nil {
				log.Warn("ignoring line color", "style", st.Name, "error", err)
			} else {
				line.Stroke = c
			}
		}
		st.Add(line)
	}

	if ps := conf.Child("polystyle"); ps != nil {
		poly := &style.PolygonSymbol{
			Fill:    color.RGBA{R: 255, G: 255, B: 255, A: 255},
			Filled:  ps.Value("fill") != "0",
			Outline: ps.Value("outline") != "0",
		}
		if ps.HasValue("color") {
			c, err := ParseColor(ps.Value("color"))
			if err != nil {
				log.Warn("ignoring poly color", "style", st.Name, "error", err)
			} else {
				poly.Fill = c
			}
		}
		st.Add(poly)
	}

	return st
}

// ParseColor decodes a KML aabbggrr hex color. A leading "#" is accepted.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 8 {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return color.RGBA{
		A: uint8(v >> 24),
		B: uint8(v >> 16),
		G: uint8(v >> 8),
		R: uint8(v),
	}, nil
}

func parseFloat(s string, def float64) float64 {
	if s == "" {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return def
	}
	return f
}
