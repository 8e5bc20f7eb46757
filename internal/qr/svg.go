package qr

import (
	"context"
	"fmt"
	"strings"

	svg "github.com/ajstarks/svgo"
)

// SVGRenderer draws the code as inline SVG, black on white, quiet zone included.
type SVGRenderer struct {
	size   int
	margin int
}

func NewSVGRenderer() *SVGRenderer {
	return &SVGRenderer{size: DefaultSize, margin: 4}
}

func (s *SVGRenderer) Strategy() Strategy { return StrategySVG }

func (s *SVGRenderer) Render(_ context.Context, content string) (*ImageRef, error) {
	grid, err := modules(content)
	if err != nil {
		return nil, err
	}

	total := len(grid) + 2*s.margin
	var path strings.Builder
	for y, row := range grid {
		for x, dark := range row {
			if dark {
				fmt.Fprintf(&path, "M%d %dh1v1h-1z", x+s.margin, y+s.margin)
			}
		}
	}

	var b strings.Builder
	canvas := svg.New(&b)
	canvas.Start(s.size, s.size,
		fmt.Sprintf(`viewBox="0 0 %d %d"`, total, total),
		`shape-rendering="crispEdges"`)
	canvas.Rect(0, 0, total, total, `fill="#FFFFFF"`)
	canvas.Path(path.String(), `fill="#000000"`)
	canvas.End()

	return &ImageRef{Strategy: StrategySVG, Kind: KindSVG, Value: inlineMarkup(b.String()), ContentType: "image/svg+xml"}, nil
}

// inlineMarkup drops the XML prolog so the markup can be embedded in a page.
func inlineMarkup(doc string) string {
	if i := strings.Index(doc, "<svg"); i > 0 {
		doc = doc[i:]
	}
	return strings.TrimSpace(doc)
}
