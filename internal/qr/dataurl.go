package qr

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
)

// DataURLRenderer encodes the code as a PNG data URL.
type DataURLRenderer struct {
	width  int
	margin int
}

func NewDataURLRenderer() *DataURLRenderer {
	return &DataURLRenderer{width: DefaultSize, margin: 2}
}

func (d *DataURLRenderer) Strategy() Strategy { return StrategyDataURL }

func (d *DataURLRenderer) Render(ctx context.Context, content string) (*ImageRef, error) {
	grid, err := modules(content)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img := rasterize(grid, d.margin, d.width)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}

	return &ImageRef{
		Strategy:    StrategyDataURL,
		Kind:        KindDataURL,
		Value:       dataURLPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()),
		ContentType: "image/png",
	}, nil
}

// rasterize scales the grid plus margin onto a width x width two-color image.
// Each pixel samples the module under it, so the output width is exact even
// when it is not a multiple of the module count.
func rasterize(grid [][]bool, margin, width int) *image.Paletted {
	palette := color.Palette{color.White, color.Black}
	img := image.NewPaletted(image.Rect(0, 0, width, width), palette)

	n := len(grid)
	total := n + 2*margin
	for py := 0; py < width; py++ {
		my := py*total/width - margin
		if my < 0 || my >= n {
			continue
		}
		for px := 0; px < width; px++ {
			mx := px*total/width - margin
			if mx < 0 || mx >= n {
				continue
			}
			if grid[my][mx] {
				img.SetColorIndex(px, py, 1)
			}
		}
	}
	return img
}
