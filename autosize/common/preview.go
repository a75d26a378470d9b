package common

import (
	"bytes"

	"github.com/fogleman/gg"
	"github.com/pixiv/go-libjpeg/jpeg"
	"golang.org/x/image/font"
)

// RenderPreview draws the text of req at the size resolved in outcome into
// the preview box and returns it as a jpeg
func RenderPreview(req *FitRequest, outcome Outcome, measurer *FaceMeasurer,
	preview *PreviewData) (bytes.Buffer, error) {
	var imgBytes bytes.Buffer
	width := float64(preview.Box.W)
	height := float64(preview.Box.H)

	dc := gg.NewContext(preview.Box.W, preview.Box.H)
	dc.SetHexColor(preview.BackgroundColour)
	dc.Clear()

	result := measurer.Measure(req.Input(outcome.FontSize()))
	if req.Overflow != OverflowVisible {
		dc.DrawRectangle(0, 0, width, height)
		dc.Clip()
	}
	dc.SetHexColor(preview.TextColour)
	measurer.WithFace(outcome.Style, func(face font.Face) {
		dc.SetFontFace(face)
		y := 0.0
		for _, line := range result.Lines {
			dc.DrawString(line.Text, 0, y+result.Ascent)
			y += result.LineHeight
		}
	})

	err := jpeg.Encode(&imgBytes, dc.Image(), &jpeg.EncoderOptions{Quality: preview.JpgQuality})
	return imgBytes, err
}
