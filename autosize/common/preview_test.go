package common

import (
	"bytes"
	"image/jpeg"
	"testing"
)

func TestRenderPreview(t *testing.T) {
	config := DefaultConfig()
	measurer := NewFaceMeasurer(config)
	h2, _ := config.TextStyle("H2")
	req := &FitRequest{
		Text:        PlainText("Lorem ipsum"),
		Style:       h2,
		MinFontSize: Sp(8),
		Constraints: BoxConstraints(150, 150),
		SoftWrap:    true,
		MaxLines:    1,
	}
	outcome := Outcome{Style: h2.WithFontSize(Sp(20))}

	imgBytes, err := RenderPreview(req, outcome, measurer, &config.Preview)
	if err != nil {
		t.Fatalf("RenderPreview failed: %v", err)
	}
	img, err := jpeg.Decode(bytes.NewReader(imgBytes.Bytes()))
	if err != nil {
		t.Fatalf("Expected a jpeg: %v", err)
	}
	if size := img.Bounds().Size(); size.X != 150 || size.Y != 150 {
		t.Errorf("Expected 150x150, got %v", size)
	}
}
