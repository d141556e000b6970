package deck2pptx

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"golang.org/x/image/draw"
)

// qualityImageScale maps a quality level to the raster downscale factor
// applied to full-slide captures before embedding.
func qualityImageScale(quality string) float64 {
	switch quality {
	case QualityMedium:
		return 0.75
	case QualityLow:
		return 0.5
	default:
		return 1.0
	}
}

// scaleImage resamples PNG data by scale using Catmull-Rom interpolation.
// A scale of 1.0 or higher returns the input unchanged.
func scaleImage(data []byte, scale float64) ([]byte, error) {
	if scale >= 1.0 {
		return data, nil
	}

	src, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decoding capture: %v", ErrCaptureFailed, err)
	}

	bounds := src.Bounds()
	width := int(float64(bounds.Dx()) * scale)
	height := int(float64(bounds.Dy()) * scale)
	if width < 1 || height < 1 {
		return data, nil
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Src, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("%w: encoding capture: %v", ErrCaptureFailed, err)
	}
	return buf.Bytes(), nil
}

// pngDimensions reads the pixel size of PNG data without a full decode.
func pngDimensions(data []byte) (width, height int, err error) {
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: reading capture header: %v", ErrCaptureFailed, err)
	}
	return cfg.Width, cfg.Height, nil
}
