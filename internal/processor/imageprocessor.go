// imageprocessor.go - Image preprocessing for better OCR accuracy

package processor

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"image/png"

	"github.com/disintegration/imaging"
)

// PreprocessImage enhances an invoice photo before it is sent to an OCR or
// vision model: downscale to maxRes on the long edge, sharpen, boost contrast
// and brightness, grayscale. Returns the re-encoded image and its MIME type.
// PDFs must not be passed here; callers route them to the text path untouched.
func PreprocessImage(data []byte, mimeType string, maxDimension int) ([]byte, string, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxDimension || bounds.Dy() > maxDimension {
		if bounds.Dx() > bounds.Dy() {
			img = imaging.Resize(img, maxDimension, 0, imaging.Lanczos)
		} else {
			img = imaging.Resize(img, 0, maxDimension, imaging.Lanczos)
		}
	}

	// Receipt photos are usually dim phone shots; treat them all the same.
	img = imaging.Sharpen(img, 2.5)
	img = imaging.AdjustContrast(img, 40)
	img = imaging.AdjustBrightness(img, 15)
	img = imaging.Grayscale(img)
	img = imaging.AdjustContrast(img, 30)
	img = imaging.AdjustGamma(img, 1.1)

	var buf bytes.Buffer
	switch mimeType {
	case "image/png":
		if err := png.Encode(&buf, img); err != nil {
			return nil, "", fmt.Errorf("failed to encode processed image: %w", err)
		}
		return buf.Bytes(), "image/png", nil
	default:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 92}); err != nil {
			return nil, "", fmt.Errorf("failed to encode processed image: %w", err)
		}
		return buf.Bytes(), "image/jpeg", nil
	}
}
