// Package imaging decodes embedded texture payloads into NRGBA images and
// writes them back out as WebP.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Result is the outcome of converting one embedded payload. Exactly one of
// Image and Err is set.
type Result struct {
	Image *image.NRGBA
	Err   error
}

// Decoder converts embedded content bytes into NRGBA images. It satisfies
// the scene decoder's converter contract.
type Decoder struct{}

var errUnknownFormat = errors.New("unrecognized image format")

// decodeSniffed picks the decoder from the payload's magic bytes. The
// format registry is not used: the tga package registers itself with an
// empty magic string, which would shadow every other registered format.
func decodeSniffed(data []byte) (image.Image, error) {
	r := bytes.NewReader(data)
	switch {
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return png.Decode(r)
	case bytes.HasPrefix(data, []byte{0xff, 0xd8}):
		return jpeg.Decode(r)
	case bytes.HasPrefix(data, []byte("BM")):
		return bmp.Decode(r)
	case bytes.HasPrefix(data, []byte("II*\x00")), bytes.HasPrefix(data, []byte("MM\x00*")):
		return tiff.Decode(r)
	}
	return nil, errUnknownFormat
}

// Convert decodes data into an image. The format is sniffed from the
// content; TGA payloads, which carry no magic bytes, fall back to the
// filename extension.
func (Decoder) Convert(data []byte, filename string) Result {
	img, err := decodeSniffed(data)
	if err != nil {
		if strings.EqualFold(filepath.Ext(filename), ".tga") {
			timg, terr := tga.Decode(bytes.NewReader(data))
			if terr == nil {
				return Result{Image: ToNRGBA(timg)}
			}
			err = terr
		}
		return Result{Err: fmt.Errorf("imaging: decode %s: %w", filename, err)}
	}
	return Result{Image: ToNRGBA(img)}
}

// ToNRGBA converts any image to NRGBA format.
func ToNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(b)
	switch src.(type) {
	case *image.YCbCr, *image.Gray:
		// No alpha channel; draw and force alpha to 255.
		draw.Draw(dst, b, src, b.Min, draw.Src)
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				i := dst.PixOffset(x, y)
				dst.Pix[i+3] = 255
			}
		}
	default:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
				i := dst.PixOffset(x, y)
				dst.Pix[i] = c.R
				dst.Pix[i+1] = c.G
				dst.Pix[i+2] = c.B
				dst.Pix[i+3] = c.A
			}
		}
	}
	return dst
}
