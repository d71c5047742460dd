package export

import (
	"fmt"
	"image"
	"image/png"
	"io"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	// Decoders for Decode.
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/webp"

	"git.sr.ht/~gioverse/patchkit/ninepatch"
)

// Encoder writes a raster payload. Implementations wrap external codecs.
type Encoder interface {
	Encode(w io.Writer, img image.Image) error
	// Ext is the file extension, without the dot.
	Ext() string
}

// PNG encodes with image/png.
type PNG struct {
	Compression png.CompressionLevel
}

func (e PNG) Encode(w io.Writer, img image.Image) error {
	enc := png.Encoder{CompressionLevel: e.Compression}
	return enc.Encode(w, img)
}

func (PNG) Ext() string { return "png" }

// BMP encodes with golang.org/x/image/bmp.
type BMP struct{}

func (BMP) Encode(w io.Writer, img image.Image) error {
	return bmp.Encode(w, img)
}

func (BMP) Ext() string { return "bmp" }

// TIFF encodes with golang.org/x/image/tiff.
type TIFF struct {
	Options *tiff.Options
}

func (e TIFF) Encode(w io.Writer, img image.Image) error {
	return tiff.Encode(w, img, e.Options)
}

func (TIFF) Ext() string { return "tiff" }

// EncoderFor returns the encoder registered for a format name.
func EncoderFor(format string) (Encoder, error) {
	switch format {
	case "", "png":
		return PNG{}, nil
	case "bmp":
		return BMP{}, nil
	case "tiff", "tif":
		return TIFF{Options: &tiff.Options{Compression: tiff.Deflate}}, nil
	}
	return nil, fmt.Errorf("unsupported export format %q", format)
}

// CodecError wraps a failure of an external encoder or decoder. The
// underlying error is kept as is.
type CodecError struct {
	Op  string
	Err error
}

func (e *CodecError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *CodecError) Unwrap() error {
	return e.Err
}

// Decode reads any registered raster format (png, jpeg, gif, bmp, tiff,
// webp) into a PixelBuffer, reporting the format name.
func Decode(r io.Reader) (*ninepatch.PixelBuffer, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", &CodecError{Op: "decoding image", Err: err}
	}
	return ninepatch.FromImage(img), format, nil
}
