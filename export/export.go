// Package export produces the 1x, 2x and 3x payloads of a resizable asset
// together with their Contents.json manifest.
package export

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"path"

	"golang.org/x/image/draw"

	"git.sr.ht/~gioverse/patchkit"
	"git.sr.ht/~gioverse/patchkit/compose"
	"git.sr.ht/~gioverse/patchkit/manifest"
	"git.sr.ht/~gioverse/patchkit/ninepatch"
)

// ErrNoSource reports an export without a source image.
var ErrNoSource = errors.New("no source to export")

// Options configure an export.
type Options struct {
	// Name is the asset name, used for file names. Defaults to "image".
	Name string
	// Author is written to the manifest info.
	Author string
	// Encoder writes each payload. Defaults to PNG.
	Encoder Encoder
	// Kernel resamples the source. Defaults to draw.CatmullRom.
	Kernel draw.Interpolator
}

func (o Options) withDefaults() Options {
	if o.Name == "" {
		o.Name = "image"
	}
	if o.Encoder == nil {
		o.Encoder = PNG{}
	}
	if o.Kernel == nil {
		o.Kernel = draw.CatmullRom
	}
	return o
}

// File is one encoded payload of a bundle.
type File struct {
	Name  string
	Scale ninepatch.Scale
	Size  image.Point
	Data  []byte
}

// Bundle is an in-memory image set.
type Bundle struct {
	Name     string
	Contents manifest.Contents
	Files    [len(ninepatch.Scales)]File
}

// Resample scales the whole of src to size with kernel.
func Resample(src image.Image, size image.Point, kernel draw.Interpolator) *image.NRGBA {
	src = ninepatch.Raster(src)
	out := image.NewNRGBA(image.Rectangle{Max: size})
	kernel.Scale(out, out.Bounds(), src, src.Bounds(), draw.Src, nil)
	return out
}

// Export renders src at 1x, 2x and 3x and pairs each payload with its
// resizing descriptor.
//
// Every scale is resampled from src itself rather than from another scale.
// The display size of src is round(natural/scale); the payload at k is that
// size times k. Encoder failures are returned as *CodecError.
func Export(ctx context.Context, src image.Image, p compose.Params, opts Options) (*Bundle, error) {
	if src == nil || src.Bounds().Empty() {
		return nil, ErrNoSource
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()
	var (
		disp     = p.Display()
		resizing [len(ninepatch.Scales)]manifest.Descriptor
		b        = &Bundle{Name: opts.Name}
	)
	for ii, s := range ninepatch.Scales {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		d, err := manifest.Build(p, s)
		if err != nil {
			return nil, err
		}
		resizing[ii] = d
		var (
			size = disp.Mul(int(s))
			img  = Resample(src, size, opts.Kernel)
			buf  bytes.Buffer
			name = manifest.Filename(opts.Name, s, opts.Encoder.Ext())
		)
		if err := opts.Encoder.Encode(&buf, img); err != nil {
			return nil, &CodecError{Op: "encoding " + name, Err: err}
		}
		b.Files[ii] = File{Name: name, Scale: s, Size: size, Data: buf.Bytes()}
	}
	b.Contents = manifest.NewContents(opts.Name, opts.Encoder.Ext(), opts.Author, resizing)
	patchkit.Logger().Info("exported asset",
		"name", opts.Name, "mode", string(p.Mode), "size", disp)
	return b, nil
}

// Dir is the image set directory name inside an asset catalog.
func (b *Bundle) Dir() string {
	return b.Name + ".imageset"
}

// WriteZip streams the bundle as a zip archive holding the image set
// directory: Contents.json and the three payloads.
func (b *Bundle) WriteZip(w io.Writer) error {
	zw := zip.NewWriter(w)
	var contents bytes.Buffer
	if err := b.Contents.Encode(&contents); err != nil {
		return fmt.Errorf("encoding contents: %w", err)
	}
	entries := []struct {
		name string
		data []byte
	}{
		{name: "Contents.json", data: contents.Bytes()},
	}
	for _, f := range b.Files {
		entries = append(entries, struct {
			name string
			data []byte
		}{name: f.Name, data: f.Data})
	}
	for _, e := range entries {
		fw, err := zw.Create(path.Join(b.Dir(), e.name))
		if err != nil {
			return fmt.Errorf("adding %s: %w", e.name, err)
		}
		if _, err := fw.Write(e.data); err != nil {
			return fmt.Errorf("writing %s: %w", e.name, err)
		}
	}
	return zw.Close()
}
