// Package manifest builds asset catalog resizing descriptors and the
// Contents.json document of a resizable image set.
//
// Field names and shapes follow the asset catalog schema: the cap insets key
// is the hyphenated "cap-insets" and each resizing mode carries its own
// subset of fields.
package manifest

import (
	"encoding/json"
	"fmt"
	"io"

	"git.sr.ht/~gioverse/patchkit/compose"
	"git.sr.ht/~gioverse/patchkit/ninepatch"
)

// Center describes the center slice. Width is present for 9-part and
// 3-part-horizontal, Height for 9-part and 3-part-vertical.
type Center struct {
	Mode   ninepatch.CenterMode `json:"mode"`
	Width  *int                 `json:"width,omitempty"`
	Height *int                 `json:"height,omitempty"`
}

// CapInsets holds the fixed border thickness of the sides used by a mode.
type CapInsets struct {
	Top    *int `json:"top,omitempty"`
	Left   *int `json:"left,omitempty"`
	Bottom *int `json:"bottom,omitempty"`
	Right  *int `json:"right,omitempty"`
}

// Insets returns the cap insets, with absent sides as zero.
func (c CapInsets) Insets() ninepatch.Insets {
	return ninepatch.Insets{
		Left:   deref(c.Left),
		Right:  deref(c.Right),
		Top:    deref(c.Top),
		Bottom: deref(c.Bottom),
	}
}

// Descriptor is the "resizing" object of one image of the set.
type Descriptor struct {
	Mode      ninepatch.Mode `json:"mode"`
	Center    Center         `json:"center"`
	CapInsets CapInsets      `json:"cap-insets"`
}

func ptr(v int) *int {
	return &v
}

func deref(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

// Build the descriptor of p at the target scale. Sizes are the display
// size of the source times target, caps are the insets times target and
// the center is whatever remains, floored at zero.
func Build(p compose.Params, target ninepatch.Scale) (Descriptor, error) {
	if err := p.Validate(); err != nil {
		return Descriptor{}, err
	}
	if err := target.Validate(); err != nil {
		return Descriptor{}, fmt.Errorf("target: %w", err)
	}
	var (
		t    = int(target)
		disp = p.Display()
		caps = p.Insets.Mul(t)
		w    = max(0, disp.X*t-caps.Horizontal())
		h    = max(0, disp.Y*t-caps.Vertical())
		d    = Descriptor{Mode: p.Mode, Center: Center{Mode: p.Center}}
	)
	switch p.Mode {
	case ninepatch.ThreePartHorizontal:
		d.Center.Width = ptr(w)
		d.CapInsets = CapInsets{Left: ptr(caps.Left), Right: ptr(caps.Right)}
	case ninepatch.ThreePartVertical:
		d.Center.Height = ptr(h)
		d.CapInsets = CapInsets{Top: ptr(caps.Top), Bottom: ptr(caps.Bottom)}
	default:
		d.Center.Width, d.Center.Height = ptr(w), ptr(h)
		d.CapInsets = CapInsets{
			Top:    ptr(caps.Top),
			Left:   ptr(caps.Left),
			Bottom: ptr(caps.Bottom),
			Right:  ptr(caps.Right),
		}
	}
	return d, nil
}

// Validate reports whether d carries exactly the fields of its mode.
func (d Descriptor) Validate() error {
	if !d.Center.Mode.Valid() {
		return fmt.Errorf("%w: center mode %q", ninepatch.ErrInvalidMode, string(d.Center.Mode))
	}
	var (
		c   = d.CapInsets
		h   = c.Left != nil && c.Right != nil
		v   = c.Top != nil && c.Bottom != nil
		noH = c.Left == nil && c.Right == nil
		noV = c.Top == nil && c.Bottom == nil
		ok  bool
	)
	switch d.Mode {
	case ninepatch.NinePart:
		ok = h && v && d.Center.Width != nil && d.Center.Height != nil
	case ninepatch.ThreePartHorizontal:
		ok = h && noV && d.Center.Width != nil && d.Center.Height == nil
	case ninepatch.ThreePartVertical:
		ok = v && noH && d.Center.Height != nil && d.Center.Width == nil
	default:
		return fmt.Errorf("%w: resizing mode %q", ninepatch.ErrInvalidMode, string(d.Mode))
	}
	if !ok {
		return fmt.Errorf("%w: fields do not match %s", ErrMalformed, d.Mode)
	}
	return nil
}

// Image is one entry of the image set.
type Image struct {
	Filename string     `json:"filename"`
	Idiom    string     `json:"idiom"`
	Scale    string     `json:"scale"`
	Resizing Descriptor `json:"resizing"`
}

// Info identifies the tool that wrote the document.
type Info struct {
	Version int    `json:"version"`
	Author  string `json:"author"`
}

// Contents is the Contents.json document of a resizable image set.
type Contents struct {
	Images []Image `json:"images"`
	Info   Info    `json:"info"`
}

const (
	// Idiom is used for every image, resizable assets are device agnostic.
	Idiom = "universal"
	// Version of the document format.
	Version = 1
	// DefaultAuthor is written when no author is configured.
	DefaultAuthor = "patchkit"
)

// Filename returns the conventional file name of an asset at scale s.
func Filename(name string, s ninepatch.Scale, ext string) string {
	return fmt.Sprintf("%s@%s.%s", name, s, ext)
}

// NewContents lists the 1x, 2x and 3x images of name, pairing each with its
// resizing descriptor.
func NewContents(name, ext, author string, resizing [len(ninepatch.Scales)]Descriptor) Contents {
	if author == "" {
		author = DefaultAuthor
	}
	c := Contents{Info: Info{Version: Version, Author: author}}
	for ii, s := range ninepatch.Scales {
		c.Images = append(c.Images, Image{
			Filename: Filename(name, s, ext),
			Idiom:    Idiom,
			Scale:    s.String(),
			Resizing: resizing[ii],
		})
	}
	return c
}

// Encode writes c as indented JSON.
func (c Contents) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}

// Parse reads and validates a Contents.json document.
func Parse(r io.Reader) (*Contents, error) {
	var c Contents
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return nil, fmt.Errorf("decoding contents: %w", err)
	}
	for _, img := range c.Images {
		if err := img.Resizing.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", img.Filename, err)
		}
	}
	return &c, nil
}
