// Command ninepatch inspects 9-Patch sources and turns them into resizable
// asset catalog image sets.
//
// Usage:
//
//	ninepatch [flags] scan <image>
//	ninepatch [flags] manifest <image>
//	ninepatch [flags] render <image>
//	ninepatch [flags] canvas <image>
//	ninepatch [flags] export <image>
//
// A source carrying 9-Patch markers is trimmed and its stretch markers
// provide the cap insets. -insets overrides them.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"git.sr.ht/~gioverse/patchkit"
	"git.sr.ht/~gioverse/patchkit/compose"
	"git.sr.ht/~gioverse/patchkit/export"
	"git.sr.ht/~gioverse/patchkit/inset"
	"git.sr.ht/~gioverse/patchkit/manifest"
	"git.sr.ht/~gioverse/patchkit/ninepatch"
	"git.sr.ht/~gioverse/patchkit/profile"
	"git.sr.ht/~gioverse/patchkit/session"
)

type config struct {
	Scale   ninepatch.Scale
	Mode    ninepatch.Mode
	Center  ninepatch.CenterMode
	Insets  *ninepatch.Insets
	Size    image.Point
	Name    string
	Author  string
	Format  string
	Output  string
	Profile profile.Opt
	Verbose bool
}

// notify reports decisions made on the user's behalf.
var notify = func(msg string) {
	pterm.Info.Println(msg)
}

var errUsage = errors.New("usage: ninepatch [flags] scan|manifest|render|canvas|export <image>")

func parse(fs *flag.FlagSet, args []string) (config, []string, error) {
	var (
		cfg     config
		scale   int
		mode    string
		center  string
		insets  string
		size    string
		profOpt string
	)
	fs.IntVar(&scale, "scale", 1, "density the source was authored at: 1, 2 or 3")
	fs.StringVar(&mode, "mode", string(ninepatch.NinePart), "resizing mode: 9-part, 3-part-horizontal or 3-part-vertical")
	fs.StringVar(&center, "center", string(ninepatch.Stretch), "center mode: stretch or tile")
	fs.StringVar(&insets, "insets", "", "cap insets in points as left,right,top,bottom")
	fs.StringVar(&size, "size", "", "render size in pixels as WxH (render only)")
	fs.StringVar(&cfg.Name, "name", "image", "asset name")
	fs.StringVar(&cfg.Author, "author", manifest.DefaultAuthor, "manifest author")
	fs.StringVar(&cfg.Format, "format", "png", "export format: png, bmp or tiff")
	fs.StringVar(&cfg.Output, "o", "", "output file, stdout when empty")
	fs.StringVar(&profOpt, "profile", "none", "create the provided kind of profile. Use one of [none, cpu, mem, block, goroutine, mutex, trace]")
	fs.BoolVar(&cfg.Verbose, "v", false, "verbose logging")
	if err := fs.Parse(args); err != nil {
		return cfg, nil, err
	}
	cfg.Scale = ninepatch.Scale(scale)
	if err := cfg.Scale.Validate(); err != nil {
		return cfg, nil, err
	}
	if err := cfg.Mode.UnmarshalText([]byte(mode)); err != nil {
		return cfg, nil, err
	}
	if err := cfg.Center.UnmarshalText([]byte(center)); err != nil {
		return cfg, nil, err
	}
	if insets != "" {
		in, err := parseInsets(insets)
		if err != nil {
			return cfg, nil, err
		}
		cfg.Insets = &in
	}
	if size != "" {
		sz, err := parseSize(size)
		if err != nil {
			return cfg, nil, err
		}
		cfg.Size = sz
	}
	cfg.Profile = profile.Opt(profOpt)
	if fs.NArg() != 2 {
		return cfg, nil, errUsage
	}
	return cfg, fs.Args(), nil
}

func parseInsets(s string) (ninepatch.Insets, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return ninepatch.Insets{}, fmt.Errorf("insets %q: want left,right,top,bottom", s)
	}
	var v [4]int
	for ii, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return ninepatch.Insets{}, fmt.Errorf("insets %q: %w", s, err)
		}
		v[ii] = n
	}
	return ninepatch.Insets{Left: v[0], Right: v[1], Top: v[2], Bottom: v[3]}, nil
}

func parseSize(s string) (image.Point, error) {
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return image.Point{}, fmt.Errorf("size %q: want WxH", s)
	}
	x, err := strconv.Atoi(w)
	if err != nil {
		return image.Point{}, fmt.Errorf("size %q: %w", s, err)
	}
	y, err := strconv.Atoi(h)
	if err != nil {
		return image.Point{}, fmt.Errorf("size %q: %w", s, err)
	}
	if x <= 0 || y <= 0 {
		return image.Point{}, fmt.Errorf("size %q: %w", s, ninepatch.ErrInvalidDimensions)
	}
	return image.Pt(x, y), nil
}

func main() {
	cfg, args, err := parse(flag.CommandLine, os.Args[1:])
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(2)
	}
	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	patchkit.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	profiler, err := cfg.Profile.NewProfiler()
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(2)
	}
	profiler.Start()
	err = run(context.Background(), cfg, args[0], args[1])
	profiler.Stop()
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config, cmd, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	buf, format, err := export.Decode(f)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	patchkit.Logger().Debug("decoded source", "path", path, "format", format, "size", buf.Bounds().Size())
	if cmd == "scan" {
		defer buf.Release()
		return scan(buf)
	}

	s := session.New()
	defer s.Close()
	if err := load(ctx, s, cfg, buf); err != nil {
		return err
	}
	switch cmd {
	case "manifest":
		return writeManifest(ctx, s, cfg)
	case "render":
		return render(ctx, s, cfg)
	case "canvas":
		img, err := s.Canvas(ctx)
		if err != nil {
			return err
		}
		return output(cfg.Output, func(w io.Writer) error { return png.Encode(w, img) })
	case "export":
		return exportBundle(ctx, s, cfg)
	}
	return fmt.Errorf("unknown command %q: %w", cmd, errUsage)
}

// load attaches the source, trimming a 9-Patch border when markers are
// present, and applies the configured modes and insets.
func load(ctx context.Context, s *session.Session, cfg config, buf *ninepatch.PixelBuffer) error {
	var (
		src    inset.Bitmap = buf
		insets ninepatch.Insets
	)
	np, err := ninepatch.Decode(buf)
	switch {
	case err != nil:
		patchkit.Logger().Warn("source is not a 9-Patch", "error", err)
	case np.Marked:
		trimmed := ninepatch.FromImage(np.Image)
		buf.Release()
		src = trimmed
		insets = toPoints(np.Stretch, cfg.Scale)
		msg := fmt.Sprintf("9-Patch markers found: trimmed the 1px border, cap insets %+v", insets)
		if cfg.Output == "" {
			// stdout carries the payload.
			patchkit.Logger().Warn(msg)
		} else {
			notify(msg)
		}
	default:
		patchkit.Logger().Warn("source has no 9-Patch markers, using it whole")
	}
	if cfg.Insets != nil {
		insets = *cfg.Insets
	}
	if err := s.Attach(ctx, src, cfg.Scale); err != nil {
		src.Release()
		return err
	}
	if err := s.SetMode(ctx, cfg.Mode, cfg.Center); err != nil {
		return err
	}
	return s.SetInsets(ctx, inset.PatchOf(insets), inset.Right, inset.Bottom)
}

// toPoints converts pixel insets to display units, rounding half up.
func toPoints(in ninepatch.Insets, s ninepatch.Scale) ninepatch.Insets {
	k := int(s)
	pt := func(v int) int { return (2*v + k) / (2 * k) }
	return ninepatch.Insets{
		Left:   pt(in.Left),
		Right:  pt(in.Right),
		Top:    pt(in.Top),
		Bottom: pt(in.Bottom),
	}
}

func scan(buf *ninepatch.PixelBuffer) error {
	geo, err := ninepatch.ScanSegments(buf)
	if err != nil {
		return err
	}
	if geo == nil {
		pterm.Info.Println("no stretch markers found")
		return nil
	}
	env, err := ninepatch.ScanMergedEnvelope(buf)
	if err != nil {
		return err
	}
	data := [][]string{{"axis", "stretch runs", "envelope", "content"}}
	data = append(data, []string{
		"x", fmtRuns(geo.StretchX), fmtRun(env.StretchX),
		fmt.Sprintf("%d..%d", geo.Content.Left, geo.Content.Right),
	})
	data = append(data, []string{
		"y", fmtRuns(geo.StretchY), fmtRun(env.StretchY),
		fmt.Sprintf("%d..%d", geo.Content.Top, geo.Content.Bottom),
	})
	pterm.Printf("inner size %dx%d\n", geo.InnerWidth, geo.InnerHeight)
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	pterm.Printf("stretch insets %+v\n", env.StretchInsets())
	pterm.Printf("content insets %+v\n", env.ContentInsets())
	return nil
}

func fmtRun(r ninepatch.MarkerRun) string {
	if !r.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%d..%d", r.Begin, r.End)
}

func fmtRuns(rs []ninepatch.MarkerRun) string {
	if len(rs) == 0 {
		return "-"
	}
	out := make([]string, len(rs))
	for ii, r := range rs {
		out[ii] = fmtRun(r)
	}
	return strings.Join(out, " ")
}

func writeManifest(ctx context.Context, s *session.Session, cfg config) error {
	var resizing [len(ninepatch.Scales)]manifest.Descriptor
	for ii, k := range ninepatch.Scales {
		d, err := s.Descriptor(ctx, k)
		if err != nil {
			return err
		}
		resizing[ii] = d
	}
	enc, err := export.EncoderFor(cfg.Format)
	if err != nil {
		return err
	}
	c := manifest.NewContents(cfg.Name, enc.Ext(), cfg.Author, resizing)
	return output(cfg.Output, c.Encode)
}

func render(ctx context.Context, s *session.Session, cfg config) error {
	size := cfg.Size
	if size == (image.Point{}) {
		st, err := s.State(ctx)
		if err != nil {
			return err
		}
		size = st.Canvas.Mul(int(cfg.Scale))
	}
	img, err := s.Render(ctx, size, compose.Options{})
	if err != nil {
		return err
	}
	return output(cfg.Output, func(w io.Writer) error { return png.Encode(w, img) })
}

func exportBundle(ctx context.Context, s *session.Session, cfg config) error {
	enc, err := export.EncoderFor(cfg.Format)
	if err != nil {
		return err
	}
	b, err := s.Export(ctx, export.Options{Name: cfg.Name, Author: cfg.Author, Encoder: enc})
	if err != nil {
		return err
	}
	out := cfg.Output
	if out == "" {
		out = b.Dir() + ".zip"
	}
	if err := output(out, b.WriteZip); err != nil {
		return err
	}
	pterm.Success.Printf("wrote %s\n", out)
	return nil
}

// output writes to path, or to stdout when path is empty.
func output(path string, write func(io.Writer) error) error {
	if path == "" {
		return write(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
