package objects

import (
	"fmt"
	"image"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/mandelsoft/vfs/pkg/vfs"

	"github.com/kkkkkom/ezdxf/pkg/dxf/handle"
	"github.com/kkkkkom/ezdxf/pkg/dxf/tags"
)

// Resolution units of an image definition (group 281).
const (
	ResolutionNone       = int64(0)
	ResolutionCentimeter = int64(2)
	ResolutionInch       = int64(5)
)

// ImageDef (IMAGEDEF) describes a raster file referenced by IMAGE
// entities.
type ImageDef struct {
	ObjectMeta      `json:",inline"`
	ClassVersion    int64   `json:"classVersion"`
	Filename        string  `json:"filename"`
	Width           float64 `json:"width"`
	Height          float64 `json:"height"`
	PixelWidth      float64 `json:"pixelWidth,omitempty"`
	PixelHeight     float64 `json:"pixelHeight,omitempty"`
	Loaded          bool    `json:"loaded"`
	ResolutionUnits int64   `json:"resolutionUnits,omitempty"`
}

var _ Object = (*ImageDef)(nil)

func NewImageDef(filename string, width, height float64) *ImageDef {
	return &ImageDef{
		ObjectMeta:      NewObjectMeta(TypeImageDef),
		Filename:        filename,
		Width:           width,
		Height:          height,
		PixelWidth:      1,
		PixelHeight:     1,
		Loaded:          true,
		ResolutionUnits: ResolutionNone,
	}
}

func (d *ImageDef) EncodeTags() (tags.Tags, error) {
	return append(d.headTags(),
		tags.New(tags.CodeSubclass, "AcDbRasterImageDef"),
		tags.NewInt(tags.CodeInt90, d.ClassVersion),
		tags.New(tags.CodeValue, d.Filename),
		tags.NewFloat(10, d.Width),
		tags.NewFloat(20, d.Height),
		tags.NewFloat(11, d.PixelWidth),
		tags.NewFloat(21, d.PixelHeight),
		tags.NewBool(tags.CodeBool280, d.Loaded),
		tags.NewInt(tags.CodeCloning, d.ResolutionUnits),
	), nil
}

func (d *ImageDef) DecodeTags(ts tags.Tags) error {
	rest, err := d.applyHead(ts)
	if err != nil {
		return err
	}
	for _, t := range rest {
		var err error
		switch t.Code {
		case tags.CodeInt90:
			d.ClassVersion, err = t.Int()
		case tags.CodeValue:
			d.Filename = t.Value
		case 10:
			d.Width, err = t.Float()
		case 20:
			d.Height, err = t.Float()
		case 11:
			d.PixelWidth, err = t.Float()
		case 21:
			d.PixelHeight, err = t.Float()
		case tags.CodeBool280:
			d.Loaded, err = t.Bool()
		case tags.CodeCloning:
			d.ResolutionUnits, err = t.Int()
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// ProbeImageSize determines the pixel dimensions of a raster file.
// Supported formats: png, jpeg, gif, bmp and tiff.
func ProbeImageSize(fs vfs.FileSystem, path string) (int, int, error) {
	f, err := fs.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("cannot probe image %q: %w", path, err)
	}
	return cfg.Width, cfg.Height, nil
}

////////////////////////////////////////////////////////////////////////////////

// ImageDefReactor (IMAGEDEF_REACTOR) links an IMAGE entity to its
// image definition to get notified about definition changes.
type ImageDefReactor struct {
	ObjectMeta   `json:",inline"`
	ClassVersion int64         `json:"classVersion"`
	Image        handle.Handle `json:"image"`
}

var _ Object = (*ImageDefReactor)(nil)

func NewImageDefReactor(image handle.Handle) *ImageDefReactor {
	return &ImageDefReactor{
		ObjectMeta:   NewObjectMeta(TypeImageDefReactor),
		ClassVersion: 2,
		Image:        image,
	}
}

func (r *ImageDefReactor) EncodeTags() (tags.Tags, error) {
	return append(r.headTags(),
		tags.New(tags.CodeSubclass, "AcDbRasterImageDefReactor"),
		tags.NewInt(tags.CodeInt90, r.ClassVersion),
		tags.NewHandle(tags.CodeOwner, r.Image),
	), nil
}

func (r *ImageDefReactor) DecodeTags(ts tags.Tags) error {
	rest, err := r.applyHead(ts)
	if err != nil {
		return err
	}
	for _, t := range rest {
		var err error
		switch t.Code {
		case tags.CodeInt90:
			r.ClassVersion, err = t.Int()
		case tags.CodeOwner:
			r.Image, err = t.Handle()
		}
		if err != nil {
			return err
		}
	}
	return nil
}

////////////////////////////////////////////////////////////////////////////////

// Image frame modes (group 70 of RASTERVARIABLES).
const (
	FrameHide = int64(0)
	FrameShow = int64(1)
)

// RasterVariables (RASTERVARIABLES) holds the drawing wide image
// display settings, linked from the root dictionary.
type RasterVariables struct {
	ObjectMeta   `json:",inline"`
	ClassVersion int64 `json:"classVersion"`
	Frame        int64 `json:"frame"`
	Quality      int64 `json:"quality"`
	Units        int64 `json:"units"`
}

var _ Object = (*RasterVariables)(nil)

func NewRasterVariables(frame, quality, units int64) *RasterVariables {
	return &RasterVariables{
		ObjectMeta: NewObjectMeta(TypeRasterVariables),
		Frame:      frame,
		Quality:    quality,
		Units:      units,
	}
}

func (v *RasterVariables) EncodeTags() (tags.Tags, error) {
	return append(v.headTags(),
		tags.New(tags.CodeSubclass, "AcDbRasterVariables"),
		tags.NewInt(tags.CodeInt90, v.ClassVersion),
		tags.NewInt(tags.CodeFlags, v.Frame),
		tags.NewInt(71, v.Quality),
		tags.NewInt(72, v.Units),
	), nil
}

func (v *RasterVariables) DecodeTags(ts tags.Tags) error {
	rest, err := v.applyHead(ts)
	if err != nil {
		return err
	}
	for _, t := range rest {
		var err error
		switch t.Code {
		case tags.CodeInt90:
			v.ClassVersion, err = t.Int()
		case tags.CodeFlags:
			v.Frame, err = t.Int()
		case 71:
			v.Quality, err = t.Int()
		case 72:
			v.Units, err = t.Int()
		}
		if err != nil {
			return err
		}
	}
	return nil
}

////////////////////////////////////////////////////////////////////////////////

// WipeoutVariables (WIPEOUTVARIABLES) controls the display of
// wipeout frames, linked from the root dictionary.
type WipeoutVariables struct {
	ObjectMeta `json:",inline"`
	Frame      int64 `json:"frame"`
}

var _ Object = (*WipeoutVariables)(nil)

func NewWipeoutVariables(frame int64) *WipeoutVariables {
	return &WipeoutVariables{
		ObjectMeta: NewObjectMeta(TypeWipeoutVariables),
		Frame:      frame,
	}
}

func (v *WipeoutVariables) EncodeTags() (tags.Tags, error) {
	return append(v.headTags(),
		tags.New(tags.CodeSubclass, "AcDbWipeoutVariables"),
		tags.NewInt(tags.CodeFlags, v.Frame),
	), nil
}

func (v *WipeoutVariables) DecodeTags(ts tags.Tags) error {
	rest, err := v.applyHead(ts)
	if err != nil {
		return err
	}
	if t, ok := rest.Find(tags.CodeFlags); ok {
		f, err := t.Int()
		if err != nil {
			return err
		}
		v.Frame = f
	}
	return nil
}
