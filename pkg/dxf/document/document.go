package document

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mandelsoft/vfs/pkg/vfs"

	"github.com/kkkkkom/ezdxf/pkg/dxf/objects"
	"github.com/kkkkkom/ezdxf/pkg/dxf/query"
	"github.com/kkkkkom/ezdxf/pkg/dxf/tags"
	"github.com/kkkkkom/ezdxf/pkg/utils"
)

// Section names of a drawing file.
const (
	SectionHeader   = "HEADER"
	SectionClasses  = "CLASSES"
	SectionTables   = "TABLES"
	SectionBlocks   = "BLOCKS"
	SectionEntities = "ENTITIES"
	SectionObjects  = "OBJECTS"
)

// RawSection preserves sections this package does not model.
type RawSection struct {
	Name string    `json:"name"`
	Body tags.Tags `json:"body,omitempty"`
}

// Drawing is a DXF document: the header variables, the OBJECTS
// section and the raw bodies of all other sections. Sections keep
// their file order.
type Drawing struct {
	Header  *Header
	Objects *objects.Section

	order []string
	raw   map[string]*RawSection
}

// New creates an empty drawing for the given file version
// (default R2013) with a prepared OBJECTS section.
func New(version ...string) *Drawing {
	d := &Drawing{
		Header:  &Header{},
		Objects: objects.NewSection(),
		order:   []string{SectionHeader, SectionObjects},
		raw:     map[string]*RawSection{},
	}
	now := time.Now().UTC()
	d.Header.SetVersion(utils.OptionalDefaulted(VersionR2013, version...))
	d.Header.SetFingerprintGUID(guid())
	d.Header.SetVersionGUID(guid())
	d.Header.SetCreated(now)
	d.Header.SetUpdated(now)
	return d
}

func guid() string {
	return "{" + strings.ToUpper(uuid.NewString()) + "}"
}

// Version yields the drawing file version ($ACADVER).
func (d *Drawing) Version() string {
	return d.Header.Version()
}

// Sections yields the section names in file order.
func (d *Drawing) Sections() []string {
	return append([]string(nil), d.order...)
}

// RawSectionBody yields the preserved body of an unmodeled section.
func (d *Drawing) RawSectionBody(name string) (tags.Tags, bool) {
	if s, ok := d.raw[name]; ok {
		return s.Body, true
	}
	return nil, false
}

// Fingerprint is a stable content hash over the header variables
// and all objects, suitable for change detection.
func (d *Drawing) Fingerprint() string {
	data := map[string]interface{}{
		"header":  d.Header.Vars,
		"objects": d.Objects.All(),
	}
	return utils.HashData(data)
}

////////////////////////////////////////////////////////////////////////////////
// convenience access to the OBJECTS section

// RootDict yields the named object dictionary.
func (d *Drawing) RootDict() *objects.Dictionary {
	return d.Objects.RootDict()
}

// Query runs an object query against the OBJECTS section.
func (d *Drawing) Query(expr string) ([]objects.Object, error) {
	return query.Execute(d.Objects, expr)
}

// AddImageDef creates an image definition for a raster file and
// registers it in the image dictionary.
func (d *Drawing) AddImageDef(filename string, width, height float64, name ...string) *objects.ImageDef {
	return d.Objects.AddImageDef(filename, width, height, name...)
}

// AddUnderlayDef creates an underlay definition.
func (d *Drawing) AddUnderlayDef(kind objects.UnderlayKind, filename, name string) (*objects.UnderlayDefinition, error) {
	return d.Objects.AddUnderlayDef(kind, filename, name)
}

// SetRasterVariables configures the drawing wide image display
// settings.
func (d *Drawing) SetRasterVariables(frame, quality, units int64) *objects.RasterVariables {
	return d.Objects.SetRasterVariables(frame, quality, units)
}

// SetWipeoutVariables configures the wipeout frame display.
func (d *Drawing) SetWipeoutVariables(frame int64) *objects.WipeoutVariables {
	return d.Objects.SetWipeoutVariables(frame)
}

////////////////////////////////////////////////////////////////////////////////
// file representation

// Decode reads a drawing from its textual form.
func Decode(r io.Reader) (*Drawing, error) {
	ts, err := tags.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}

	d := &Drawing{
		Header:  &Header{},
		Objects: objects.NewEmptySection(),
		raw:     map[string]*RawSection{},
	}

	var name string
	var body tags.Tags
	in := false
	for _, t := range ts {
		switch {
		case t.Code == tags.CodeStructure && t.Value == "SECTION":
			if in {
				return nil, fmt.Errorf("nested SECTION")
			}
			in = true
			name = ""
			body = nil
		case t.Code == tags.CodeStructure && t.Value == "ENDSEC":
			if !in {
				return nil, fmt.Errorf("ENDSEC without SECTION")
			}
			if err := d.addSection(name, body); err != nil {
				return nil, err
			}
			in = false
		case t.Code == tags.CodeStructure && t.Value == "EOF":
			if in {
				return nil, fmt.Errorf("EOF inside SECTION %s", name)
			}
			if !slices.Contains(d.order, SectionObjects) {
				d.Objects.Setup()
				d.order = append(d.order, SectionObjects)
			}
			return d, nil
		case in && name == "" && t.Code == tags.CodeName:
			name = t.Value
		case in:
			body = append(body, t)
		default:
			return nil, fmt.Errorf("unexpected tag %s outside any section", t)
		}
	}
	return nil, fmt.Errorf("missing EOF")
}

func (d *Drawing) addSection(name string, body tags.Tags) error {
	if name == "" {
		return fmt.Errorf("section without name")
	}
	d.order = append(d.order, name)
	switch name {
	case SectionHeader:
		d.Header.DecodeTags(body)
	case SectionObjects:
		if err := d.Objects.LoadTags(body); err != nil {
			return err
		}
		d.Objects.ReserveHandle(d.Header.HandSeed())
	default:
		d.raw[name] = &RawSection{Name: name, Body: body}
	}
	return nil
}

// Encode writes the drawing in its textual form. The header is
// updated with the current handle seed and modification time
// before.
func (d *Drawing) Encode(w io.Writer) error {
	tw := tags.NewWriter(w)

	order := d.order
	if len(order) == 0 {
		order = []string{SectionHeader, SectionObjects}
	}
	for _, name := range order {
		var body tags.Tags
		switch name {
		case SectionHeader:
			d.Header.SetUpdated(time.Now().UTC())
			d.Header.SetHandSeed(d.Objects.HandleSeed())
			body = d.Header.EncodeTags()
		case SectionObjects:
			var err error
			body, err = d.Objects.ExportTags()
			if err != nil {
				return err
			}
		default:
			if s, ok := d.raw[name]; ok {
				body = s.Body
			}
		}
		tw.WriteTag(tags.New(tags.CodeStructure, "SECTION"))
		tw.WriteTag(tags.New(tags.CodeName, name))
		tw.WriteTags(body)
		tw.WriteTag(tags.New(tags.CodeStructure, "ENDSEC"))
	}
	tw.WriteTag(tags.New(tags.CodeStructure, "EOF"))
	return tw.Err()
}

// Read loads a drawing file from a filesystem.
func Read(fs vfs.FileSystem, path string) (*Drawing, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	d, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Debug("loaded drawing {{path}} ({{version}})", "path", path, "version", d.Version())
	return d, nil
}

// Write stores a drawing file on a filesystem. The version GUID is
// renewed to mark a new document state.
func Write(fs vfs.FileSystem, path string, d *Drawing) error {
	d.Header.SetVersionGUID(guid())

	f, err := fs.OpenFile(path, vfs.O_CREATE|vfs.O_TRUNC|vfs.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := d.Encode(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	log.Debug("stored drawing {{path}}", "path", path)
	return nil
}
