package objects

import (
	gomath "math"

	"github.com/paulmach/orb"

	"github.com/kkkkkom/ezdxf/pkg/dxf/handle"
	"github.com/kkkkkom/ezdxf/pkg/dxf/tags"
	"github.com/kkkkkom/ezdxf/pkg/math"
)

// Geo coordinate types (group 70).
const (
	CoordinateTypeUnknown    = int64(0)
	CoordinateTypeLocalGrid  = int64(1)
	CoordinateTypeProjected  = int64(2)
	CoordinateTypeGeographic = int64(3)
)

// GeoDataVersion is the only supported class version (R2010+).
const GeoDataVersion = int64(3)

const earthRadius = 6378137.0

// chunk size for the coordinate system definition text
const csdChunk = 255

// MeshVertex maps a point of the design space to a geographic
// location.
type MeshVertex struct {
	Source math.Vec3 `json:"source"`
	Target orb.Point `json:"target"`
}

// GeoData (GEODATA) georeferences the model space of a drawing. It
// lives in the extension dictionary of the model space block record
// under the key ACAD_GEOGRAPHICDATA.
type GeoData struct {
	ObjectMeta          `json:",inline"`
	Version             int64         `json:"version"`
	CoordinateType      int64         `json:"coordinateType"`
	HostBlock           handle.Handle `json:"hostBlock,omitempty"`
	DesignPoint         math.Vec3     `json:"designPoint"`
	ReferencePoint      orb.Point     `json:"referencePoint"`
	NorthDirection      [2]float64    `json:"northDirection"`
	HorizontalUnitScale float64       `json:"horizontalUnitScale"`
	VerticalUnitScale   float64       `json:"verticalUnitScale"`
	UserScale           float64       `json:"userScale,omitempty"`
	SeaLevelCorrection  bool          `json:"seaLevelCorrection,omitempty"`
	SeaLevelElevation   float64       `json:"seaLevelElevation,omitempty"`
	CoordinateSystem    string        `json:"coordinateSystem,omitempty"`
	GeoRSSTag           string        `json:"geoRSSTag,omitempty"`
	Mesh                []MeshVertex  `json:"mesh,omitempty"`
}

var _ Object = (*GeoData)(nil)

func NewGeoData() *GeoData {
	return &GeoData{
		ObjectMeta:          NewObjectMeta(TypeGeoData),
		Version:             GeoDataVersion,
		CoordinateType:      CoordinateTypeGeographic,
		NorthDirection:      [2]float64{0, 1},
		HorizontalUnitScale: 1,
		VerticalUnitScale:   1,
		UserScale:           1,
	}
}

// AddMeshVertex appends a design/geographic point pair.
func (g *GeoData) AddMeshVertex(source math.Vec3, target orb.Point) {
	g.Mesh = append(g.Mesh, MeshVertex{Source: source, Target: target})
}

// TransformPoint maps a point of the design space to a geographic
// location (lon/lat in degrees) using an equirectangular local
// approximation anchored at the nearest mesh vertex, or at the
// design/reference point pair if no mesh is present.
func (g *GeoData) TransformPoint(p math.Vec3) (orb.Point, error) {
	source := g.DesignPoint
	target := g.ReferencePoint

	if len(g.Mesh) > 0 {
		points := make([]math.Vec3, len(g.Mesh))
		for i, v := range g.Mesh {
			points[i] = v.Source
		}
		tree, err := math.NewRTree(points)
		if err != nil {
			return orb.Point{}, err
		}
		nearest, _ := tree.NearestNeighbour(p)
		for _, v := range g.Mesh {
			if v.Source.IsClose(nearest) {
				source, target = v.Source, v.Target
				break
			}
		}
	}

	scale := g.HorizontalUnitScale
	if scale == 0 {
		scale = 1
	}
	dx := (p.X - source.X) * scale
	dy := (p.Y - source.Y) * scale

	// rotate the offset into true north orientation
	nx, ny := g.NorthDirection[0], g.NorthDirection[1]
	if nx != 0 || ny != 0 {
		n := gomath.Hypot(nx, ny)
		sin, cos := nx/n, ny/n
		dx, dy = dx*cos+dy*sin, dy*cos-dx*sin
	}

	lat := target.Lat() + (dy/earthRadius)*180/gomath.Pi
	lon := target.Lon() + (dx/(earthRadius*gomath.Cos(target.Lat()*gomath.Pi/180)))*180/gomath.Pi
	return orb.Point{lon, lat}, nil
}

func (g *GeoData) EncodeTags() (tags.Tags, error) {
	r := append(g.headTags(),
		tags.New(tags.CodeSubclass, "AcDbGeoData"),
		tags.NewInt(tags.CodeInt90, g.Version),
		tags.NewInt(tags.CodeFlags, g.CoordinateType),
		tags.NewHandle(tags.CodeOwner, g.HostBlock),
		tags.NewFloat(10, g.DesignPoint.X),
		tags.NewFloat(20, g.DesignPoint.Y),
		tags.NewFloat(30, g.DesignPoint.Z),
		tags.NewFloat(11, g.ReferencePoint.Lon()),
		tags.NewFloat(21, g.ReferencePoint.Lat()),
		tags.NewFloat(31, 0),
		tags.NewFloat(12, g.NorthDirection[0]),
		tags.NewFloat(22, g.NorthDirection[1]),
		tags.NewFloat(40, g.HorizontalUnitScale),
		tags.NewFloat(41, g.VerticalUnitScale),
		tags.NewFloat(141, g.UserScale),
		tags.NewBool(294, g.SeaLevelCorrection),
		tags.NewFloat(142, g.SeaLevelElevation),
	)
	csd := g.CoordinateSystem
	for len(csd) > csdChunk {
		r = append(r, tags.New(303, csd[:csdChunk]))
		csd = csd[csdChunk:]
	}
	r = append(r, tags.New(301, csd))
	if g.GeoRSSTag != "" {
		r = append(r, tags.New(302, g.GeoRSSTag))
	}
	r = append(r, tags.NewInt(93, int64(len(g.Mesh))))
	for _, v := range g.Mesh {
		r = append(r,
			tags.NewFloat(13, v.Source.X),
			tags.NewFloat(23, v.Source.Y),
			tags.NewFloat(14, v.Target.Lon()),
			tags.NewFloat(24, v.Target.Lat()),
		)
	}
	return r, nil
}

func (g *GeoData) DecodeTags(ts tags.Tags) error {
	rest, err := g.applyHead(ts)
	if err != nil {
		return err
	}
	csd := ""
	var mesh []MeshVertex
	set := func(target *float64, t tags.Tag) error {
		v, err := t.Float()
		if err != nil {
			return err
		}
		*target = v
		return nil
	}
	for _, t := range rest {
		var err error
		switch t.Code {
		case tags.CodeInt90:
			g.Version, err = t.Int()
		case tags.CodeFlags:
			g.CoordinateType, err = t.Int()
		case tags.CodeOwner:
			g.HostBlock, err = t.Handle()
		case 10:
			err = set(&g.DesignPoint.X, t)
		case 20:
			err = set(&g.DesignPoint.Y, t)
		case 30:
			err = set(&g.DesignPoint.Z, t)
		case 11:
			err = set(&g.ReferencePoint[0], t)
		case 21:
			err = set(&g.ReferencePoint[1], t)
		case 12:
			err = set(&g.NorthDirection[0], t)
		case 22:
			err = set(&g.NorthDirection[1], t)
		case 40:
			err = set(&g.HorizontalUnitScale, t)
		case 41:
			err = set(&g.VerticalUnitScale, t)
		case 141:
			err = set(&g.UserScale, t)
		case 294:
			g.SeaLevelCorrection, err = t.Bool()
		case 142:
			err = set(&g.SeaLevelElevation, t)
		case 301, 303:
			csd += t.Value
		case 302:
			g.GeoRSSTag = t.Value
		case 13:
			mesh = append(mesh, MeshVertex{})
			err = set(&mesh[len(mesh)-1].Source.X, t)
		case 23:
			if len(mesh) > 0 {
				err = set(&mesh[len(mesh)-1].Source.Y, t)
			}
		case 14:
			if len(mesh) > 0 {
				err = set(&mesh[len(mesh)-1].Target[0], t)
			}
		case 24:
			if len(mesh) > 0 {
				err = set(&mesh[len(mesh)-1].Target[1], t)
			}
		}
		if err != nil {
			return err
		}
	}
	g.CoordinateSystem = csd
	g.Mesh = mesh
	return nil
}
