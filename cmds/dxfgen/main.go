package main

import (
	"fmt"
	"os"
	"time"

	"github.com/goombaio/namegenerator"
	"github.com/mandelsoft/vfs/pkg/osfs"
	"github.com/paulmach/orb"
	"github.com/spf13/pflag"
	"k8s.io/apimachinery/pkg/util/rand"

	"github.com/kkkkkom/ezdxf/pkg/dxf/document"
	"github.com/kkkkkom/ezdxf/pkg/dxf/objects"
	"github.com/kkkkkom/ezdxf/pkg/dxf/tags"
	"github.com/kkkkkom/ezdxf/pkg/math"
)

func Error(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg, args...)
	os.Exit(1)
}

// dxfgen generates drawing files with a populated OBJECTS section,
// useful as test input for dxfctl and the drawing server.
func main() {
	var file string = "generated.dxf"
	var version string = document.VersionR2013
	var dicts int = 3
	var entries int = 5
	var images int = 2
	var seed int64

	flags := pflag.NewFlagSet("dxfgen", pflag.ExitOnError)

	flags.StringVarP(&file, "file", "f", file, "output file")
	flags.StringVarP(&version, "version", "V", version, "drawing file version")
	flags.IntVarP(&dicts, "dicts", "d", dicts, "number of generated dictionaries")
	flags.IntVarP(&entries, "entries", "e", entries, "number of entries per dictionary")
	flags.IntVarP(&images, "images", "i", images, "number of generated image definitions")
	flags.Int64VarP(&seed, "seed", "S", 0, "random seed (default current time)")

	err := flags.Parse(os.Args[1:])
	if err != nil {
		Error("invalid arguments: %s", err)
	}

	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rand.Seed(seed)
	names := namegenerator.NewNameGenerator(seed)

	d := document.New(version)
	sec := d.Objects
	root := d.RootDict()

	for i := 0; i < dicts; i++ {
		key := names.Generate()
		dict := sec.AddDictionary(root.Handle, true)
		root.Add(key, dict.Handle, true)
		log.Info("generated dictionary {{key}}", "key", key)

		for j := 0; j < entries; j++ {
			name := names.Generate()
			switch rand.IntnRange(0, 3) {
			case 0:
				sec.AddDictionaryVar(dict, name, rand.String(12))
			case 1:
				x := sec.AddXRecord(dict.Handle)
				x.Append(
					tags.New(1, rand.String(16)),
					tags.NewInt(90, int64(rand.IntnRange(0, 1000))),
				)
				dict.Add(name, x.Handle, true)
			default:
				p := sec.AddPlaceholder(dict.Handle)
				dict.Add(name, p.Handle, true)
			}
		}
		sec.Update(dict)
	}
	sec.Update(root)

	for i := 0; i < images; i++ {
		name := names.Generate() + ".png"
		def := sec.AddImageDef(name,
			float64(rand.IntnRange(16, 4096)),
			float64(rand.IntnRange(16, 4096)))
		log.Info("generated image definition {{file}}", "file", def.Filename)
	}
	if images > 0 {
		sec.SetRasterVariables(objects.FrameShow, 1, 0)
	}

	geo := sec.AddGeoData(root.Handle)
	geo.DesignPoint = math.Vec3{}
	geo.ReferencePoint = orb.Point{8.682, 50.111}
	log.Info("generated geo data {{handle}}", "handle", geo.Handle)

	err = document.Write(osfs.OsFs, file, d)
	if err != nil {
		Error("cannot write %s: %s", file, err)
	}
	log.Info("generated drawing {{file}} with {{count}} objects", "file", file, "count", sec.Len())
}
