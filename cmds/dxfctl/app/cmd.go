package app

import (
	"fmt"
	"strings"

	"github.com/mandelsoft/logging"
	"github.com/mandelsoft/vfs/pkg/osfs"
	"github.com/mandelsoft/vfs/pkg/vfs"
	"github.com/spf13/cobra"

	"github.com/kkkkkom/ezdxf/pkg/dxf/document"
	"github.com/kkkkkom/ezdxf/pkg/utils"
)

type Options struct {
	server string
	file   string
	level  string
	fs     vfs.FileSystem
}

// Local reports whether commands operate on a local drawing file
// instead of a remote server.
func (o *Options) Local() bool {
	return o.file != ""
}

func (o *Options) GetURL() string {
	a := o.server
	if !strings.HasPrefix(a, "http://") && !strings.HasPrefix(a, "https://") {
		a = "http://" + a
	}
	return strings.TrimSuffix(a, "/")
}

func (o *Options) GetWatchURL() string {
	u := o.GetURL()
	u = "ws" + strings.TrimPrefix(u, "http")
	return u + "/watch"
}

// Open loads the local drawing file.
func (o *Options) Open() (*document.Drawing, error) {
	if !o.Local() {
		return nil, fmt.Errorf("no drawing file configured (use --file)")
	}
	return document.Read(o.fs, o.file)
}

// Save stores the local drawing file.
func (o *Options) Save(d *document.Drawing) error {
	return document.Write(o.fs, o.file, d)
}

func New(fss ...vfs.FileSystem) *cobra.Command {
	opts := &Options{
		fs: utils.OptionalDefaulted(vfs.FileSystem(osfs.OsFs), fss...),
	}

	cfg := GetConfig()
	opts.server = cfg.Server
	opts.file = cfg.File
	opts.level = "warn"

	maincmd := &cobra.Command{
		Use:   "dxfctl <options> <cmd> <args>",
		Short: "work with the object section of drawing files",
		Long: `
This command inspects and manipulates the OBJECTS section of DXF
drawing files, either directly on a local file or via a drawing
server.
`,
		TraverseChildren: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := logging.ParseLevel(opts.level)
			if err != nil {
				return fmt.Errorf("invalid log level %q", opts.level)
			}
			lctx := logging.DefaultContext()
			lctx.AddRule(logging.NewConditionRule(l, logging.NewRealmPrefix("dxf")))
			return nil
		},
	}

	flags := maincmd.PersistentFlags()

	flags.StringVarP(&opts.server, "server", "s", opts.server, "drawing server address")
	flags.StringVarP(&opts.file, "file", "f", opts.file, "local drawing file")
	flags.StringVarP(&opts.level, "log-level", "L", opts.level, "log level")

	maincmd.AddCommand(NewNew(opts))
	maincmd.AddCommand(NewGet(opts))
	maincmd.AddCommand(NewTree(opts))
	maincmd.AddCommand(NewQuery(opts))
	maincmd.AddCommand(NewAdd(opts))
	maincmd.AddCommand(NewDelete(opts))
	maincmd.AddCommand(NewAudit(opts))
	maincmd.AddCommand(NewServe(opts))
	maincmd.AddCommand(NewWatch(opts))
	return maincmd
}
