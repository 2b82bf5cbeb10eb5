package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	dxfservice "github.com/kkkkkom/ezdxf/pkg/dxf/service"
	"github.com/kkkkkom/ezdxf/pkg/server"
	"github.com/kkkkkom/ezdxf/pkg/service"

	_ "github.com/kkkkkom/ezdxf/pkg/healthz"
)

type Serve struct {
	cmd *cobra.Command

	mainopts *Options
	port     int
	save     bool
	files    string
}

func NewServe(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "serve a drawing file via http",
		Long: `
Serve the OBJECTS section of a drawing file: object access and
queries under /api, a websocket event stream under /watch and
health monitoring under /healthz.
`,
		Args: cobra.NoArgs,
	}

	c := &Serve{
		cmd:      cmd,
		mainopts: opts,
	}
	c.cmd.RunE = func(cmd *cobra.Command, args []string) error { return c.Run() }
	flags := cmd.Flags()
	flags.IntVarP(&c.port, "port", "p", 8080, "server port")
	flags.BoolVar(&c.save, "save", true, "store the file on shutdown")
	flags.StringVar(&c.files, "files", "", "additionally serve this directory under /files")
	return cmd
}

func (c *Serve) Run() error {
	d, err := c.mainopts.Open()
	if err != nil {
		return err
	}

	srv := server.NewServer(c.port, true)
	access := dxfservice.NewAccess(d)
	access.RegisterHandlers(srv)
	defer access.Close()

	if c.files != "" {
		dir, err := server.NewDirectoryHandlerFor(c.files, "/files")
		if err != nil {
			return err
		}
		dir.RegisterHandler(srv)
	}

	fmt.Fprintf(c.cmd.OutOrStdout(), "serving %s on port %d\n", c.mainopts.file, c.port)

	reg := service.New(context.Background())
	if err := reg.Add(dxfservice.NewWebService(srv)); err != nil {
		return err
	}
	if err := reg.Start(); err != nil {
		return err
	}
	err = reg.Wait()

	if c.save {
		if werr := c.mainopts.Save(d); werr != nil && err == nil {
			err = werr
		}
	}
	return err
}
