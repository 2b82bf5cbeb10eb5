package app

import (
	"fmt"

	"github.com/mandelsoft/vfs/pkg/vfs"
	"github.com/spf13/cobra"

	"github.com/kkkkkom/ezdxf/pkg/dxf/document"
)

type Create struct {
	cmd *cobra.Command

	mainopts *Options
	version  string
}

func NewNew(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new",
		Short: "create a new drawing file",
		Args:  cobra.NoArgs,
	}

	c := &Create{
		cmd:      cmd,
		mainopts: opts,
	}
	c.cmd.RunE = func(cmd *cobra.Command, args []string) error { return c.Run() }
	cmd.Flags().StringVarP(&c.version, "version", "V", document.VersionR2013, "drawing file version")
	return cmd
}

func (c *Create) Run() error {
	if !c.mainopts.Local() {
		return fmt.Errorf("no drawing file configured (use --file)")
	}
	if ok, _ := vfs.Exists(c.mainopts.fs, c.mainopts.file); ok {
		return fmt.Errorf("file %q already exists", c.mainopts.file)
	}
	d := document.New(c.version)
	if err := c.mainopts.Save(d); err != nil {
		return err
	}
	fmt.Fprintf(c.cmd.OutOrStdout(), "created %s (%s)\n", c.mainopts.file, d.Version())
	return nil
}
