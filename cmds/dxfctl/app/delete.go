package app

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/kkkkkom/ezdxf/pkg/dxf/document"
)

type Delete struct {
	cmd *cobra.Command

	mainopts *Options
}

func NewDelete(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete {<handle>}",
		Short: "delete objects from the drawing",
		Long: `
Delete objects by handle. Hard-owned content, like the entries of
hard-owned dictionaries and extension dictionaries, is deleted
recursively.
`,
		Args: cobra.MinimumNArgs(1),
	}

	c := &Delete{
		cmd:      cmd,
		mainopts: opts,
	}
	c.cmd.RunE = func(cmd *cobra.Command, args []string) error { return c.Run(args) }
	return cmd
}

func (c *Delete) Run(args []string) error {
	if c.mainopts.Local() {
		return modify(c.mainopts, func(d *document.Drawing) error {
			for _, arg := range args {
				h, err := parseHandle(arg)
				if err != nil {
					return err
				}
				if err := d.Objects.Delete(h); err != nil {
					return err
				}
				fmt.Fprintf(c.cmd.OutOrStdout(), "deleted <%s>\n", h)
			}
			return nil
		})
	}

	for _, arg := range args {
		req, err := http.NewRequest(http.MethodDelete, c.mainopts.GetURL()+"/api/objects/"+arg, nil)
		if err != nil {
			return err
		}
		r, err := http.DefaultClient.Do(req)
		if err != nil {
			return fmt.Errorf("%s: %w", arg, err)
		}
		if _, err := ResponseData(r); err != nil {
			return fmt.Errorf("%s: %w", arg, err)
		}
		fmt.Fprintf(c.cmd.OutOrStdout(), "deleted <%s>\n", arg)
	}
	return nil
}
