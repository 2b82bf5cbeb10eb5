package app

import (
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kkkkkom/ezdxf/pkg/dxf/query"
)

type Query struct {
	cmd *cobra.Command

	mainopts *Options
	output   string
}

func NewQuery(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <expression>",
		Short: "query drawing objects",
		Long: `
Select objects by type name patterns and attribute conditions,
for example:

  dxfctl query "DICTIONARY"
  dxfctl query "IMAGEDEF[filename=='logo.png']"
  dxfctl query "* [owner=='C']"
`,
		Args: cobra.MinimumNArgs(1),
	}

	c := &Query{
		cmd:      cmd,
		mainopts: opts,
	}
	c.cmd.RunE = func(cmd *cobra.Command, args []string) error { return c.Run(args) }
	cmd.Flags().StringVarP(&c.output, "output", "o", "", "output format (json, yaml)")
	return cmd
}

func (c *Query) Run(args []string) error {
	expr := strings.Join(args, " ")

	var list []Object

	if c.mainopts.Local() {
		d, err := c.mainopts.Open()
		if err != nil {
			return err
		}
		objs, err := query.Execute(d.Objects, expr)
		if err != nil {
			return err
		}
		for _, o := range objs {
			g, err := generic(o)
			if err != nil {
				return err
			}
			list = append(list, g)
		}
	} else {
		var err error
		list, err = getList(c.mainopts.GetURL() + "/api/query?q=" + url.QueryEscape(expr))
		if err != nil {
			return err
		}
	}
	return PrintObjects(c.cmd.OutOrStdout(), list, c.output, "")
}
