package app

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/kkkkkom/ezdxf/pkg/dxf/objects"
)

type Get struct {
	cmd *cobra.Command

	mainopts *Options
	sort     string
	output   string
}

func NewGet(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get {<handle>} <options>",
		Short: "get objects from the drawing",
	}

	c := &Get{
		cmd:      cmd,
		mainopts: opts,
	}
	c.cmd.RunE = func(cmd *cobra.Command, args []string) error { return c.Run(args) }
	flags := cmd.Flags()
	flags.StringVarP(&c.sort, "sort", "S", "", "sort field")
	flags.StringVarP(&c.output, "output", "o", "", "output format (json, yaml)")
	return cmd
}

func (c *Get) Run(args []string) error {
	var list []Object
	var err error

	if c.mainopts.Local() {
		list, err = c.getLocal(args)
	} else {
		list, err = c.getRemote(args)
	}
	if err != nil {
		return err
	}
	return PrintObjects(c.cmd.OutOrStdout(), list, c.output, c.sort)
}

func (c *Get) getLocal(args []string) ([]Object, error) {
	d, err := c.mainopts.Open()
	if err != nil {
		return nil, err
	}

	var objs []objects.Object
	if len(args) == 0 {
		objs = d.Objects.All()
	} else {
		for _, arg := range args {
			h, err := parseHandle(arg)
			if err != nil {
				return nil, err
			}
			o, err := d.Objects.Get(h)
			if err != nil {
				return nil, err
			}
			objs = append(objs, o)
		}
	}

	var list []Object
	for _, o := range objs {
		g, err := generic(o)
		if err != nil {
			return nil, err
		}
		list = append(list, g)
	}
	return list, nil
}

func (c *Get) getRemote(args []string) ([]Object, error) {
	if len(args) == 0 {
		return getList(c.mainopts.GetURL() + "/api/objects")
	}
	var list []Object
	for _, arg := range args {
		get, err := http.Get(c.mainopts.GetURL() + "/api/objects/" + arg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", arg, err)
		}
		data, err := ResponseData(get)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", arg, err)
		}

		var o Object
		err = json.Unmarshal(data, &o)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", arg, err)
		}
		list = append(list, o)
	}
	return list, nil
}

func getList(url string) ([]Object, error) {
	get, err := http.Get(url)
	if err != nil {
		return nil, err
	}
	data, err := ResponseData(get)
	if err != nil {
		return nil, err
	}
	var list []Object
	err = json.Unmarshal(data, &list)
	if err != nil {
		return nil, err
	}
	return list, nil
}

func generic(o objects.Object) (Object, error) {
	data, err := yaml.Marshal(o)
	if err != nil {
		return nil, err
	}
	var g Object
	err = yaml.Unmarshal(data, &g)
	if err != nil {
		return nil, err
	}
	return g, nil
}
