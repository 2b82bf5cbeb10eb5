package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kkkkkom/ezdxf/pkg/dxf/document"
	"github.com/kkkkkom/ezdxf/pkg/dxf/objects"
	"github.com/kkkkkom/ezdxf/pkg/dxf/tags"
)

func NewAdd(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <kind> <args>",
		Short: "add objects to the drawing",
	}
	cmd.AddCommand(newAddDictionary(opts))
	cmd.AddCommand(newAddDictVar(opts))
	cmd.AddCommand(newAddXRecord(opts))
	cmd.AddCommand(newAddImageDef(opts))
	cmd.AddCommand(newAddUnderlay(opts))
	return cmd
}

// modify loads the drawing, applies f and stores the result.
func modify(opts *Options, f func(d *document.Drawing) error) error {
	d, err := opts.Open()
	if err != nil {
		return err
	}
	if err := f(d); err != nil {
		return err
	}
	return opts.Save(d)
}

func newAddDictionary(opts *Options) *cobra.Command {
	var hard bool
	cmd := &cobra.Command{
		Use:   "dictionary <key>",
		Short: "add a dictionary to the root dictionary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return modify(opts, func(d *document.Drawing) error {
				root := d.RootDict()
				if root.Has(args[0]) {
					return fmt.Errorf("entry %q already exists", args[0])
				}
				dict := d.Objects.AddDictionary(root.Handle, hard)
				root.Add(args[0], dict.Handle, hard)
				d.Objects.Update(root)
				fmt.Fprintf(cmd.OutOrStdout(), "added dictionary <%s>\n", dict.Handle)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&hard, "hard", false, "hard-owned dictionary")
	return cmd
}

func newAddDictVar(opts *Options) *cobra.Command {
	var dict string
	cmd := &cobra.Command{
		Use:   "dictvar <key> <value>",
		Short: "add a dictionary variable",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return modify(opts, func(d *document.Drawing) error {
				target := d.RootDict()
				if dict != "" {
					h, err := parseHandle(dict)
					if err != nil {
						return err
					}
					target, err = d.Objects.GetDictionary(h)
					if err != nil {
						return err
					}
				}
				v := d.Objects.AddDictionaryVar(target, args[0], args[1])
				fmt.Fprintf(cmd.OutOrStdout(), "added dictionary variable <%s>\n", v.Handle)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&dict, "dictionary", "d", "", "target dictionary handle (default root dictionary)")
	return cmd
}

func newAddXRecord(opts *Options) *cobra.Command {
	var owner string
	cmd := &cobra.Command{
		Use:   "xrecord {<code>=<value>}",
		Short: "add an xrecord with the given content tags",
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := parseTagArgs(args)
			if err != nil {
				return err
			}
			return modify(opts, func(d *document.Drawing) error {
				o := d.RootDict().Handle
				if owner != "" {
					if o, err = parseHandle(owner); err != nil {
						return err
					}
				}
				x := d.Objects.AddXRecord(o)
				if err := x.Append(content...); err != nil {
					return err
				}
				d.Objects.Update(x)
				fmt.Fprintf(cmd.OutOrStdout(), "added xrecord <%s>\n", x.Handle)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&owner, "owner", "O", "", "owner handle (default root dictionary)")
	return cmd
}

func parseTagArgs(args []string) (tags.Tags, error) {
	var r tags.Tags
	for _, arg := range args {
		var code int
		var value string
		if _, err := fmt.Sscanf(arg, "%d=%s", &code, &value); err != nil {
			return nil, fmt.Errorf("invalid tag %q (expected <code>=<value>)", arg)
		}
		r = append(r, tags.New(code, value))
	}
	return r, nil
}

func newAddImageDef(opts *Options) *cobra.Command {
	var probe bool
	var width, height float64
	cmd := &cobra.Command{
		Use:   "imagedef <filename>",
		Short: "register a raster image file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if probe {
				w, h, err := objects.ProbeImageSize(opts.fs, args[0])
				if err != nil {
					return err
				}
				width, height = float64(w), float64(h)
			}
			if width <= 0 || height <= 0 {
				return fmt.Errorf("image size required (--width/--height or --probe)")
			}
			return modify(opts, func(d *document.Drawing) error {
				def := d.AddImageDef(args[0], width, height)
				fmt.Fprintf(cmd.OutOrStdout(), "added image definition <%s>\n", def.Handle)
				return nil
			})
		},
	}
	flags := cmd.Flags()
	flags.BoolVar(&probe, "probe", false, "determine size from the image file")
	flags.Float64Var(&width, "width", 0, "image width in pixels")
	flags.Float64Var(&height, "height", 0, "image height in pixels")
	return cmd
}

func newAddUnderlay(opts *Options) *cobra.Command {
	var kind, name string
	cmd := &cobra.Command{
		Use:   "underlay <filename>",
		Short: "register an underlay file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return modify(opts, func(d *document.Drawing) error {
				def, err := d.AddUnderlayDef(objects.UnderlayKind(kind), args[0], name)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "added %s definition <%s>\n", kind, def.Handle)
				return nil
			})
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&kind, "kind", "k", string(objects.UnderlayPdf), "underlay kind (pdf, dwf, dgn)")
	flags.StringVarP(&name, "name", "n", "1", "content name inside the file (e.g. pdf page)")
	return cmd
}
