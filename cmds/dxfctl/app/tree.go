package app

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/kkkkkom/ezdxf/pkg/dxf/document"
	"github.com/kkkkkom/ezdxf/pkg/dxf/handle"
	"github.com/kkkkkom/ezdxf/pkg/dxf/objects"
)

type Tree struct {
	cmd *cobra.Command

	mainopts *Options
}

func NewTree(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "show the dictionary hierarchy of the drawing",
		Args:  cobra.NoArgs,
	}

	c := &Tree{
		cmd:      cmd,
		mainopts: opts,
	}
	c.cmd.RunE = func(cmd *cobra.Command, args []string) error { return c.Run() }
	return cmd
}

func (c *Tree) Run() error {
	d, err := c.mainopts.Open()
	if err != nil {
		return err
	}

	root := d.RootDict()
	node := pterm.TreeNode{
		Text:     fmt.Sprintf("rootdict <%s>", root.Handle),
		Children: c.children(d, root, map[handle.Handle]bool{root.Handle: true}),
	}
	return pterm.DefaultTree.WithRoot(node).Render()
}

func (c *Tree) children(d *document.Drawing, dict *objects.Dictionary, seen map[handle.Handle]bool) []pterm.TreeNode {
	var nodes []pterm.TreeNode
	for _, e := range dict.Entries {
		text := fmt.Sprintf("%s <%s>", e.Key, e.Ref)
		o, err := d.Objects.Get(e.Ref)
		if err != nil {
			nodes = append(nodes, pterm.TreeNode{Text: text + " (dangling)"})
			continue
		}
		text = fmt.Sprintf("%s: %s <%s>", e.Key, o.GetType(), e.Ref)
		node := pterm.TreeNode{Text: text}
		if sub, err := d.Objects.GetDictionary(e.Ref); err == nil && !seen[e.Ref] {
			seen[e.Ref] = true
			node.Children = c.children(d, sub, seen)
		}
		nodes = append(nodes, node)
	}
	return nodes
}
