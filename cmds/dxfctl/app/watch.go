package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kkkkkom/ezdxf/pkg/utils"
	"github.com/kkkkkom/ezdxf/watch"
)

type WatchCmd struct {
	cmd *cobra.Command

	mainopts *Options
	owner    string
}

func NewWatch(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch {<type>}",
		Short: "watch object modifications on a drawing server",
	}

	c := &WatchCmd{
		cmd:      cmd,
		mainopts: opts,
	}
	c.cmd.RunE = func(cmd *cobra.Command, args []string) error { return c.Run(args) }
	cmd.Flags().StringVarP(&c.owner, "owner", "O", "", "restrict to objects of this owner handle")
	return cmd
}

func (c *WatchCmd) Run(args []string) error {
	client := watch.NewClient[watch.Request, watch.Event](c.mainopts.GetWatchURL())

	req := watch.Request{
		Types: args,
		Owner: c.owner,
	}
	s, err := client.Register(context.Background(), req, c)
	if err != nil {
		return err
	}
	return s.Wait()
}

func (c *WatchCmd) HandleEvent(e watch.Event) {
	state := "modified"
	if e.Deleted {
		state = "deleted"
	}
	fmt.Fprintf(c.cmd.OutOrStdout(), "%s %-9s %s <%s> owner <%s>\n", utils.NewTimestamp(), state, e.Type, e.Handle, e.Owner)
}
