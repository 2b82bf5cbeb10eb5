package app

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/mandelsoft/vfs/pkg/vfs"
	"github.com/spf13/cobra"

	"github.com/kkkkkom/ezdxf/pkg/ctxutil"
	"github.com/kkkkkom/ezdxf/pkg/dxf/document"
	"github.com/kkkkkom/ezdxf/pkg/dxf/handle"
	"github.com/kkkkkom/ezdxf/pkg/dxf/objects"
	"github.com/kkkkkom/ezdxf/pkg/pool"
)

type Audit struct {
	cmd *cobra.Command

	mainopts *Options
	workers  int
	timeout  time.Duration

	dir     string
	drawing *document.Drawing

	lock      sync.Mutex
	remaining int
	findings  []string
	reports   map[string]string
	ctx       context.Context
}

func NewAudit(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit [<dir>]",
		Short: "check the reference integrity of drawings",
		Long: `
Verify that all object references of the OBJECTS section can be
resolved: owners, dictionary entries, reactors and extension
dictionaries. With a directory argument all drawing files in it are
scanned concurrently and reported with their object count and
content fingerprint, otherwise the configured drawing file is
audited.
`,
		Args: cobra.MaximumNArgs(1),
	}

	c := &Audit{
		cmd:      cmd,
		mainopts: opts,
	}
	c.cmd.RunE = func(cmd *cobra.Command, args []string) error { return c.Run(args) }
	cmd.Flags().IntVarP(&c.workers, "workers", "w", 4, "number of audit workers")
	cmd.Flags().DurationVar(&c.timeout, "timeout", 0, "abort the audit after this duration")
	return cmd
}

func (c *Audit) Run(args []string) error {
	var keys []string

	if len(args) > 0 {
		c.dir = args[0]
		files, err := vfs.ReadDir(c.mainopts.fs, c.dir)
		if err != nil {
			return err
		}
		for _, f := range files {
			if !f.IsDir() {
				keys = append(keys, f.Name())
			}
		}
	} else {
		d, err := c.mainopts.Open()
		if err != nil {
			return err
		}
		c.drawing = d
		for _, h := range d.Objects.Handles() {
			keys = append(keys, h.String())
		}
	}

	c.remaining = len(keys)
	c.reports = map[string]string{}
	if c.timeout > 0 {
		c.ctx = ctxutil.TimeoutContext(context.Background(), c.timeout)
	} else {
		c.ctx = ctxutil.CancelContext(context.Background())
	}

	p := pool.NewPool("audit", c.workers, pool.ActionFunc(c.reconcile))
	ready, done, err := p.Start(c.ctx)
	if err != nil {
		return err
	}
	if err := ready.Wait(); err != nil {
		return err
	}

	for _, k := range keys {
		p.EnqueueKey(k)
	}
	if len(keys) == 0 {
		ctxutil.Cancel(c.ctx)
	}
	if err := done.Wait(); err != nil {
		return err
	}

	out := c.cmd.OutOrStdout()
	if c.dir != "" {
		for _, k := range keys {
			if r, ok := c.reports[k]; ok {
				fmt.Fprintf(out, "%s\n", r)
			}
		}
	} else {
		fmt.Fprintf(out, "%s: %d objects, fingerprint %s\n",
			c.mainopts.file, c.drawing.Objects.Len(), c.drawing.Fingerprint())
	}

	if len(c.findings) == 0 {
		fmt.Fprintf(out, "no issues found\n")
		return nil
	}
	for _, f := range c.findings {
		fmt.Fprintf(out, "%s\n", f)
	}
	return fmt.Errorf("%d issues found", len(c.findings))
}

func (c *Audit) reconcile(p pool.Pool, key string) pool.Status {
	if c.dir != "" {
		c.scanDrawing(key)
	} else {
		if o, err := c.drawing.Objects.Get(handle.Handle(key)); err == nil {
			c.check(c.drawing.Objects, "", o)
		}
	}

	c.lock.Lock()
	c.remaining--
	last := c.remaining == 0
	c.lock.Unlock()
	if last {
		ctxutil.Cancel(c.ctx)
	}
	return pool.StatusCompleted()
}

func (c *Audit) scanDrawing(name string) {
	d, err := document.Read(c.mainopts.fs, filepath.Join(c.dir, name))
	if err != nil {
		c.finding("%s: cannot read drawing: %s", name, err)
		return
	}
	for _, o := range d.Objects.All() {
		c.check(d.Objects, name+": ", o)
	}
	c.lock.Lock()
	c.reports[name] = fmt.Sprintf("%s: %d objects, fingerprint %s", name, d.Objects.Len(), d.Fingerprint())
	c.lock.Unlock()
}

func (c *Audit) finding(msg string, args ...interface{}) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.findings = append(c.findings, fmt.Sprintf(msg, args...))
}

func (c *Audit) check(sec *objects.Section, prefix string, o objects.Object) {
	root := sec.RootDict()

	report := func(msg string, args ...interface{}) {
		c.finding("%s<%s> %s: %s", prefix, o.GetHandle(), o.GetType(), fmt.Sprintf(msg, args...))
	}

	if owner := o.GetOwner(); !owner.IsNull() && !sec.Contains(owner) {
		report("dangling owner <%s>", owner)
	}
	if o.GetOwner().IsNull() && o.GetHandle() != root.Handle {
		report("no owner")
	}
	for _, r := range o.GetReactors() {
		if !sec.Contains(r) {
			report("dangling reactor <%s>", r)
		}
	}
	if x := o.GetExtensionDictHandle(); !x.IsNull() && !sec.Contains(x) {
		report("dangling extension dictionary <%s>", x)
	}
	if dict, err := sec.GetDictionary(o.GetHandle()); err == nil {
		for _, e := range dict.Entries {
			if !sec.Contains(e.Ref) {
				report("dangling entry %q <%s>", e.Key, e.Ref)
			}
		}
	}
}
