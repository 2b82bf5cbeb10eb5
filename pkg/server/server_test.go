package server_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mandelsoft/vfs/pkg/memoryfs"
	"github.com/mandelsoft/vfs/pkg/vfs"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	. "github.com/kkkkkom/ezdxf/pkg/testutils"

	"github.com/kkkkkom/ezdxf/pkg/ctxutil"
	"github.com/kkkkkom/ezdxf/pkg/server"

	_ "github.com/kkkkkom/ezdxf/pkg/healthz"
)

const port = 18099

func get(path string) (string, error) {
	resp, err := http.Get(fmt.Sprintf("http://localhost:%d%s", port, path))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %s", resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

var _ = Describe("http server", func() {
	var ctx context.Context
	var srv *server.Server
	var done chan error

	BeforeEach(func() {
		ctx = ctxutil.CancelContext(context.Background())
		srv = server.NewServer(port, true)
		done = make(chan error, 1)
	})

	start := func() {
		go func() {
			done <- srv.ListenAndServeContext(ctx, time.Second)
			close(done)
		}()
		Eventually(func() error {
			_, err := get("/healthz")
			return err
		}).Should(Succeed())
	}

	AfterEach(func() {
		ctxutil.Cancel(ctx)
		Eventually(done).Should(BeClosed())
	})

	It("serves registered handlers", func() {
		srv.Handle("/hello", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(w, "hello\n")
		}))
		start()

		Expect(get("/hello")).To(Equal("hello\n"))
	})

	It("serves the default mux", func() {
		start()

		_, err := get("/healthz")
		Expect(err).NotTo(HaveOccurred())
	})

	It("shuts down gracefully on context cancellation", func() {
		start()

		ctxutil.Cancel(ctx)
		Eventually(done).Should(Receive(BeNil()))

		_, err := get("/healthz")
		Expect(err).To(HaveOccurred())
	})

	It("serves directory content", func() {
		fs := memoryfs.New()
		MustBeSuccessful(vfs.WriteFile(fs, "plan.dxf", []byte("  0\nEOF\n"), 0o644))

		dir := server.NewDirectoryHandler(fs, "/files")
		dir.RegisterHandler(srv)
		start()

		Expect(get("/files/plan.dxf")).To(Equal("  0\nEOF\n"))
	})
})
