package watch

import (
	"encoding/json"
	"net"
	"net/http"
	"slices"
	"sync"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"

	"github.com/kkkkkom/ezdxf/pkg/utils"
)

type EventHandler[E any] interface {
	HandleEvent(e E)
}

// Registry dispatches events to handlers according to a registration
// request.
type Registry[R any, E any] interface {
	RegisterWatchHandler(r R, h EventHandler[E])
	UnregisterWatchHandler(r R, h EventHandler[E])
}

// WatchHttpHandler provides an http handler upgrading requests to
// websocket connections. The first client message is the JSON
// encoded registration request, afterwards matching events are
// streamed to the client.
func WatchHttpHandler[R, E any](r Registry[R, E]) *RequestHandler[R, E] {
	return &RequestHandler[R, E]{registry: r}
}

type RequestHandler[R, E any] struct {
	lock        sync.Mutex
	registry    Registry[R, E]
	connections []*connection[R, E]
}

var _ http.Handler = (*RequestHandler[any, any])(nil)

func (h *RequestHandler[R, E]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log.Info("new watch request")
	conn, _, _, err := ws.UpgradeHTTP(r, w)
	if err != nil {
		http.Error(w, errorMessage(err.Error()), http.StatusBadRequest)
		return
	}

	req, ok := readRegistration[R](conn)
	if !ok {
		return
	}

	c := &connection[R, E]{owner: h, conn: conn, req: req}
	h.registry.RegisterWatchHandler(req, c)

	h.lock.Lock()
	h.connections = append(h.connections, c)
	h.lock.Unlock()
}

// Close terminates all client connections.
func (h *RequestHandler[R, E]) Close() error {
	h.lock.Lock()
	conns := slices.Clone(h.connections)
	h.lock.Unlock()

	for _, c := range conns {
		c.Close()
	}
	return nil
}

func (h *RequestHandler[R, E]) drop(c *connection[R, E]) {
	h.registry.UnregisterWatchHandler(c.req, c)
	h.lock.Lock()
	h.connections = utils.FilterSlice(h.connections, utils.NotFilter(utils.EqualsFilter(c)))
	h.lock.Unlock()
}

func readRegistration[R any](conn net.Conn) (R, bool) {
	var req R

	msg, op, err := wsutil.ReadClientData(conn)
	if err != nil {
		log.LogError(err, "reading registration request")
		reject(conn, err.Error())
		return req, false
	}
	if op != ws.OpText {
		log.Error("no text data")
		reject(conn, "text registration request required")
		return req, false
	}
	if err := json.Unmarshal(msg, &req); err != nil {
		log.LogError(err, "decoding registration request")
		reject(conn, err.Error())
		return req, false
	}
	return req, true
}

func reject(conn net.Conn, msg string) {
	wsutil.WriteServerMessage(conn, ws.OpText, []byte(errorMessage(msg)))
	conn.Close()
}

func errorMessage(msg string) string {
	data, _ := json.Marshal(map[string]string{"error": msg})
	return string(data)
}

////////////////////////////////////////////////////////////////////////////////

// connection streams matching events to one websocket client.
type connection[R, E any] struct {
	owner *RequestHandler[R, E]
	conn  net.Conn
	req   R
}

func (c *connection[R, E]) HandleEvent(e E) {
	log.Info("sending event {{event}}", "event", e)
	data, _ := json.Marshal(e)
	if err := wsutil.WriteServerMessage(c.conn, ws.OpText, data); err != nil {
		log.LogError(err, "cannot send event -> closing connection")
		c.conn.Close()
		c.owner.drop(c)
	}
}

func (c *connection[R, E]) Close() error {
	log.Info("closing connection for {{req}}", "req", c.req)
	c.conn.Close()
	c.owner.drop(c)
	return nil
}
