package watch

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"sync"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"

	"github.com/kkkkkom/ezdxf/pkg/utils"
)

// Client connects to a watch endpoint. R is the registration request
// type, E the event type streamed by the server.
type Client[R, E any] struct {
	dialer ws.Dialer
	url    string
}

func NewClient[R, E any](url string, dialer ...ws.Dialer) *Client[R, E] {
	return &Client[R, E]{
		dialer: utils.OptionalDefaulted(ws.DefaultDialer, dialer...),
		url:    url,
	}
}

// Watch dials the endpoint and sends the registration request. The
// returned stream yields the events matching the request.
func (c *Client[R, E]) Watch(ctx context.Context, req R) (*Stream[E], error) {
	conn, _, _, err := c.dialer.Dial(ctx, c.url)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(req)
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := wsutil.WriteClientMessage(conn, ws.OpText, data); err != nil {
		conn.Close()
		return nil, err
	}
	return &Stream[E]{conn: conn}, nil
}

// Register starts a watch feeding all received events into the given
// handler until the connection dies or the context is canceled.
func (c *Client[R, E]) Register(ctx context.Context, req R, h EventHandler[E]) (Syncher, error) {
	stream, err := c.Watch(ctx, req)
	if err != nil {
		return nil, err
	}

	s := &session{}
	s.wg.Add(1)

	go func() {
		<-ctx.Done()
		stream.Close()
	}()
	go func() {
		defer s.wg.Done()
		defer stream.Close()
		for {
			events, err := stream.Receive()
			if err != nil {
				if !errors.Is(err, io.EOF) && !IsErrClosed(err) {
					s.err = err
				}
				return
			}
			for _, e := range events {
				h.HandleEvent(e)
			}
		}
	}()
	return s, nil
}

type Syncher interface {
	Wait() error
}

type session struct {
	wg  sync.WaitGroup
	err error
}

func (s *session) Wait() error {
	s.wg.Wait()
	return s.err
}

// Stream is the receiving side of an established watch.
type Stream[E any] struct {
	conn net.Conn
}

func (s *Stream[E]) Receive() ([]E, error) {
	msgs, err := wsutil.ReadServerMessage(s.conn, nil)
	if err != nil {
		return nil, err
	}
	var events []E
	for _, m := range msgs {
		var evt E
		if err := json.Unmarshal(m.Payload, &evt); err != nil {
			return nil, err
		}
		events = append(events, evt)
	}
	return events, nil
}

func (s *Stream[E]) Close() error {
	return s.conn.Close()
}
