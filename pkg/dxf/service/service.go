package service

import (
	"context"
	"time"

	"github.com/kkkkkom/ezdxf/pkg/server"
	"github.com/kkkkkom/ezdxf/pkg/service"
)

const shutdownTimeout = 10 * time.Second

// WebService runs an http server as a managed service.
type WebService struct {
	srv     *server.Server
	syncher service.Syncher
}

var _ service.Service = (*WebService)(nil)

func NewWebService(srv *server.Server) *WebService {
	return &WebService{srv: srv}
}

func (s *WebService) Start(ctx context.Context) (service.Syncher, service.Syncher, error) {
	ready := service.SyncTrigger()
	done := service.SyncTrigger()
	s.syncher = done

	go func() {
		log.Info("starting server on {{addr}}", "addr", s.srv.Addr)
		ready.Trigger()
		err := s.srv.ListenAndServeContext(ctx, shutdownTimeout)
		done.SetError(err)
		done.Trigger()
	}()
	return ready, done, nil
}

func (s *WebService) Wait() error {
	return s.syncher.Wait()
}
