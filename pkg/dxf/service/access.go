package service

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/kkkkkom/ezdxf/pkg/dxf/document"
	"github.com/kkkkkom/ezdxf/pkg/dxf/handle"
	"github.com/kkkkkom/ezdxf/pkg/dxf/objects"
	"github.com/kkkkkom/ezdxf/pkg/dxf/query"
	"github.com/kkkkkom/ezdxf/pkg/server"
	"github.com/kkkkkom/ezdxf/watch"
)

// Access provides http access to the OBJECTS section of a drawing:
//
//	GET    /api/objects            list all objects
//	GET    /api/objects/<handle>   get a single object
//	POST   /api/objects            add an object (JSON/YAML body)
//	DELETE /api/objects/<handle>   delete an object
//	GET    /api/query?q=<expr>     run an object query
//	GET    /watch                  websocket event stream
type Access struct {
	drawing *document.Drawing
	scheme  objects.Scheme
	watch   *watch.RequestHandler[watch.Request, watch.Event]
}

func NewAccess(d *document.Drawing, scheme ...objects.Scheme) *Access {
	s := objects.DefaultScheme
	if len(scheme) > 0 && scheme[0] != nil {
		s = scheme[0]
	}
	return &Access{
		drawing: d,
		scheme:  s,
		watch:   watch.WatchHttpHandler[watch.Request, watch.Event](watch.NewSectionWatch(d.Objects)),
	}
}

func (a *Access) RegisterHandlers(srv *server.Server) {
	srv.Handle("/api/objects", http.HandlerFunc(a.serveCollection))
	srv.Handle("/api/objects/", http.HandlerFunc(a.serveObject))
	srv.Handle("/api/query", http.HandlerFunc(a.serveQuery))
	srv.Handle("/watch", a.watch)
}

// Close shuts down all watch connections.
func (a *Access) Close() error {
	return a.watch.Close()
}

func (a *Access) serveCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, a.drawing.Objects.All())
	case http.MethodPost:
		a.addObject(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("method %s not supported", r.Method))
	}
}

func (a *Access) serveObject(w http.ResponseWriter, r *http.Request) {
	h, err := handle.Parse(strings.TrimPrefix(r.URL.Path, "/api/objects/"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	switch r.Method {
	case http.MethodGet:
		o, err := a.drawing.Objects.Get(h)
		if err != nil {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeJSON(w, http.StatusOK, o)
	case http.MethodDelete:
		if err := a.drawing.Objects.Delete(h); err != nil {
			writeError(w, http.StatusNotFound, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("method %s not supported", r.Method))
	}
}

func (a *Access) addObject(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	o, err := a.scheme.Decode(data)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	owner := o.GetOwner()
	if owner.IsNull() {
		owner = a.drawing.RootDict().Handle
	}
	h := a.drawing.Objects.Add(o, owner)
	log.Info("added {{type}} object {{handle}} via http", "type", o.GetType(), "handle", h)
	writeJSON(w, http.StatusCreated, o)
}

func (a *Access) serveQuery(w http.ResponseWriter, r *http.Request) {
	expr := r.URL.Query().Get("q")
	if expr == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("query parameter q required"))
		return
	}
	list, err := query.Execute(a.drawing.Objects, expr)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
