package healthz

import (
	"io"
	"net/http"

	"github.com/kkkkkom/ezdxf/pkg/server"
)

func init() {
	server.Register("/healthz", http.HandlerFunc(Healthz))
}

// Healthz is the HTTP handler for the /healthz endpoint. It
// responds with 200 OK if all registered health checks are up to
// date and with 500 Internal Server Error otherwise.
func Healthz(w http.ResponseWriter, r *http.Request) {
	ok, info := HealthInfo()
	if ok {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusInternalServerError)
	}
	io.WriteString(w, info)
}
