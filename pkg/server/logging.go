package server

import (
	"github.com/mandelsoft/logging"
)

var REALM = logging.DefineRealm("dxf/server", "http server")

var log logging.Logger = logging.DefaultContext().Logger(REALM)
