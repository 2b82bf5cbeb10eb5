package watch

import (
	"github.com/mandelsoft/logging"
)

var REALM = logging.DefineRealm("dxf/watch", "drawing object watch endpoint")

var log = logging.DefaultContext().Logger(REALM)
