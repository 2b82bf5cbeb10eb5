package document

import (
	"github.com/mandelsoft/logging"
)

var REALM = logging.DefineRealm("dxf/document", "DXF drawing files")

var log = logging.DynamicLogger(logging.DefaultContext(), REALM)
