package objects

import (
	"github.com/mandelsoft/logging"
)

var REALM = logging.DefineRealm("dxf/objects", "DXF OBJECTS section")

var log = logging.DynamicLogger(logging.DefaultContext(), REALM)
