package service

import (
	"github.com/mandelsoft/logging"
)

var REALM = logging.DefineRealm("dxf/service", "drawing object access service")

var log = logging.DynamicLogger(logging.DefaultContext(), REALM)
