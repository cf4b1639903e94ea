package application

import "expvar"

// userOps counts successful operations, exposed on /api/debug/vars.
var userOps = expvar.NewMap("user_ops")
