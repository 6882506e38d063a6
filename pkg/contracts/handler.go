// Package contracts holds the small interfaces the app bootstrap accepts so
// it never depends on concrete handler packages.
package contracts

import "github.com/julienschmidt/httprouter"

// Handler is anything that can attach its routes to a router. The agent's
// event feed and health endpoints both satisfy it.
type Handler interface {
	RegisterRoutes(*httprouter.Router)
}
