// Package server hosts the Fiber HTTP service and the Host that owns the
// modular store. Host serialises every store operation behind one mutex so the
// single-threaded store contract holds under concurrent requests; the router
// attaches request ids, access logging and panic recovery, and routes in the
// routes subpackage translate HTTP calls into Host operations.
package server
