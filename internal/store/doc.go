// Package store is the minimal single-store state container that the modules
// enhancer decorates. It offers the usual Create/GetState/Dispatch/
// ReplaceReducer/Subscribe surface and an Enhancer hook for wrapping the
// constructor. Internal INIT/REPLACE actions are dispatched straight into the
// reducer and never pass through enhancer-installed middleware.
package store
