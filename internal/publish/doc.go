// Package publish makes rendered subtitle markup reachable over HTTP.
//
// Two strategies implement Target: Local serves the dist directory from an
// in-process chi router on a fixed loopback port, and Remote hands the page
// to an external static-site publish command. The strategy is chosen once
// from deployment.mode when the target is constructed.
package publish
