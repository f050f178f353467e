// Package preflight provides readiness checks for the filesystem paths,
// endpoints, and external binaries a translation run depends on.
//
// The CLI "doctor" command runs every check and prints the results. The
// translate commands run RunOffline once the input has been read and refuse
// to start when a check fails, so a doomed run does not publish anything.
package preflight
