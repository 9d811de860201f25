// Package preflight provides readiness checks for the external services and
// filesystem paths that steameagle depends on.
//
// The CLI "steameagle status" command runs RunAll to display whether the
// image and state directories are usable, whether the Steam API key works
// for the configured account, and whether Eagle is running with the expected
// library open.
package preflight
