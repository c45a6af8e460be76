// Package statedir manages the launcher's persistent state directory
// (".branchlaunch" by default) holding the run journal and other files that
// must survive between runs but never belong in version control.
package statedir
