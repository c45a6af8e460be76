// Package launcher sequences a local run of the Branch Messaging App.
//
// A run verifies the working directory, checks prerequisites, prepares and
// starts the backend, waits a fixed startup delay, prepares and starts the
// frontend, then blocks until its context is canceled. Cancellation triggers
// one termination request per started process; the launcher does not wait
// for the processes to exit.
//
// A frontend failure after the backend started leaves the backend running.
package launcher
