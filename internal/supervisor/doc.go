// Package supervisor spawns subsystem processes and tracks them for a joint shutdown.
//
// Each spawned process is wrapped in a ManagedProcess handle and registered with
// a Supervisor. Shutdown is an explicit routine over the registered handles: it
// issues exactly one termination request per process, tolerates processes that
// already exited, and never waits for exit. Signal reception lives elsewhere,
// so the routine can be exercised directly in tests.
package supervisor
