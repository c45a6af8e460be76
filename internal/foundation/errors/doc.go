// Package errors provides the classified errors used across branchlaunch.
//
// A ClassifiedError carries a category (layout, prerequisite, setup, spawn,
// config, ...), a severity and structured context such as the missing tool or
// the failing setup step. The category decides the process exit status; a
// setup failure propagates the failing step's own status.
//
//	err := errors.PrerequisiteError("required tool not found on PATH").
//		WithContext(errors.ContextTool, "npm").
//		Build()
package errors
