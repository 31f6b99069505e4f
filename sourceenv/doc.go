// Package sourceenv imports variables from the process environment.
//
// Names are kept as-is; a configured prefix is stripped unless KeepPrefix is set.
//
// Example:
//
//	source := sourceenv.New(sourceenv.Options{Prefix: "DEPLOY_"})
//	err := manager.Import(ctx, source)
package sourceenv
