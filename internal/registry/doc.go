// Package registry provides the central "glue" for the module system.
//
// The Registry stores the mappings between the names used in an input file
// and the compiled Go code behind them: handler types (the factories that
// turn a block into an Action), object types (named parameter schemas that
// object-producing handlers configure), syntax registrations (which handlers
// apply to which block paths, and under which task) and the dependencies
// between tasks.
//
// Registration is a startup phase. Modules register into a fresh Registry,
// the application validates and seals it, and from then on it is read-only
// except through an explicit Reopen handle, which is how handlers that load
// further registrations while the input is being built are supported.
package registry
