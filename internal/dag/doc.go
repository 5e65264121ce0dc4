// Package dag holds the dependency graph between build tasks. Actions are
// grouped by task, and tasks run in an order where every task comes after
// the tasks it depends on.
package dag
