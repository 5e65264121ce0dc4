/*
Package builder turns an expanded input document into configured actions.

A build runs in three phases:

 1. Structural check: every active and inactive list is validated before any
    parameter is read, since extraction would otherwise run on blocks the
    user meant to switch off.

 2. Priority blocks: blocks handled by the priority handlers (by default
    SetupDebugAction, GlobalParamsAction and DynamicObjectRegistrationAction,
    in that order) are built first, wherever they appear in the input. Building
    the GlobalParams block makes its fields the fallback for every later block.

 3. Traversal: every remaining section is visited depth first in document
    order. Inactive sections are skipped along with their sub-blocks. A section
    whose path only matches as the parent of a registered wildcard is left to
    its children. For every other section each registered handler is
    extracted, given its bookkeeping parameters, constructed and handed to the
    warehouse. Handlers registered for the path while it is being built (by
    dynamic registration) are picked up before moving on.

Errors do not stop the traversal. Everything found is returned together once
the whole document has been visited, next to the set of fields that were
consumed for the usage audit.
*/
package builder
