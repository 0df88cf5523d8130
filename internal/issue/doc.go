// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the resource involved and
// remediation hints. The Issue catalog holds longer Markdown help cards for the
// failures a user is expected to fix themselves (missing interpreter, no
// workspace, unresolvable script), rendered with glamour.
package issue
