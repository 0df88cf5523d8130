// SPDX-License-Identifier: MPL-2.0

// Package host adapts the command line to the services an editor host would
// provide: user notices, the active document and the open workspace.
package host
