// SPDX-License-Identifier: MPL-2.0

// Package terminal hosts the named shell sessions scripts are sent to.
//
// A Registry is the host-owned list of live sessions. Native sessions run the
// user's shell behind a pseudo-terminal (a plain pipe on Windows) and stream
// its output to the console; virtual sessions interpret each line with the
// embedded mvdan/sh interpreter, keeping shell state between lines.
package terminal
