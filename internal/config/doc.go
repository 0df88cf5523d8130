// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// User configuration is loaded from ~/.config/lunescripts/config.cue (or the XDG
// equivalent on Linux, ~/Library/Application Support/lunescripts/config.cue on macOS,
// %APPDATA%\lunescripts\config.cue on Windows) and validated against an embedded CUE
// schema. A workspace may carry a .lunescripts.toml overlay whose values take
// precedence over the user file, and LUNESCRIPTS_* environment variables take
// precedence over both.
package config
