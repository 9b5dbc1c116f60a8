// Package config loads stache settings.
//
// Settings are resolved in three steps: built-in defaults, then a TOML or
// YAML file chosen by extension, then STACHE_* environment variables. The
// result is an immutable Settings value; a Watcher reloads the file when it
// changes and publishes each new value to a callback.
//
//	[typing]
//	autoInsertCloseTag = true
//	formattingEnabled  = true
//
//	[editor]
//	autoPairs  = true
//	indentSize = 2
//	useTabs    = false
//
//	[logging]
//	level = "info"
package config
