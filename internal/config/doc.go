// Package config loads editor settings.
//
// Settings are layered, later layers overriding earlier ones:
//
//	1. built-in defaults (Default)
//	2. a TOML file, usually blockedit.toml
//	3. environment variables prefixed with BLOCKEDIT_
//
// The file is organized in sections:
//
//	[logging]
//	level = "info"       # debug, info, warn, error
//	format = "console"   # console or json
//
//	[selection]
//	normalize = true     # store backward selections start-first
//
//	[render]
//	escape_spaces = true # protect runs of spaces from HTML collapsing
//
// Environment variables follow SECTION_SETTING, e.g.
// BLOCKEDIT_RENDER_ESCAPE_SPACES=false. BLOCKEDIT_LOG_LEVEL and
// BLOCKEDIT_LOG_FORMAT address the logging section.
//
// Watch reloads the file whenever it changes.
package config
