// Package config loads, validates, and defaults the vodarc configuration.
//
// Configuration lives in a TOML file (default ~/.config/vodarc/config.toml,
// with a project-local vodarc.toml fallback). All path fields are expanded
// and absolute after Load. The archive layout and external tool invocation
// are driven entirely from the resulting Config value; nothing mutates
// process-wide state.
package config
