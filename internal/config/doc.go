// Package config provides the configuration for the keychord command.
//
// Configuration is resolved in layers, later layers overriding earlier:
//
//	┌─────────────────────────────┐
//	│  4. Command Line Flags      │  ← Highest priority (applied by cmd)
//	├─────────────────────────────┤
//	│  3. Environment Variables   │  ← KEYCHORD_*
//	├─────────────────────────────┤
//	│  2. .env File               │
//	├─────────────────────────────┤
//	│  1. config.toml             │  ← ~/.config/keychord/config.toml
//	├─────────────────────────────┤
//	│  0. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// A process environment variable always wins over the same name in the
// .env file.
//
// # Example config.toml
//
//	log_level = "debug"
//	log_file = "/tmp/keychord.log"
//	sequence_timeout = "750ms"
//	ui = "tea"
//	keymaps = ["~/.config/keychord/keymaps"]
//	plugins = ["~/.config/keychord/plugins/init.lua"]
//	watch = true
//	analytics_db = "~/.local/state/keychord/usage.db"
//
// # Sub-packages
//
//   - watcher: fsnotify-based live reload of keymap and plugin files
package config
