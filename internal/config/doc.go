// Package config loads, normalizes, and validates mvc configuration.
//
// Configuration is read from TOML (default ~/.config/mvc/config.toml, falling
// back to ./mvc.toml), merged over repository defaults, and expanded so every
// path is absolute. Custom compression presets live here as raw tables and are
// turned into runnable presets by the preset package.
//
// Callers should go through Load so that normalization and validation always
// run in the same order.
package config
