// Package registry provides a generic, type-safe registry system
// for resolving pluggable capabilities (generators, mount point
// factories) by their stable identifier.
package registry
