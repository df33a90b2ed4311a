// Package mounts implements the mount point virtualization layer: live
// mount points wrap a physical content source (directory, archive) behind
// a uniform billy.Filesystem surface, are created by factories resolved
// through the capability registry, and are cached by id for the life of
// the manager.
package mounts
