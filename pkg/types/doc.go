// Package types contains the core types shared across skel packages:
// mount point records and contracts, template metadata, the generator
// capability contract, and the parameter model consumed by generation.
//
// Keeping these in one leaf package avoids import cycles between the
// settings, mounts and resolver packages that all operate on them.
package types
