// Package catalog reads abilities and executors. The engine only reads the
// catalog; a FileStore or a ConfigMapStore is the stand-in for the CRUD
// backend that owns the records.
package catalog
