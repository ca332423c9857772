// Package comfyui understands ComfyUI prompt graphs: it indexes the nodes of
// a graph document, validates the curated mapping from ability parameters
// to node inputs, and stores that mapping in ability metadata.
//
// Validation is pure. Editors re-run ValidateMapping on every change to the
// graph or the mapping and show the returned messages as they are.
package comfyui
