// Package provider turns an ability plus caller input into the payload a
// provider family expects, and maps the family's responses back into
// api.InvocationResult.
//
// Each family implements Adapter. The Registry picks the adapter from the
// ability's provider name, so adding a provider means adding an entry to the
// family table or registering a new Adapter.
//
// Every builder starts from the ability's stored defaults, overlays the
// ad-hoc JSON override and then the schema values. Missing required fields
// are reported as api.ValidationError before any call is made.
package provider
