// Package invoke runs one ability invocation end to end: catalog lookup,
// executor resolution, schema conversion, request building, the provider
// call, result normalization and the invocation log write.
//
// Each step runs strictly in sequence. Only the provider call and the log
// write block, and the provider call runs under a per-family timeout that
// surfaces as a timeout ProviderError.
package invoke
