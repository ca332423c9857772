// Package api holds the record shapes shared by every part of abilityctl.
//
// Abilities and executors arrive from the catalog as loosely-typed records.
// The types here give them one Go shape and provide typed views over the
// free-form documents they carry:
//
//   - Ability / AbilityMetadata: the catalog capability and its parsed
//     metadata (routing policy, executor hints, provider extras).
//   - Executor / ExecutorConfig: a backend node and its parsed config tags.
//   - InvocationResult: the normalized outcome of one provider call.
//   - AbilityContext: attribution attached to every built request.
//
// The package also defines the error taxonomy:
//
//   - ValidationError / ValidationErrors: raised before any network call.
//   - ErrNoEligibleExecutor: resolution produced no candidate.
//   - ProviderError: the provider call failed or timed out.
//
// Results with nothing to display are not errors; InvocationResult.Summary
// reports them as NoPreviewMessage so the raw payload stays inspectable.
package api
