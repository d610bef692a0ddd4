// Package pose holds the per-entity pose model.
//
// A pose model (Info) maps bone addresses to override entries and keeps
// separate transform maps for weapon bones and the actor's model-level
// transforms. Entries are addressed by name rather than by live bone object,
// so a model stays valid when the engine recreates the skeleton.
//
// # Invariants
//
//   - Every stored BoneEntry has a non-empty Applied mask.
//   - Clone returns a deep copy; snapshots never alias live state.
package pose
