// Package document reads and writes pose documents.
//
// A decoded document is one of three shapes, modelled as a closed variant
// (the Document interface):
//
//   - *Pose: the native format, importable as is.
//   - *LegacyPose: a third-party format keyed by Euler angles; call
//     Upgrade to obtain a *Pose.
//   - *ScenePose: a multi-actor scene. Not supported yet; callers reject it
//     at the boundary with ErrUnsupportedScene.
//
// Vectors are stored as comma-separated strings ("x, y, z" and
// "x, y, z, w"), the convention shared by the common pose tools. The field
// schema is owned by this package; the pose core only sees Transforms.
package document
