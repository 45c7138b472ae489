// Package ir defines the expression intermediate representation shared by
// every compiler pass in this repository.
//
// Expressions form a closed variant set sealed by an unexported marker
// method. All other internal packages import ir; ir imports nothing
// internal. This keeps the IR the foundational layer with no circular
// dependencies.
//
// Key design constraints:
//   - Nodes are immutable after construction; construction is the only write.
//   - NO float values anywhere - use int64 for numbers, which keeps
//     canonical encoding and content hashing deterministic.
//   - Trees are acyclic by construction; producing passes must not alias a
//     node into its own subtree.
//   - Equality is structural (Equal), never identity. Fingerprint and Hash
//     are derived from the canonical encoding, so equal trees always hash
//     equal.
package ir
