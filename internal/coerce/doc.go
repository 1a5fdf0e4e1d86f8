// Package coerce converts string argument tokens into typed values.
//
// Coercion is pure: no state, no side effects. The rules mirror the lenient
// behavior callers of the bridge already depend on:
//
//   - numeric targets fail with NotANumber on malformed or out-of-range input
//   - boolean targets never fail; only a case-insensitive "true" is true
//   - missing trailing arguments become the zero value of their type
package coerce
