// Package ir provides the shared data model of the invocation bridge.
//
// This package contains type definitions only. All other internal packages
// import ir; ir imports nothing internal. This keeps the request, parameter
// and outcome shapes the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - InvocationRequest is immutable once built; Args is copied on construction
//   - ParamType covers exactly String, Int, Long, Double, Float, Boolean
//   - Outcome is a tagged variant: exactly one of Value, Void, Failure
//   - All JSON tags use snake_case
package ir
