// Package harness runs invocation scenarios against a fresh bridge host and
// checks their outcomes, callbacks and traces.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	listener:
//	  delay: 3s
//	  payload: "System event triggered!"
//	steps:
//	  - invoke: com.example.HelloWorld.sayHello
//	    args: ["Alice"]
//	    expect:
//	      outcome: value
//	      text: "Hello from Go: Alice [v1.0.0]"
//	  - invoke: com.example.HelloWorld.registerSystemListener
//	    callback: true
//	  - advance: 3s
//	assertions:
//	  - type: callbacks
//	    messages: ["System event triggered!"]
//
// A step either invokes a target ("namespace.method") or advances the
// scenario clock. With callback: true the invocation carries a callback that
// records every message it receives. Timers run on a manual clock, so an
// asynchronous notification only fires during an advance step.
//
// # Assertion Types
//
//   - trace_contains: an invocation of target appears, optionally with args
//   - trace_order: targets are first invoked in the given order
//   - trace_count: target is invoked exactly count times
//   - callbacks: the recorded callback messages equal messages, in order
//
// # Determinism
//
// Invocation IDs come from testutil.SequentialIDs and timers from
// testutil.ManualClock, so a scenario always produces the same trace. Use
// RunWithGolden to compare that trace against testdata/golden.
package harness
