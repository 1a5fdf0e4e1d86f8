// Package hello provides the reference namespaces exposed through the bridge.
//
// com.example.HelloWorld demonstrates plain calls, the synchronous callback
// path, the asynchronous listener path and a small classifier.
// com.example.Calculator covers every parameter type and the execution
// error path.
//
// Register wires both into a registry.
package hello
