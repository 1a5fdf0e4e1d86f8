package ir

// Version constants for the bridge.
const (
	// BridgeVersion is the bridge release version.
	BridgeVersion = "0.1.0"

	// ReferenceNamespace is the namespace registered by the hello package.
	ReferenceNamespace = "com.example.HelloWorld"
)
