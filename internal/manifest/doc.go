// Package manifest loads CUE signature manifests and checks a registry
// against them.
//
// A manifest lists the namespaces a host is expected to expose and, for each
// method, its positional parameter types and whether it returns a value:
//
//	namespace: "com.example.HelloWorld": {
//		method: sayHello: params: ["string"]
//		method: getVersion: {}
//		method: sayHelloWithCallback: {
//			params:  ["string"]
//			returns: "void"
//		}
//	}
//
// params defaults to no parameters and returns defaults to "value".
// Unknown method fields are rejected.
package manifest
