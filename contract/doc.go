// Package contract defines the declarative mapping model: descriptors for
// every supported JSON shape, the member and class contract types, and
// the registry associating target types with their contracts.
//
// A [Mapping] is one node in a contract tree, tagged by [Kind] and
// carrying kind-specific parameters. Named members of an object contract
// are built with the member constructors ([Int], [String], [Array], ...);
// unnamed element positions use the *Elem constructors.
//
// Contracts are immutable program-wide data. Register them once per type
// during program initialization:
//
//	func init() {
//		contract.MustRegister[Point](&contract.Contract{...})
//	}
package contract
