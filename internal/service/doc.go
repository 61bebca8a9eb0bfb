// Package service contains the application use cases. Services coordinate
// domain objects and the store interfaces defined in internal/store, apply
// transactional boundaries when an operation spans several statements, and
// return sentinel errors the API layer translates into responses.
//
// Services receive their dependencies through constructors and never depend
// on a concrete storage implementation.
package service
