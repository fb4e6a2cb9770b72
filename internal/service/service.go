// Package service contains the business logic.
//
// It sits between the handler and repository layers: it receives
// validated data from handlers, applies business rules, and calls
// repository methods to interact with the data.
package service
