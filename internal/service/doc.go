// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects and repositories
// (defined in internal/store) to fulfill application features: ownership-scoped
// task management, the AI advisory side effects, and suggestion generation.
//
// Services receive dependencies through constructor injection and depend on
// domain entities and repository interfaces (from store), never on specific
// infrastructure implementations.
package service
