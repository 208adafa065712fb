// Package services implements the business logic layer of EstatePulse.
// It provides a clean separation between HTTP handlers and the dataset
// and analysis packages, ensuring that business rules are centralized
// and testable.
//
// # Architecture
//
// Services follow these architectural principles:
//
//	1. Interface-driven design for testability
//	2. Context propagation for cancellation and tracing
//	3. Dependency injection for loose coupling
//	4. Domain-focused methods that encapsulate business rules
//
// # Available Services
//
// The package provides these core services:
//
//	- MarketService: resolves market queries and dataset uploads
//	- HealthService: provides system health checks
//
// # Error Handling
//
// Services return domain-specific sentinel errors that handlers transform
// into API errors:
//
//	- ErrEmptyQuery for a missing or blank analysis query
//	- ErrNoDataset when no dataset is cached or loadable
//	- ErrNoLocationMatch when the query names no known location
//	- ErrInvalidFileType / ErrMissingFile for bad uploads
package services
