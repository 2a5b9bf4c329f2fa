// Package domain defines the core business entities of the application
// (users and tasks) together with their validation rules. It has no
// dependencies on transport, persistence, or other infrastructure concerns.
package domain
