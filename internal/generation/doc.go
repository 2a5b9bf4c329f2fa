// Package generation defines the boundary between the application core and
// the external AI advisory service. It abstracts priority prediction and
// task generation behind interfaces, allowing the application to consume
// AI suggestions without coupling to a specific external service.
package generation
