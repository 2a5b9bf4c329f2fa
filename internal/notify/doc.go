// Package notify implements the real-time notification channel: a per-user
// broadcast hub over websockets. Delivery is at-most-once and fire-and-forget;
// publishing to a user with no live connections is a silent no-op, and a slow
// client's backlog is dropped rather than blocking the publisher.
package notify
