// Package domain defines the core data models and contracts shared across the
// messenger: connection roles and states, the notification payloads raised
// towards the UI, and the Observer and Peer interfaces.
//
// It contains plain types and interfaces only; the concrete types live in the
// types and interfaces subpackages and are re-exported here as aliases.
package domain
