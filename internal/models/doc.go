// Package models defines the records exchanged with the gateway: the
// signed-in user's profile, contacts, and the communication style enum.
// JSON tags follow the remote table columns.
package models
