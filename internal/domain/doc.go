// Package domain contains the core domain entities and business rules
// for the application, independent of any storage or transport concerns.
package domain
