// Package domain holds the shared types, error sentinels, and
// service/store interfaces used across pastaa. It has no dependencies on
// other pastaa packages.
package domain
