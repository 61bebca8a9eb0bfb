// Package domain contains the core business entities, value objects, and
// domain logic of the application: users, the theme hierarchy, practice
// sentences with their word options, and per-user progress through a theme.
// It is independent of any specific infrastructure or delivery mechanism.
package domain
