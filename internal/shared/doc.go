// Package shared provides common utilities and test helpers used across the
// codebase. It serves as a central location for functionality that doesn't
// belong to any specific domain or architectural layer.
//
// The testutil subpackage provides slog capture helpers and canonical
// dataset fixtures shared by package tests. Nothing in here may import
// domain packages other than pkg/contracts.
package shared
