// Package testutil provides shared fixtures for tests: canonical circuits
// and a silent logger.
package testutil
