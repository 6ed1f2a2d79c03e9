// Package mocks provides mock implementations of interfaces used in tests.
package mocks
