// Package types defines the record model, the store and manager configuration,
// and the standard errors shared by every csvmgr component.
package types
