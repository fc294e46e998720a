// Package keys defines the persisted key material and signature
// containers: JSON files for interactive use, a sealed binary blob for
// secret keys at rest, and the compact signature wire format.
package keys
