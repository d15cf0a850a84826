// Package middleware provides DocumentStore decorators, such as AES-GCM
// encryption of stored documents with key rotation.
package middleware
