// Package catalog coordinates named access to stored pipeline documents.
package catalog
