// Package lock provides an advisory lock file guarding a local dataset
// against concurrent writers in other processes.
package lock
