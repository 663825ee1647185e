// Package config loads kmcluster CLI settings from layered sources:
// built-in defaults, an optional YAML file, then KMCLUSTER_* environment
// variables. The merged result is validated before use.
//
// Environment variables map onto keys by lower-casing the name, dropping
// the prefix and turning the first underscore into a section separator:
//
//	KMCLUSTER_CLUSTER_K=8          -> cluster.k
//	KMCLUSTER_DATA_PUT_RATE=2.5    -> data.put_rate
package config
