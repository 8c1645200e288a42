// Package store keeps completed pipeline runs in memory or in Redis.
package store
