// Package fulfillreservation implements the command to fulfill a pending
// reservation by allocating available copies across branch locations.
package fulfillreservation
