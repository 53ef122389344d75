// Package config loads the world-description JSON file the server
// starts from: a default dog speed and a list of maps with their
// roads, buildings and offices.
//
// The same schema types render map details back out through the API,
// so a map loaded from disk serializes structurally identical to its
// source. BuildMap turns one parsed map into an immutable engine.Map.
package config
