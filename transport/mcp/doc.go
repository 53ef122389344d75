// Package mcp exposes the dog walk server to MCP-speaking agents.
//
// The Client here is a thin proxy: every tool call turns into a REST
// request against the running HTTP API, so agents and browsers share
// one code path and one auth model (the bearer token from join_game).
// The server mounts it at POST /mcp via GetMCPServer().HandleMessage.
package mcp
