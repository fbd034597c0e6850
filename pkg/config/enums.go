package config

// MemoryMode selects how long-term test memory is provided to agents.
type MemoryMode string

const (
	// MemoryModeStatic preloads test data into system prompts at construction.
	MemoryModeStatic MemoryMode = "static"
	// MemoryModeDynamic backs memory with a vector store queried on demand.
	MemoryModeDynamic MemoryMode = "dynamic"
)

// IsValid checks if the memory mode is valid.
func (m MemoryMode) IsValid() bool {
	return m == MemoryModeStatic || m == MemoryModeDynamic
}

// SQLDriver identifies a supported database/sql driver.
type SQLDriver string

const (
	SQLDriverMySQL    SQLDriver = "mysql"
	SQLDriverPostgres SQLDriver = "postgres"
	SQLDriverSQLite   SQLDriver = "sqlite3"
)

// IsValid checks if the SQL driver is one we link.
func (d SQLDriver) IsValid() bool {
	switch d {
	case SQLDriverMySQL, SQLDriverPostgres, SQLDriverSQLite:
		return true
	default:
		return false
	}
}

// MCPTransportType identifies how an MCP server is reached.
type MCPTransportType string

const (
	MCPTransportStdio MCPTransportType = "stdio"
	MCPTransportHTTP  MCPTransportType = "http"
)

// IsValid checks if the transport type is supported.
func (t MCPTransportType) IsValid() bool {
	return t == MCPTransportStdio || t == MCPTransportHTTP
}
