package version

// Version is the toolkit release version. Manifests recorded by
// version_migrate are stamped with this value.
const Version = "0.4.0"

// ProtocolVersion is the MCP protocol revision the server speaks by default.
const ProtocolVersion = "2024-11-05"

var SupportedProtocolVersions = []string{
	"2024-11-05",
	"2025-03-26",
}
