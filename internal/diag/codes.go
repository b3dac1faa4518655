package diag

// Error code constants, organized by phase (spec.md §7). Each is a stable
// identifier consumers (and --json output) can match on without parsing
// the human-readable title.
const (
	// Syntax errors (parser).
	CodeMissingSemicolon         = "PAR001"
	CodeUnexpectedToken          = "PAR002"
	CodeUnexpectedEOF            = "PAR003"
	CodeReservedKeywordAsIdent   = "PAR004"

	// Name resolution errors (canonicalizer).
	CodeUnresolvedIdentifier  = "CAN001"
	CodeUnresolvedType        = "CAN002"
	CodeUnresolvedConstructor = "CAN003"
	CodeUnresolvedModule      = "CAN004"
	CodeCyclicModuleImports   = "CAN005"

	// Structural errors (canonicalizer).
	CodeEmptyWhen              = "CAN010"
	CodeUnsupportedLetPattern  = "CAN011"
	CodeDuplicateDefinition    = "CAN012"
	CodeDuplicateConstructor   = "CAN013"
	CodeDuplicateTypeDefinition = "CAN014"
	CodeBindNotSupported       = "CAN015"

	// Warnings.
	CodeNonExhaustiveMatch = "OPT001"
	CodeUnusedBinding      = "CAN020"
	CodeUnusedImport       = "CAN021"

	// Emission.
	CodeEmitFailed = "EMT001"

	// CLI / driver.
	CodeDependencyFailed = "CLI001"
	CodeInvalidConfig    = "CLI002"
)

const (
	PhaseParser      = "parser"
	PhaseCanonicalize = "canonicalize"
	PhaseTypeCheck   = "typecheck"
	PhaseOptimize    = "optimize"
	PhaseEmit        = "emit"
	PhaseDriver      = "driver"
)
