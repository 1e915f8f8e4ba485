// Error code constants, organized by phase, following a PHASE### naming
// convention so tooling can group/filter diagnostics by origin without
// parsing the message text.
package errors

const (
	// Parser (PAR###)
	ParserUnexpectedToken = "PAR001"
	ParserUnterminated    = "PAR002"
	ParserExpectedType    = "PAR003"

	// AST construction / name resolution (AST###)
	ReservedIdentifier = "AST001"
	DuplicateBinding   = "AST002"
	DuplicateParameter = "AST003"

	// Semantic (SEM###)
	UndefinedName     = "SEM001"
	NotIterable       = "SEM002"
	NoSuchField       = "SEM003"
	NotCallable       = "SEM004"
	ArgumentMismatch  = "SEM005"
	MissingArgument   = "SEM006"
	UnexpectedKeyword = "SEM007"
	ActionNoArgs      = "SEM008"
	UnsupportedOp     = "SEM009"

	// Type (TYP###)
	TypeMismatch = "TYP001"

	// OS / plugin loading (OS###)
	OSFailure = "OS001"

	// Internal invariants (INT###)
	InternalInvariant = "INT001"
)
