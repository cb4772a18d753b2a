package ir

// Version constants for the circuit encoding and engine.
const (
	// EncodingVersion is the canonical circuit encoding version.
	EncodingVersion = "1"

	// EngineVersion is the qsim engine version.
	EngineVersion = "0.1.0"
)
