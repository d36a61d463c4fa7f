package consts

const (
	ProgramName = "netdeck"
	Version     = "0.1.0"

	// Leading bytes trial-decoded when guessing a file's encoding.
	EncodingProbeSize = 512
)
