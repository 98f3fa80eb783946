package whisperx

// Config selects the WhisperX model and device used to caption a short.
// It is built from the [captions] config section.
type Config struct {
	Model       string // "base", "small", "large-v3", ...
	CUDAEnabled bool
	VADMethod   string // VADMethodSilero or VADMethodPyannote
	HFToken     string // required by pyannote
	Language    string // empty lets WhisperX detect it
}

// Fixed invocation settings.
const (
	DefaultModel      = "base"
	CUDAIndexURL      = "https://download.pytorch.org/whl/cu128"
	PypiIndexURL      = "https://pypi.org/simple"
	BatchSize         = "4"
	ChunkSize         = "15"
	SegmentResolution = "sentence"
	OutputFormat      = "json"
	CPUDevice         = "cpu"
	CUDADevice        = "cuda"
	CPUComputeType    = "float32"
	VADMethodPyannote = "pyannote"
	VADMethodSilero   = "silero"
)

// UVXCommand launches WhisperX without a global install.
const UVXCommand = "uvx"
