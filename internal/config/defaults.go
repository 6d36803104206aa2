package config

const (
	defaultStateDir             = "~/.local/share/vidseg"
	defaultLogDir               = "~/.local/share/vidseg/logs"
	defaultFFmpegBinary         = "ffmpeg"
	defaultFFprobeBinary        = "ffprobe"
	defaultTesseractBinary      = "tesseract"
	defaultClassifierURL        = "http://127.0.0.1:8600"
	defaultModelVersion         = "1.0"
	defaultSampleEvery          = 30
	defaultSmoothingWindow      = 15
	defaultMinDurationSec       = 5.0
	defaultClassifierTimeout    = 60
	defaultOCRBackend           = "tesseract"
	defaultFrameSkip            = 10
	defaultCardTimeoutFrames    = 10
	defaultSceneChangeThreshold = 5.0
	defaultMaxFrameHeight       = 480
	defaultPrefetchBuffer       = 8
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

// DefaultTaskLabels is the task vocabulary the bundled classifier was trained on.
var DefaultTaskLabels = []string{
	"CameraTarget",
	"ChickenThigh",
	"CystModel",
	"GloveCut",
	"Idle",
	"MovingIndividualAxes",
	"RingRollercoaster",
	"SeaSpikes",
	"Suture",
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	labels := make([]string, len(DefaultTaskLabels))
	copy(labels, DefaultTaskLabels)
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Tools: Tools{
			FFmpeg:    defaultFFmpegBinary,
			FFprobe:   defaultFFprobeBinary,
			Tesseract: defaultTesseractBinary,
		},
		Classifier: Classifier{
			URL:             defaultClassifierURL,
			ModelVersion:    defaultModelVersion,
			Labels:          labels,
			SampleEvery:     defaultSampleEvery,
			SmoothingWindow: defaultSmoothingWindow,
			MinDurationSec:  defaultMinDurationSec,
			TimeoutSeconds:  defaultClassifierTimeout,
		},
		Participants: Participants{
			Enabled:              true,
			OCRBackend:           defaultOCRBackend,
			FrameSkip:            defaultFrameSkip,
			CardTimeoutFrames:    defaultCardTimeoutFrames,
			SceneChangeThreshold: defaultSceneChangeThreshold,
			MaxFrameHeight:       defaultMaxFrameHeight,
			PrefetchBuffer:       defaultPrefetchBuffer,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
