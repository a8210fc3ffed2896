package face

import (
	"fmt"

	"github.com/rodrigozago/sietch-faces/internal/config"
	"github.com/rodrigozago/sietch-faces/internal/provider"
	"github.com/rodrigozago/sietch-faces/internal/provider/deepface"
	"github.com/rodrigozago/sietch-faces/internal/provider/mock"
)

// DetectorType defines supported face detector types
type DetectorType string

const (
	// DetectorTypeMock is the deterministic in-process detector (dev/test)
	DetectorTypeMock DetectorType = "mock"
	// DetectorTypeDeepFace is the DeepFace HTTP detector
	DetectorTypeDeepFace DetectorType = "deepface"
)

// NewFaceDetector creates a FaceDetector instance based on configuration
//
// Environment variables:
//   - DETECTOR_TYPE: "mock" or "deepface" (default: "mock")
//   - DEEPFACE_URL: DeepFace API URL (default: "http://localhost:5005")
func NewFaceDetector(cfg *config.Config) (provider.FaceDetector, error) {
	detectorType := DetectorType(cfg.DetectorType)

	switch detectorType {
	case DetectorTypeDeepFace:
		return createDeepFaceDetector(cfg), nil

	case DetectorTypeMock, "":
		return mock.New(cfg.EmbeddingDim), nil

	default:
		return nil, fmt.Errorf("unknown detector type: %s (supported: %s, %s)",
			cfg.DetectorType, DetectorTypeMock, DetectorTypeDeepFace)
	}
}

// createDeepFaceDetector creates a DeepFace detector instance
func createDeepFaceDetector(cfg *config.Config) provider.FaceDetector {
	deepfaceConfig := deepface.DefaultConfig()
	if cfg.DeepFaceURL != "" {
		deepfaceConfig.BaseURL = cfg.DeepFaceURL
	}

	return deepface.NewProvider(deepfaceConfig)
}
