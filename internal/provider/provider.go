package provider

import "context"

// FaceDetector define a interface para provedores de detecção facial
type FaceDetector interface {
	// DetectFaces detecta faces na imagem e retorna, para cada uma,
	// a área facial e o embedding extraído
	DetectFaces(ctx context.Context, image []byte) ([]DetectedFace, error)
}

// DetectedFace represents a detected face in the image
type DetectedFace struct {
	BoundingBox BoundingBox `json:"bounding_box"`
	Confidence  float64     `json:"confidence"`
	Embedding   []float64   `json:"-"`
}

// BoundingBox represents the face area in the image, in pixels
type BoundingBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}
