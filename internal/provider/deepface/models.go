package deepface

// RepresentRequest is the payload for POST /represent
type RepresentRequest struct {
	Img      string `json:"img"`
	Model    string `json:"model_name"`
	Detector string `json:"detector_backend"`
}

// RepresentResponse is the response from POST /represent
type RepresentResponse struct {
	Results []RepresentResult `json:"results"`
}

// RepresentResult is one detected face with its embedding
type RepresentResult struct {
	Embedding      []float64  `json:"embedding"`
	FacialArea     FacialArea `json:"facial_area"`
	FaceConfidence float64    `json:"face_confidence"`
}

// FacialArea is the detected face rectangle in pixels
type FacialArea struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}
