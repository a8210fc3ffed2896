package deepface

import "errors"

var (
	// ErrDeepFaceUnavailable indicates the DeepFace service could not be
	// reached after all retries
	ErrDeepFaceUnavailable = errors.New("deepface service unavailable")

	// ErrInvalidResponse indicates the DeepFace service returned a payload
	// that could not be decoded
	ErrInvalidResponse = errors.New("invalid deepface response")
)
