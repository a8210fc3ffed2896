package mock

import (
	"context"
	"crypto/sha256"
	"math"

	"github.com/rodrigozago/sietch-faces/internal/domain"
	"github.com/rodrigozago/sietch-faces/internal/provider"
)

// Provider implementa provider.FaceDetector para testes e desenvolvimento
type Provider struct {
	dim int
}

// New cria uma nova instância do MockProvider
func New(dim int) *Provider {
	return &Provider{dim: dim}
}

// DetectFaces simula detecção: uma face por imagem, com embedding
// determinístico derivado do hash do conteúdo
func (p *Provider) DetectFaces(ctx context.Context, image []byte) ([]provider.DetectedFace, error) {
	if len(image) < 1000 {
		return nil, domain.ErrInvalidImage
	}

	return []provider.DetectedFace{
		{
			BoundingBox: provider.BoundingBox{
				X:      40,
				Y:      40,
				Width:  320,
				Height: 320,
			},
			Confidence: 0.99,
			Embedding:  generateEmbedding(image, p.dim),
		},
	}, nil
}

// generateEmbedding gera embedding determinístico baseado no hash da imagem
func generateEmbedding(image []byte, dim int) []float64 {
	hash := sha256.Sum256(image)
	embedding := make([]float64, dim)
	hashLen := len(hash)

	for i := 0; i < dim; i++ {
		idx := i % hashLen
		embedding[i] = (float64(hash[idx])/255.0)*2 - 1
	}

	norm := 0.0
	for _, v := range embedding {
		norm += v * v
	}
	norm = math.Sqrt(norm)

	for i := range embedding {
		embedding[i] /= norm
	}

	return embedding
}

var _ provider.FaceDetector = (*Provider)(nil)
