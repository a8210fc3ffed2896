package docs

import (
	"github.com/go-swagno/swagno"
	"github.com/go-swagno/swagno/components/endpoint"
	"github.com/go-swagno/swagno/components/http/response"
	"github.com/go-swagno/swagno/components/mime"
	"github.com/go-swagno/swagno/components/parameter"
)

// FaceData represents a detected face in responses
type FaceData struct {
	ID         string  `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	PersonID   string  `json:"person_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440001"`
	Confidence float64 `json:"confidence" example:"0.98"`
	PhotoRef   string  `json:"photo_ref" example:"550e8400-e29b-41d4-a716-446655440002"`
	DetectedAt string  `json:"detected_at" example:"2024-01-01T00:00:00Z"`
}

// UploadResponse represents the response for a processed photo upload
type UploadResponse struct {
	PhotoRef         string     `json:"photo_ref" example:"550e8400-e29b-41d4-a716-446655440002"`
	Faces            []FaceData `json:"faces"`
	MatchedPersonIDs []string   `json:"matched_person_ids"`
	AddedCollections []string   `json:"added_collections"`
}

// PropagateResponse represents the response for retroactive propagation
type PropagateResponse struct {
	PersonID     string `json:"person_id" example:"550e8400-e29b-41d4-a716-446655440001"`
	PhotosLinked int    `json:"photos_linked" example:"3"`
}

// SearchMatchData represents a single similarity match
type SearchMatchData struct {
	FaceID     string  `json:"face_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	PersonID   string  `json:"person_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440001"`
	Similarity float64 `json:"similarity" example:"0.92"`
}

// SearchResponse represents the response for similarity search
type SearchResponse struct {
	Matches    []SearchMatchData `json:"matches"`
	TotalFaces int               `json:"total_faces" example:"1500"`
	LatencyMs  int64             `json:"latency_ms" example:"12"`
}

// ClusterData represents one identity cluster
type ClusterData struct {
	ID            int      `json:"id" example:"0"`
	FaceIDs       []string `json:"face_ids"`
	Size          int      `json:"size" example:"4"`
	Medoid        string   `json:"medoid" example:"550e8400-e29b-41d4-a716-446655440000"`
	AvgSimilarity float64  `json:"avg_similarity" example:"0.87"`
	PersonID      string   `json:"person_id,omitempty"`
}

// ClusterStatsData summarizes a clustering partition
type ClusterStatsData struct {
	TotalClusters  int     `json:"total_clusters" example:"5"`
	FacesClustered int     `json:"faces_clustered" example:"22"`
	MinClusterSize int     `json:"min_cluster_size" example:"2"`
	MaxClusterSize int     `json:"max_cluster_size" example:"8"`
	AvgClusterSize float64 `json:"avg_cluster_size" example:"4.4"`
}

// ClusterResponse represents the response for the cluster endpoint
type ClusterResponse struct {
	Clusters []ClusterData    `json:"clusters"`
	Noise    []string         `json:"noise"`
	Stats    ClusterStatsData `json:"stats"`
}

// PersonData represents a person in responses
type PersonData struct {
	ID         string `json:"id" example:"550e8400-e29b-41d4-a716-446655440001"`
	Name       string `json:"name,omitempty" example:"Chani"`
	AccountRef string `json:"account_ref,omitempty" example:"550e8400-e29b-41d4-a716-446655440003"`
	FaceCount  int    `json:"face_count" example:"4"`
	CreatedAt  string `json:"created_at" example:"2024-01-01T00:00:00Z"`
	UpdatedAt  string `json:"updated_at" example:"2024-01-01T00:00:00Z"`
}

// PersonWithFacesData bundles a person with their faces
type PersonWithFacesData struct {
	Person PersonData `json:"person"`
	Faces  []FaceData `json:"faces"`
}

// MergeResultData summarizes a completed merge
type MergeResultData struct {
	TargetPersonID   string   `json:"target_person_id" example:"550e8400-e29b-41d4-a716-446655440001"`
	FacesTransferred int      `json:"faces_transferred" example:"7"`
	DeletedPersonIDs []string `json:"deleted_person_ids"`
}

// MergeSuggestionData ranks a likely duplicate person
type MergeSuggestionData struct {
	PersonID   string  `json:"person_id" example:"550e8400-e29b-41d4-a716-446655440004"`
	Name       string  `json:"name,omitempty" example:"Chani?"`
	Similarity float64 `json:"similarity" example:"0.93"`
	FaceCount  int     `json:"face_count" example:"2"`
}

// ClaimResponse represents the response for claiming a person
type ClaimResponse struct {
	PersonID     string `json:"person_id" example:"550e8400-e29b-41d4-a716-446655440001"`
	PhotosLinked int    `json:"photos_linked" example:"3"`
}

// StatsResponse represents store-wide statistics
type StatsResponse struct {
	TotalPersons      int     `json:"total_persons" example:"120"`
	TotalFaces        int     `json:"total_faces" example:"900"`
	UnassignedFaces   int     `json:"unassigned_faces" example:"40"`
	AvgFacesPerPerson float64 `json:"avg_faces_per_person" example:"7.2"`
	LargestPersonID   string  `json:"largest_person_id,omitempty"`
	LargestPersonSize int     `json:"largest_person_size" example:"31"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    string `json:"code" example:"VALIDATION_FAILED"`
	Message string `json:"message" example:"Request validation failed"`
}

// EmptyResponse represents no content response (204)
type EmptyResponse struct{}

// NewSwagger creates and configures the Swagger documentation
func NewSwagger() *swagno.Swagger {
	sw := swagno.New(swagno.Config{
		Title:       "Sietch Faces API",
		Version:     "v1.0.0",
		Description: "Identity resolution and auto-association engine: face embedding search, clustering, person merge, and photo-to-collection propagation",
		Host:        "localhost:3000",
		Path:        "/v1",
	})

	endpoints := []*endpoint.EndPoint{
		// POST /v1/photos - Upload Photo
		endpoint.New(
			endpoint.POST,
			"/photos",
			endpoint.WithTags("Photos"),
			endpoint.WithSummary("Ingest a photo"),
			endpoint.WithDescription("Detects faces in the uploaded photo, auto-associates them with known persons, and propagates the photo into the collections it belongs in. Re-processing the same photo adds nothing twice."),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(UploadResponse{}, "201", "Photo processed successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Invalid request"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "INVALID_IMAGE", Message: "Invalid image file"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "DIMENSION_MISMATCH", Message: "Embedding dimension mismatch"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// POST /v1/photos/detected - Associate Pre-Detected Faces
		endpoint.New(
			endpoint.POST,
			"/photos/detected",
			endpoint.WithTags("Photos"),
			endpoint.WithSummary("Associate faces detected upstream"),
			endpoint.WithDescription("Runs the association pipeline for faces a calling service already detected, skipping detection. Same idempotent collection behavior as photo upload."),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(UploadResponse{}, "201", "Faces associated successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Invalid request"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "DIMENSION_MISMATCH", Message: "Embedding dimension mismatch"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// POST /v1/photos/propagate - Retroactive Propagation
		endpoint.New(
			endpoint.POST,
			"/photos/propagate",
			endpoint.WithTags("Photos"),
			endpoint.WithSummary("Propagate a claimed person's photos"),
			endpoint.WithDescription("Retroactively links every photo a claimed person appears in into their own-face collection. Idempotent."),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(PropagateResponse{}, "200", "Propagation completed"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "BAD_REQUEST", Message: "Person is not claimed"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "PERSON_NOT_FOUND", Message: "Person not found"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// POST /v1/search - Similarity Search
		endpoint.New(
			endpoint.POST,
			"/search",
			endpoint.WithTags("Search"),
			endpoint.WithSummary("Search faces by embedding similarity"),
			endpoint.WithDescription("Ranks stored faces by cosine similarity against the query embedding, filtered by scope (all, claimed, unclaimed, person)"),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(SearchResponse{}, "200", "Search completed successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Invalid request"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "DIMENSION_MISMATCH", Message: "Embedding dimension mismatch"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "INVALID_THRESHOLD", Message: "Threshold out of range"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// POST /v1/cluster - Cluster Faces
		endpoint.New(
			endpoint.POST,
			"/cluster",
			endpoint.WithTags("Cluster"),
			endpoint.WithSummary("Partition faces into identity clusters"),
			endpoint.WithDescription("Runs density-based clustering over the in-scope faces. With materialize set, each cluster containing unassigned faces becomes a new anonymous person."),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(ClusterResponse{}, "200", "Clustering completed successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Invalid request"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// GET /v1/persons - List Persons
		endpoint.New(
			endpoint.GET,
			"/persons",
			endpoint.WithTags("Persons"),
			endpoint.WithSummary("List persons"),
			endpoint.WithDescription("Lists persons with face counts"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.IntParam("limit", parameter.Query, parameter.WithDescription("Maximum number of persons (default: 50, max: 500)")),
				parameter.IntParam("offset", parameter.Query, parameter.WithDescription("Offset for pagination (default: 0)")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New([]PersonData{}, "200", "Persons retrieved successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// POST /v1/persons - Create Person
		endpoint.New(
			endpoint.POST,
			"/persons",
			endpoint.WithTags("Persons"),
			endpoint.WithSummary("Create a person"),
			endpoint.WithDescription("Creates a person, optionally named, with no faces yet"),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(PersonData{}, "201", "Person created successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Invalid request"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// GET /v1/persons/:id - Get Person
		endpoint.New(
			endpoint.GET,
			"/persons/{id}",
			endpoint.WithTags("Persons"),
			endpoint.WithSummary("Get a person with their faces"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("id", parameter.Path, parameter.WithDescription("Person UUID")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(PersonWithFacesData{}, "200", "Person retrieved successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "PERSON_NOT_FOUND", Message: "Person not found"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// PUT /v1/persons/:id - Rename Person
		endpoint.New(
			endpoint.PUT,
			"/persons/{id}",
			endpoint.WithTags("Persons"),
			endpoint.WithSummary("Rename a person"),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("id", parameter.Path, parameter.WithDescription("Person UUID")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EmptyResponse{}, "204", "Person renamed successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "PERSON_NOT_FOUND", Message: "Person not found"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// DELETE /v1/persons/:id - Delete Person
		endpoint.New(
			endpoint.DELETE,
			"/persons/{id}",
			endpoint.WithTags("Persons"),
			endpoint.WithSummary("Delete a person"),
			endpoint.WithDescription("Deletes a person and, through the cascade, all their faces"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("id", parameter.Path, parameter.WithDescription("Person UUID")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EmptyResponse{}, "204", "Person deleted successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "PERSON_NOT_FOUND", Message: "Person not found"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// POST /v1/persons/:id/claim - Claim Person
		endpoint.New(
			endpoint.POST,
			"/persons/{id}/claim",
			endpoint.WithTags("Persons"),
			endpoint.WithSummary("Claim a person for an account"),
			endpoint.WithDescription("Links a person to an owning account, registers the account's own-face collection, and retroactively propagates the person's photos into it"),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("id", parameter.Path, parameter.WithDescription("Person UUID")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(ClaimResponse{}, "200", "Person claimed successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Invalid request"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "PERSON_NOT_FOUND", Message: "Person not found"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "ACCOUNT_ALREADY_CLAIMED", Message: "Account already claimed another person"}, "409", "Conflict"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// POST /v1/persons/merge - Merge Persons
		endpoint.New(
			endpoint.POST,
			"/persons/merge",
			endpoint.WithTags("Persons"),
			endpoint.WithSummary("Merge persons"),
			endpoint.WithDescription("Atomically absorbs the source persons into the target: faces are reassigned, sources are deleted, and the target's collections are brought up to date"),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(MergeResultData{}, "200", "Merge completed successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "PERSON_NOT_FOUND", Message: "Target person not found"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "INVALID_MERGE_REQUEST", Message: "Invalid merge request"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// GET /v1/persons/:id/faces - List Person Faces
		endpoint.New(
			endpoint.GET,
			"/persons/{id}/faces",
			endpoint.WithTags("Persons"),
			endpoint.WithSummary("List a person's faces"),
			endpoint.WithDescription("Returns every face assigned to the given person"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("id", parameter.Path, parameter.WithDescription("Person UUID")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New([]FaceData{}, "200", "Faces retrieved successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "PERSON_NOT_FOUND", Message: "Person not found"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// GET /v1/persons/:id/merge-suggestions - Merge Suggestions
		endpoint.New(
			endpoint.GET,
			"/persons/{id}/merge-suggestions",
			endpoint.WithTags("Persons"),
			endpoint.WithSummary("Suggest likely duplicate persons"),
			endpoint.WithDescription("Ranks other persons by maximum pairwise face similarity with the given person"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("id", parameter.Path, parameter.WithDescription("Person UUID")),
				parameter.IntParam("limit", parameter.Query, parameter.WithDescription("Maximum number of suggestions (default: 10, max: 100)")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New([]MergeSuggestionData{}, "200", "Suggestions retrieved successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "PERSON_NOT_FOUND", Message: "Person not found"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// GET /v1/faces - List Faces
		endpoint.New(
			endpoint.GET,
			"/faces",
			endpoint.WithTags("Faces"),
			endpoint.WithSummary("List faces"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.IntParam("limit", parameter.Query, parameter.WithDescription("Maximum number of faces (default: 50, max: 500)")),
				parameter.IntParam("offset", parameter.Query, parameter.WithDescription("Offset for pagination (default: 0)")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New([]FaceData{}, "200", "Faces retrieved successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// GET /v1/faces/:id - Get Face
		endpoint.New(
			endpoint.GET,
			"/faces/{id}",
			endpoint.WithTags("Faces"),
			endpoint.WithSummary("Get a face"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("id", parameter.Path, parameter.WithDescription("Face UUID")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(FaceData{}, "200", "Face retrieved successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "FACE_NOT_FOUND", Message: "Face not found"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// DELETE /v1/faces/:id - Delete Face
		endpoint.New(
			endpoint.DELETE,
			"/faces/{id}",
			endpoint.WithTags("Faces"),
			endpoint.WithSummary("Delete a face"),
			endpoint.WithDescription("Removes a face observation. When it was the person's last face, the now-empty person is removed with it."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("id", parameter.Path, parameter.WithDescription("Face UUID")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EmptyResponse{}, "204", "Face deleted successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "FACE_NOT_FOUND", Message: "Face not found"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// GET /v1/stats - Statistics
		endpoint.New(
			endpoint.GET,
			"/stats",
			endpoint.WithTags("Stats"),
			endpoint.WithSummary("Get store-wide statistics"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(StatsResponse{}, "200", "Statistics retrieved successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),
	}

	sw.AddEndpoints(endpoints)

	return sw
}
