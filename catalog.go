package models

// DefaultModelName is the catalog entry fetched when no name is given.
const DefaultModelName = "pose-landmark-lite"

// catalog is the compiled-in set of known model artifacts. Source URLs are
// fixed at build time; they are not configurable via flags or environment.
var catalog = []Model{
	{
		Name:     "pose-landmark-lite",
		FileName: "pose_landmark_lite.tflite",
		Format:   "tflite",
		URL:      "https://cdn.jsdelivr.net/npm/@mediapipe/pose@0.5.1675469404/pose_landmark_lite.tflite",
	},
	{
		Name:     "pose-landmarker-lite",
		FileName: "pose_landmarker_lite.task",
		Format:   "task",
		URL:      "https://storage.googleapis.com/mediapipe-models/pose_landmarker/pose_landmarker_lite/float16/1/pose_landmarker_lite.task",
	},
}

// Catalog returns the compiled-in model catalog.
// The returned slice is a copy; modifications do not affect the catalog.
func Catalog() []Model {
	out := make([]Model, len(catalog))
	copy(out, catalog)
	return out
}

// LookupModel returns the catalog entry with the given name.
// Returns ErrUnknownModel if no entry matches.
func LookupModel(name string) (Model, error) {
	for _, m := range catalog {
		if m.Name == name {
			return m, nil
		}
	}
	return Model{}, ErrUnknownModel
}
