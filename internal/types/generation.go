package types

type GenerationInfo struct {
	NumGenerations    int `json:"numGenerations"`
	CurrentGeneration int `json:"currentGeneration"`
	NumImages         int `json:"numImages"`
}

// HasRun reports whether the server holds at least one generation with images.
func (g GenerationInfo) HasRun() bool {
	return g.NumGenerations >= 1 && g.NumImages >= 1
}

// MaximumGeneration is the highest generation index the info describes.
func (g GenerationInfo) MaximumGeneration() int {
	if g.NumGenerations < 1 {
		return 0
	}
	return g.NumGenerations - 1
}

type BreedTarget struct {
	Generation int   `json:"generation"`
	Images     []int `json:"images"`
}
