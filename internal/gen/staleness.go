package gen

import "time"

// ShouldRegenerate is the staleness decision for a single artifact. It is
// evaluated independently for the type overview and for every symbol page.
//
// An artifact is stale when it does not exist, when its spec document is
// strictly newer than it, or when the generator itself is newer than either
// of them. The generator clause invalidates the whole corpus after a logic
// change without touching any spec file.
func ShouldRegenerate(outputExists bool, outputMTime, specMTime, generatorMTime time.Time) bool {
	if !outputExists {
		return true
	}
	if specMTime.After(outputMTime) {
		return true
	}
	return generatorMTime.After(specMTime) || generatorMTime.After(outputMTime)
}
