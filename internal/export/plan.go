// Package export orchestrates frame sequencing, multi-angle batching,
// and sprite-sheet assembly on top of the capture subsystem.
package export

import "strings"

// PlanFrames computes which discrete frame indices to render. With
// renderSteps out of the useful range every frame is included;
// otherwise frames are sampled at a fixed stride and the last frame is
// force-appended so the end of the animation is always exported.
func PlanFrames(totalFrames, renderSteps int) []int {
	if totalFrames <= 0 {
		return nil
	}

	if renderSteps <= 1 || renderSteps >= totalFrames {
		frames := make([]int, totalFrames)
		for i := range frames {
			frames[i] = i
		}
		return frames
	}

	step := totalFrames / renderSteps
	if step < 1 {
		step = 1
	}

	var frames []int
	for i := 0; i < totalFrames; i += step {
		frames = append(frames, i)
	}

	if last := totalFrames - 1; frames[len(frames)-1] != last {
		frames = append(frames, last)
	}
	return frames
}

// hostileChars are characters replaced when a name becomes a path
// segment.
const hostileChars = `<>:"|?*/\`

// SanitizeName makes a name safe to use as a path segment.
func SanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(hostileChars, r) {
			return '_'
		}
		return r
	}, name)
}
