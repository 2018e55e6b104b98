package calibrate

import gomath "math"

// Angle names, offsets relative to the frozen front-face rotation.
const (
	AngleFace             = "face"
	AngleDos              = "dos"
	AngleProfilDroit      = "profil_droit"
	AngleProfilGauche     = "profil_gauche"
	AngleTroisQuartDroite = "trois_quart_droite"
	AngleTroisQuartGauche = "trois_quart_gauche"
)

var angleOffsets = map[string]float32{
	AngleFace:             0,
	AngleDos:              gomath.Pi,
	AngleProfilDroit:      gomath.Pi / 2,
	AngleProfilGauche:     -gomath.Pi / 2,
	AngleTroisQuartDroite: gomath.Pi / 4,
	AngleTroisQuartGauche: -gomath.Pi / 4,
}

// AngleOffset resolves a preset angle name to its Y-rotation offset in
// radians. Returns false for unknown names.
func AngleOffset(name string) (float32, bool) {
	offset, ok := angleOffsets[name]
	return offset, ok
}

// KnownAngles reports whether every name in the list resolves.
func KnownAngles(names []string) (string, bool) {
	for _, n := range names {
		if _, ok := angleOffsets[n]; !ok {
			return n, false
		}
	}
	return "", true
}
