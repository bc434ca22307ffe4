package rules

import "github.com/SketchTurnerrr/imago-server/internal/domain/enums"

// OppositeGender maps a viewer's gender to the gender their candidate
// feed is drawn from. The zero Gender has no opposite.
func OppositeGender(g enums.Gender) (enums.Gender, bool) {
	switch g {
	case enums.GenderMale:
		return enums.GenderFemale, true
	case enums.GenderFemale:
		return enums.GenderMale, true
	default:
		return "", false
	}
}
