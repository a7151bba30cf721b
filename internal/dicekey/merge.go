package dicekey

// MinMatchingFaces is the number of cells that must agree exactly before
// two scans are treated as the same physical key.
const MinMatchingFaces = 10

// MergeFaces combines the readings of one die from two scans.
//
// When only one reading is defined it wins. When neither is, the one with
// the lower error wins. When both are defined and agree, an error location
// survives only if both scans reported it: the merged magnitude is zero if
// no location survives and otherwise the smaller of the two. Two defined
// readings that disagree keep the one with the lower error. Ties go to
// current.
func MergeFaces(previous, current Face) Face {
	pd, cd := previous.IsDefined(), current.IsDefined()
	switch {
	case pd && !cd:
		return previous
	case cd && !pd:
		return current
	case !pd && !cd, !previous.SameReading(current):
		if previous.Error.Magnitude < current.Error.Magnitude {
			return previous
		}
		return current
	}

	merged := current
	merged.Error.Location = previous.Error.Location & current.Error.Location
	if merged.Error.Location == LocationNone {
		merged.Error.Magnitude = 0
	} else {
		merged.Error.Magnitude = min(previous.Error.Magnitude, current.Error.Magnitude)
	}
	return merged
}

// IsPotentialMatch reports whether previous and current could be two scans
// of the same key in the same orientation. Every cell must either agree
// exactly or have a nonzero error on at least one side, and more than nine
// defined cells must agree exactly. Cells read in neither scan agree
// trivially and do not count. Two error-free faces that disagree mean the
// scans show different physical states.
func IsPotentialMatch(previous, current Credential) bool {
	if !previous.Initialized || !current.Initialized {
		return false
	}
	matching := 0
	for i := range current.Faces {
		p, c := previous.Faces[i], current.Faces[i]
		if p.SameReading(c) {
			if p.IsDefined() {
				matching++
			}
			continue
		}
		if p.Error.Magnitude == 0 && c.Error.Magnitude == 0 {
			return false
		}
	}
	return matching >= MinMatchingFaces
}

// Merge folds previous into current so that errors seen in only one of the
// two scans cancel. previous is tried in each of its four rotations; the
// first rotation that IsPotentialMatch accepts is merged cell by cell. If
// none match, current is returned unchanged. An uninitialized side yields
// the other side.
func Merge(previous, current Credential) Credential {
	if !previous.Initialized {
		return current
	}
	if !current.Initialized {
		return previous
	}
	for turns := 0; turns < 4; turns++ {
		rotated := previous.Rotate(turns)
		if !IsPotentialMatch(rotated, current) {
			continue
		}
		var merged [NumFaces]Face
		for i := range merged {
			merged[i] = MergeFaces(rotated.Faces[i], current.Faces[i])
		}
		return NewCredential(merged)
	}
	return current
}
