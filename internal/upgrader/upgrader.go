package upgrader

import (
	"strings"

	"golang.org/x/mod/semver"

	"github.com/rios0rios0/depwatch/internal/domain/entities"
)

// Bump is the size of the move from one version to another.
type Bump string

const (
	BumpNone      Bump = ""
	BumpMajor     Bump = "major"
	BumpMinor     Bump = "minor"
	BumpPatch     Bump = "patch"
	BumpDowngrade Bump = "downgrade"
	BumpUnknown   Bump = "?"
)

// AnalyzeVersionDiff classifies the change from current to target. Versions that
// are not valid semver once normalized are reported as BumpUnknown, and a target
// sorting below current as BumpDowngrade.
func AnalyzeVersionDiff(current, target *entities.Version) Bump {
	if current == nil || target == nil || entities.VersionsEqual(current, target) {
		return BumpNone
	}

	currentNorm := normalizeVersion(current)
	targetNorm := normalizeVersion(target)
	if !semver.IsValid(currentNorm) || !semver.IsValid(targetNorm) {
		return BumpUnknown
	}
	if IsNewerVersion(target, current) {
		return BumpDowngrade
	}

	if semver.Major(currentNorm) != semver.Major(targetNorm) {
		return BumpMajor
	}
	if semver.MajorMinor(currentNorm) != semver.MajorMinor(targetNorm) {
		return BumpMinor
	}
	return BumpPatch
}

// IsNewerVersion reports whether target sorts above current.
func IsNewerVersion(current, target *entities.Version) bool {
	return target.Compare(current) > 0
}

// normalizeVersion gives a parsed version the "v" prefix semver expects,
// keeping at most major.minor.patch plus the pre-release suffix.
func normalizeVersion(version *entities.Version) string {
	if version.Major() == entities.WildcardVersion {
		return ""
	}
	parsed := strings.TrimSpace(version.Parsed)
	if len(version.Segments) > 3 && !version.IsPreRelease() {
		parsed = strings.Join(version.Segments[:3], ".")
	}
	return "v" + strings.TrimPrefix(parsed, "v")
}
