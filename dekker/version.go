package dekker

import "golang.org/x/mod/semver"

// Version information for the dekker package.
const (
	// Version is the current version of the package, in semantic version
	// form with the leading "v".
	Version = "v0.1.0"

	// VersionMajor is the major version number.
	VersionMajor = 0

	// VersionMinor is the minor version number.
	VersionMinor = 1

	// VersionPatch is the patch version number.
	VersionPatch = 0
)

// Info describes the lock implementation.
type Info struct {
	// Version is the package version string.
	Version string

	// Algorithm is the mutual exclusion algorithm used.
	Algorithm string

	// Participants is the number of handles per lock.
	Participants int
}

// GetInfo returns information about the lock implementation.
//
// Example:
//
//	info := dekker.GetInfo()
//	fmt.Printf("%s %s\n", info.Algorithm, info.Version)
func GetInfo() Info {
	return Info{
		Version:      Version,
		Algorithm:    "Dekker (1965)",
		Participants: 2,
	}
}

// Compatible reports whether this package satisfies a dependency on version
// required: same major version and not older.
//
// required must be a valid semantic version such as "v0.1.0"; anything else
// is reported as incompatible. For v0 versions the minor number is treated
// as the compatibility boundary, as is usual before v1.
func Compatible(required string) bool {
	if !semver.IsValid(required) {
		return false
	}
	if semver.Major(required) != semver.Major(Version) {
		return false
	}
	if semver.Major(Version) == "v0" && semver.MajorMinor(required) != semver.MajorMinor(Version) {
		return false
	}
	return semver.Compare(Version, required) >= 0
}
