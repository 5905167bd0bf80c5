package entities

import (
	"strconv"
	"strings"
	"sync"
)

// Source identifies the registry family a dependency belongs to.
type Source int

const (
	SourceUnknown Source = iota
	SourceNpm
	SourceNuGet
)

func (s Source) String() string {
	switch s {
	case SourceNpm:
		return "npm"
	case SourceNuGet:
		return "nuget"
	default:
		return "unknown"
	}
}

// ParseSource maps a source name ("npm", "nuget") to a Source.
func ParseSource(name string) Source {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "npm":
		return SourceNpm
	case "nuget":
		return SourceNuGet
	default:
		return SourceUnknown
	}
}

// Dependency is one declared package inside one project manifest.
// It is created by a manifest reader with only CurrentVersion set and filled
// once by the refresh pipeline. Mutations go through its methods.
type Dependency struct {
	mu sync.Mutex

	Name          string
	Order         int
	Source        Source
	DevDependency bool
	ProjectName   string

	// DeclaredVersion is the version text exactly as written in the manifest.
	DeclaredVersion string

	CurrentVersion     *Version
	RequestedVersion   *Version
	LatestVersion      *Version
	LatestMinorVersion *Version
	AllVersions        []*Version

	PackageURL string
	ProjectURL string

	IsCurrentVersionInvalid   bool
	IsRequestedVersionInvalid bool
	HasFailed                 bool
	FailureMessage            string
}

// NewDependency creates a record for a declaration found in a manifest.
func NewDependency(name, declaredVersion string, order int, source Source) *Dependency {
	return &Dependency{
		Name:            name,
		Order:           order,
		Source:          source,
		DeclaredVersion: declaredVersion,
		CurrentVersion:  ParseVersion(declaredVersion),
	}
}

// RegistryPackage is what a registry reports about one package.
type RegistryPackage struct {
	Versions   []*Version
	ProjectURL string
	PackageURL string
}

// resolution is the full outcome of AssignVersions, committed in one step.
type resolution struct {
	all              []*Version
	current          *Version
	latest           *Version
	latestMinor      *Version
	requested        *Version
	currentInvalid   bool
	requestedInvalid bool
}

// AssignVersions resolves current, latest, latest-minor and requested versions from
// every version the registry knows about. The result is computed up front and
// committed under the record lock, so readers never see a half-resolved record.
func (it *Dependency) AssignVersions(
	versions []*Version,
	selection SelectionSettings,
	compat CompatChannelPolicy,
) {
	it.mu.Lock()
	defer it.mu.Unlock()

	it.commit(resolveVersions(it.CurrentVersion, versions, selection, compat))
}

// AssignRegistryPackage stores the registry links and resolves the versions
// in one update of the record.
func (it *Dependency) AssignRegistryPackage(
	pkg *RegistryPackage,
	selection SelectionSettings,
	compat CompatChannelPolicy,
) {
	it.mu.Lock()
	defer it.mu.Unlock()

	res := resolveVersions(it.CurrentVersion, pkg.Versions, selection, compat)
	it.PackageURL = pkg.PackageURL
	it.ProjectURL = pkg.ProjectURL
	it.commit(res)
}

func (it *Dependency) commit(res resolution) {
	it.AllVersions = res.all
	it.CurrentVersion = res.current
	it.LatestVersion = res.latest
	it.LatestMinorVersion = res.latestMinor
	it.RequestedVersion = res.requested
	it.IsCurrentVersionInvalid = res.currentInvalid
	it.IsRequestedVersionInvalid = res.requestedInvalid
}

func resolveVersions(
	declared *Version,
	versions []*Version,
	selection SelectionSettings,
	compat CompatChannelPolicy,
) resolution {
	candidates := versions
	if !compat.Matches(declared) {
		candidates = compat.Exclude(versions)
	}

	res := resolution{all: versions, current: declared}
	if len(candidates) == 0 {
		res.currentInvalid = true
		res.requestedInvalid = selection.RequestedMajor > 0
		return res
	}

	res.latest = HighestVersion(candidates)
	res.latestMinor = highestWithMajor(candidates, declared.Major())
	if res.latestMinor == nil {
		res.latestMinor = declared
	}

	if declared.Major() == WildcardVersion {
		res.current = HighestVersion(candidates)
	} else if found := findEqual(candidates, declared); found != nil {
		res.current = found
	} else {
		res.currentInvalid = true
	}

	if selection.RequestedMajor > 0 {
		res.requested = highestWithMajor(candidates, strconv.Itoa(selection.RequestedMajor))
		res.requestedInvalid = res.requested == nil
	}

	if compat.Matches(res.current) {
		tagged := compat.Only(candidates)
		res.latest = HighestVersion(tagged)
		if res.latest == nil {
			res.latest = HighestVersion(candidates)
		}
		res.latestMinor = highestWithMajor(tagged, res.current.Major())
		if res.latestMinor == nil {
			res.latestMinor = res.current
		}
		if selection.RequestedMajor > 0 {
			res.requested = highestWithMajor(tagged, strconv.Itoa(selection.RequestedMajor))
			res.requestedInvalid = res.requested == nil
		}
	}

	return res
}

func highestWithMajor(versions []*Version, major string) *Version {
	var matching []*Version
	for _, v := range versions {
		if v.Major() == major {
			matching = append(matching, v)
		}
	}
	return HighestVersion(matching)
}

func findEqual(versions []*Version, target *Version) *Version {
	for _, v := range versions {
		if VersionsEqual(v, target) {
			return v
		}
	}
	return nil
}

// SetFailure marks the record as failed with message.
func (it *Dependency) SetFailure(message string) {
	it.mu.Lock()
	defer it.mu.Unlock()
	it.HasFailed = true
	it.FailureMessage = message
}

// ClearFailure resets the failure state.
func (it *Dependency) ClearFailure() {
	it.mu.Lock()
	defer it.mu.Unlock()
	it.HasFailed = false
	it.FailureMessage = ""
}

// AttachVulnerabilities records advisories affecting the current version.
func (it *Dependency) AttachVulnerabilities(vulnerabilities []Vulnerability) {
	it.mu.Lock()
	defer it.mu.Unlock()
	if it.CurrentVersion == nil || len(vulnerabilities) == 0 {
		return
	}
	it.CurrentVersion.Vulnerabilities = append(it.CurrentVersion.Vulnerabilities, vulnerabilities...)
}

// SetProjectName sets the back-reference to the owning project.
func (it *Dependency) SetProjectName(name string) {
	it.mu.Lock()
	defer it.mu.Unlock()
	it.ProjectName = name
}

// IsLatestVersion reports whether the current version equals the latest one.
func (it *Dependency) IsLatestVersion() bool {
	return VersionsEqual(it.CurrentVersion, it.LatestVersion)
}

// IsLatestMinorVersion reports whether the current version equals the latest of its major.
func (it *Dependency) IsLatestMinorVersion() bool {
	return VersionsEqual(it.CurrentVersion, it.LatestMinorVersion)
}

// IsRequestedVersionMatch reports whether the current version equals the requested one.
func (it *Dependency) IsRequestedVersionMatch() bool {
	return VersionsEqual(it.CurrentVersion, it.RequestedVersion)
}

// HasVersionMismatch reports whether the current version differs from the version
// the selection policy targets.
func (it *Dependency) HasVersionMismatch(selection SelectionSettings) bool {
	if it.RequestedVersion != nil {
		return !it.IsRequestedVersionMatch()
	}
	if selection.KeepMajor {
		return !it.IsLatestMinorVersion()
	}
	return !it.IsLatestVersion()
}

// DesiredVersion is the version the dependency should move to:
// requested, else latest-minor when keeping the major, else latest.
func (it *Dependency) DesiredVersion(selection SelectionSettings) *Version {
	if it.RequestedVersion != nil {
		return it.RequestedVersion
	}
	if selection.KeepMajor {
		return it.LatestMinorVersion
	}
	return it.LatestVersion
}

// VersionURL links the current version on the registry.
func (it *Dependency) VersionURL() string {
	return it.CurrentVersion.URL(it.PackageURL)
}

// Matches reports whether the dependency name contains any of the filters,
// case-insensitively.
func (it *Dependency) Matches(filters []string) bool {
	name := strings.ToLower(it.Name)
	for _, f := range filters {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" && strings.Contains(name, f) {
			return true
		}
	}
	return false
}
