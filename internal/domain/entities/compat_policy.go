package entities

// DefaultCompatMarker tags the Angular compatibility builds some vendors publish
// alongside their regular versions (e.g. "24.2.3-ngcc").
const DefaultCompatMarker = "ngcc"

// CompatChannelPolicy isolates packages that publish a parallel numbering branch
// identified by a suffix token. A dependency declared on the branch is only compared
// with versions of that branch; every other dependency never sees them.
type CompatChannelPolicy struct {
	Marker string
}

// NewCompatChannelPolicy returns a policy for marker. An empty marker disables it.
func NewCompatChannelPolicy(marker string) CompatChannelPolicy {
	return CompatChannelPolicy{Marker: marker}
}

// Matches reports whether v is on the compatibility branch.
func (p CompatChannelPolicy) Matches(v *Version) bool {
	return v.HasMarker(p.Marker)
}

// Exclude drops every version on the compatibility branch.
func (p CompatChannelPolicy) Exclude(versions []*Version) []*Version {
	return p.filter(versions, false)
}

// Only keeps the versions on the compatibility branch.
func (p CompatChannelPolicy) Only(versions []*Version) []*Version {
	return p.filter(versions, true)
}

func (p CompatChannelPolicy) filter(versions []*Version, keep bool) []*Version {
	if p.Marker == "" {
		if keep {
			return nil
		}
		return versions
	}
	result := make([]*Version, 0, len(versions))
	for _, v := range versions {
		if p.Matches(v) == keep {
			result = append(result, v)
		}
	}
	return result
}
