// Package resource models the targets settle manages: packages, marker
// blocks in text files, services, users and apt repository files. Probes are
// selected by an exhaustive switch on the resource kind, never by comparing
// strings.
package resource

import (
	"github.com/melih-ucgun/settle/internal/core"
)

// Kind is the closed set of resource categories.
type Kind int

const (
	KindPackage Kind = iota
	KindFileMarker
	KindService
	KindUser
	KindGroupMember
	KindRepository
)

func (k Kind) String() string {
	switch k {
	case KindPackage:
		return "pkg"
	case KindFileMarker:
		return "marker"
	case KindService:
		return "service"
	case KindUser:
		return "user"
	case KindGroupMember:
		return "group"
	case KindRepository:
		return "repo"
	}
	return "unknown"
}

// Resource is a target with a stable identifier. Identifiers are unique
// within a kind. Path and Marker are only meaningful for the file kinds.
type Resource struct {
	Kind       Kind
	Identifier string

	// Path is the target file for KindFileMarker and KindRepository.
	Path string
	// Marker is the sentinel line whose presence means "already configured".
	Marker string
}

// Ref returns the log/report identity of the resource.
func (r Resource) Ref() core.ResourceRef {
	return core.ResourceRef{Kind: r.Kind.String(), ID: r.Identifier}
}

// Probe answers whether the resource is already in its desired state. It is
// total and side-effect free: missing files, missing tools and failed
// queries all come back as unsatisfied, never as an error.
func (r Resource) Probe(ctx *core.SystemContext) core.ProbeState {
	switch r.Kind {
	case KindPackage:
		return probePackage(ctx, r.Identifier)
	case KindFileMarker:
		return probeMarker(ctx, r.Path, r.Marker)
	case KindService:
		return probeService(ctx, r.Identifier)
	case KindUser:
		return probeUser(ctx, r.Identifier)
	case KindGroupMember:
		return probeGroupMember(ctx, r.Identifier)
	case KindRepository:
		return probeRepository(ctx, r.Path)
	}
	return core.StateUnknown
}

// AsProbe adapts the resource to the engine's probe contract.
func (r Resource) AsProbe() core.Probe {
	return func(ctx *core.SystemContext) core.ProbeState {
		return r.Probe(ctx)
	}
}

// Package declares an installed dpkg package.
func Package(name string) Resource {
	return Resource{Kind: KindPackage, Identifier: name}
}

// Marker declares a sentinel-guarded block inside a text file. The marker's
// presence is the sole idempotency test; no semantic diffing happens.
func Marker(id, path, marker string) Resource {
	return Resource{Kind: KindFileMarker, Identifier: id, Path: path, Marker: marker}
}

// Service declares a systemd unit that must be enabled and active.
func Service(name string) Resource {
	return Resource{Kind: KindService, Identifier: name}
}

// User declares an existing account.
func User(name string) Resource {
	return Resource{Kind: KindUser, Identifier: name}
}

// GroupMember declares a user's membership in a group. The identifier is
// "user/group".
func GroupMember(user, group string) Resource {
	return Resource{Kind: KindGroupMember, Identifier: user + "/" + group}
}

// Repository declares an apt source file that must exist and be non-empty.
func Repository(id, path string) Resource {
	return Resource{Kind: KindRepository, Identifier: id, Path: path}
}
