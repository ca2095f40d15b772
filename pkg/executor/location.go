// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package executor

// LocationVariant discriminates the closed family of backends a reference
// can point at. Adding a new backend means adding a variant here, a new
// options struct and Location field, a case in packageid.Compute, and a
// backend package that registers its constructor with resolve.Register.
type LocationVariant int

const (
	LocationLocalFileSystem LocationVariant = iota
	LocationGit
	LocationGitOverHTTP
	LocationGitOverSSH
	LocationTarballOverHTTP
	LocationNpm
	LocationCargo
)

func (v LocationVariant) String() string {
	switch v {
	case LocationLocalFileSystem:
		return "local_file_system"
	case LocationGit:
		return "git"
	case LocationGitOverHTTP:
		return "git_over_http"
	case LocationGitOverSSH:
		return "git_over_ssh"
	case LocationTarballOverHTTP:
		return "tarball_over_http"
	case LocationNpm:
		return "npm"
	case LocationCargo:
		return "cargo"
	default:
		return "unknown"
	}
}

// RebuildStrategy governs how the filesystem resolver turns "changes
// detected" into a Keep/Update verdict. It is operational (§4.2): it must
// never feed the package id.
type RebuildStrategy int

const (
	RebuildNone RebuildStrategy = iota
	RebuildOnChanges
	RebuildAlways
)

// FileSystemOptions configures the LocalFileSystem backend. Kind overrides
// inference when set; RebuildStrategy and the IncludeGlob/ExcludeGlobs watch
// patterns are operational and excluded from the package id.
type FileSystemOptions struct {
	Kind            Kind
	RebuildStrategy RebuildStrategy
	IncludeGlob     string
	ExcludeGlobs    []string
}

// GitOptions configures the bare Git backend (no auth, no custom headers).
// Kind, Path and Pull are operational.
type GitOptions struct {
	Checkout CheckoutPin
	Kind     Kind
	Path     string
	Pull     bool
}

// GitHTTPOptions configures Git-over-HTTP. Headers and Auth are
// identity-bearing (§4.2); Kind, Path and Pull are operational.
type GitHTTPOptions struct {
	Checkout CheckoutPin
	Headers  map[string]string
	Auth     AuthDescriptor
	Kind     Kind
	Path     string
	Pull     bool
}

// GitSSHOptions configures Git-over-SSH. Auth is identity-bearing; Kind,
// Path and Pull are operational.
type GitSSHOptions struct {
	Checkout CheckoutPin
	Auth     AuthDescriptor
	Kind     Kind
	Path     string
	Pull     bool
}

// TarballOptions configures the (unsupported, see resolveerr.Unsupported)
// HTTP tarball backend.
type TarballOptions struct {
	Headers map[string]string
	Auth    AuthDescriptor
}

// PackageOptions configures the (unsupported) Npm/Cargo registry backends.
type PackageOptions struct {
	Version string
	Token   string
}

// Location is a tagged union over the backend variants a reference can
// resolve through. Exactly one of the pointer fields matching Variant is
// populated; the others are nil. This mirrors a closed sum type using the
// common Go idiom of a discriminant field plus per-variant option structs,
// rather than an interface, so that encoding/decoding and equality checks
// stay straightforward reflection over a plain struct.
type Location struct {
	Variant LocationVariant

	FileSystem *FileSystemOptions
	Git        *GitOptions
	GitHTTP    *GitHTTPOptions
	GitSSH     *GitSSHOptions
	Tarball    *TarballOptions
	Npm        *PackageOptions
	Cargo      *PackageOptions
}

func NewLocalFileSystem(opts FileSystemOptions) Location {
	return Location{Variant: LocationLocalFileSystem, FileSystem: &opts}
}

func NewGit(opts GitOptions) Location {
	return Location{Variant: LocationGit, Git: &opts}
}

func NewGitOverHTTP(opts GitHTTPOptions) Location {
	return Location{Variant: LocationGitOverHTTP, GitHTTP: &opts}
}

func NewGitOverSSH(opts GitSSHOptions) Location {
	return Location{Variant: LocationGitOverSSH, GitSSH: &opts}
}

func NewTarballOverHTTP(opts TarballOptions) Location {
	return Location{Variant: LocationTarballOverHTTP, Tarball: &opts}
}

func NewNpm(opts PackageOptions) Location {
	return Location{Variant: LocationNpm, Npm: &opts}
}

func NewCargo(opts PackageOptions) Location {
	return Location{Variant: LocationCargo, Cargo: &opts}
}
