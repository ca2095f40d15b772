// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package executor

import "strings"

// ReferenceKind discriminates whether a reference carries an explicit
// Location or relies on scheme inference.
type ReferenceKind int

const (
	ReferenceStandard ReferenceKind = iota
	ReferenceCustom
)

// Reference is what workspace configuration parsing produces for one
// executor: a URL and, optionally, an explicit Location. A Standard
// reference's location is inferred from the URL's scheme at resolve time
// (see InferLocation); a Custom reference carries its own Location built
// from the configuration's location block.
type Reference struct {
	Kind     ReferenceKind
	URL      string
	Location Location
}

func NewStandardReference(url string) Reference {
	return Reference{Kind: ReferenceStandard, URL: url}
}

func NewCustomReference(url string, location Location) Reference {
	return Reference{Kind: ReferenceCustom, URL: url, Location: location}
}

// ResolvedLocation returns the Location this reference should resolve
// through: the explicit one for Custom references, or one inferred from the
// URL scheme for Standard references.
func (r Reference) ResolvedLocation() (Location, error) {
	if r.Kind == ReferenceCustom {
		return r.Location, nil
	}
	return InferLocation(r.URL)
}

// InferLocation derives a Location from a bare URL's scheme, the same
// fallback a Standard reference uses: "file://" and bare relative/absolute
// paths resolve to LocalFileSystem; "git://" URLs resolve to Git; "git@...:"
// and any "ssh://" URL resolve to GitOverSSH; "https://"/"http://" URLs
// ending in ".git" resolve to GitOverHTTP; any other "https://"/"http://"
// URL resolves to TarballOverHTTP.
func InferLocation(url string) (Location, error) {
	switch {
	case strings.HasPrefix(url, "file://"), !strings.Contains(url, "://") && !strings.HasPrefix(url, "git@"):
		return NewLocalFileSystem(FileSystemOptions{}), nil
	case strings.HasPrefix(url, "git://"):
		return NewGit(GitOptions{}), nil
	case strings.HasPrefix(url, "ssh://"), strings.HasPrefix(url, "git@"):
		return NewGitOverSSH(GitSSHOptions{}), nil
	case strings.HasPrefix(url, "https://"), strings.HasPrefix(url, "http://"):
		if strings.HasSuffix(url, ".git") {
			return NewGitOverHTTP(GitHTTPOptions{}), nil
		}
		return NewTarballOverHTTP(TarballOptions{}), nil
	default:
		return Location{}, decodeErrorf("cannot infer a location from url %q", url)
	}
}
