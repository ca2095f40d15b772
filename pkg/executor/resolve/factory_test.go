// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package resolve

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/blaze/pkg/executor"
	"github.com/kraklabs/blaze/pkg/executor/resolveerr"
	"github.com/kraklabs/blaze/pkg/value"
)

type stubResolver struct{}

func (stubResolver) Resolve(ctx context.Context, url string, rc Context) (Resolution, error) {
	return Resolution{LoadMetadata: executor.LoadMetadata{Kind: executor.KindNode, Src: url}}, nil
}

func (stubResolver) Update(ctx context.Context, url string, rc Context, state value.Value) (Update, error) {
	return Keep(), nil
}

func TestDispatchReturnsRegisteredResolver(t *testing.T) {
	Register(executor.LocationLocalFileSystem, func(loc executor.Location) (Resolver, error) {
		return stubResolver{}, nil
	})

	r, err := Dispatch(executor.NewLocalFileSystem(executor.FileSystemOptions{}))
	require.NoError(t, err)

	res, err := r.Resolve(context.Background(), "file://./x", Context{})
	require.NoError(t, err)
	assert.Equal(t, executor.KindNode, res.LoadMetadata.Kind)
}

func TestDispatchReturnsUnsupportedForUnregisteredVariant(t *testing.T) {
	_, err := Dispatch(executor.NewNpm(executor.PackageOptions{}))
	require.Error(t, err)

	var target *resolveerr.Error
	require.True(t, errors.As(err, &target))
	assert.Equal(t, resolveerr.KindUnsupported, target.Kind)
}
