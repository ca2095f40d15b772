// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package executor

import "fmt"

func decodeErrorf(format string, args ...any) error {
	return fmt.Errorf("executor: "+format, args...)
}
