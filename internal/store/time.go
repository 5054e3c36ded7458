// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import "time"

// nowFunc is swapped in tests that assert ordering.
var nowFunc = time.Now
