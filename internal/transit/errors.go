// SPDX-License-Identifier: MIT

package transit

import "errors"

// ErrNotFound is returned when a stop or route does not exist.
var ErrNotFound = errors.New("transit: not found")
